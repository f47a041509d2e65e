package handlers

import (
	"time"

	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/timezone"
)

// --------------------------------------------------
// Dates are always read in the shop's timezone
// --------------------------------------------------

// parseShopDate parses YYYY-MM-DD as midnight in the clock's location.
func parseShopDate(clk clock.Clock, s string) (time.Time, error) {
	return domain.ParseDate(s, clk.Now().Location())
}

// parseBookableDate also rejects days before today.
func parseBookableDate(clk clock.Clock, s string) (time.Time, string) {
	d, err := parseShopDate(clk, s)
	if err != nil {
		return time.Time{}, "Must be a date in YYYY-MM-DD format."
	}
	if d.Before(timezone.StartOfDay(clk.Now())) {
		return time.Time{}, "Must be today or a later date."
	}
	return d, ""
}
