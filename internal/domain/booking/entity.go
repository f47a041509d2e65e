package booking

import (
	"time"

	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

const defaultAdminCancelReason = "Cancelled by admin"

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, reason string, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

// Transition applies an admin status change. Any known status may be set.
// The first move to cancelled stamps the cancellation fields; leaving
// cancelled clears them.
func Transition(b *models.Booking, to Status, reason string, now time.Time) {
	from := Status(b.Status)
	b.Status = string(to)

	switch {
	case to == StatusCancelled && from != StatusCancelled:
		if reason == "" {
			reason = defaultAdminCancelReason
		}
		b.CancellationReason = &reason
		b.CancelledAt = &now
	case Reactivates(from, to):
		b.CancellationReason = nil
		b.CancelledAt = nil
	}
}

// Span returns the booked interval of b.
func Span(b models.Booking) (Interval, error) {
	start, err := ParseTimeOfDay(b.StartTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseTimeOfDay(b.EndTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}
