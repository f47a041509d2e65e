package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

// CalendarInvalidator drops cached calendar rules after an admin change.
type CalendarInvalidator interface {
	Invalidate(ctx context.Context) error
}

type WorkingDay struct {
	DayOfWeek int
	OpenTime  string
	CloseTime string
	IsClosed  bool
}

type ManageCalendar struct {
	admin domain.CalendarAdmin
	cache CalendarInvalidator
	audit *audit.Dispatcher
}

func NewManageCalendar(
	admin domain.CalendarAdmin,
	cache CalendarInvalidator,
	audit *audit.Dispatcher,
) *ManageCalendar {
	return &ManageCalendar{
		admin: admin,
		cache: cache,
		audit: audit,
	}
}

func (uc *ManageCalendar) ListWorkingHours(ctx context.Context) ([]models.WorkingHours, error) {
	return uc.admin.ListWorkingHours(ctx)
}

// UpdateWorkingHours upserts one row per listed weekday. Closed days carry no times.
func (uc *ManageCalendar) UpdateWorkingHours(
	ctx context.Context,
	adminID uint,
	days []WorkingDay,
) ([]models.WorkingHours, error) {

	seen := map[int]bool{}
	rows := make([]models.WorkingHours, 0, len(days))

	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 || seen[d.DayOfWeek] {
			return nil, domain.ErrInvalidHours
		}
		seen[d.DayOfWeek] = true

		row := models.WorkingHours{DayOfWeek: d.DayOfWeek, IsClosed: d.IsClosed}
		if !d.IsClosed {
			open, err := domain.ParseTimeOfDay(d.OpenTime)
			if err != nil {
				return nil, domain.ErrInvalidHours
			}
			closeAt, err := domain.ParseTimeOfDay(d.CloseTime)
			if err != nil || open >= closeAt {
				return nil, domain.ErrInvalidHours
			}
			openAt, closeClock := open.Clock(), closeAt.Clock()
			row.OpenTime = &openAt
			row.CloseTime = &closeClock
		}
		rows = append(rows, row)
	}

	if err := uc.admin.UpsertWorkingHours(ctx, rows); err != nil {
		return nil, fmt.Errorf("save working hours: %w", err)
	}
	uc.invalidate(ctx)

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   audit.ActionWorkingHoursUpdated,
		Entity:   "working_hours",
		Metadata: days,
	})

	return uc.admin.ListWorkingHours(ctx)
}

func (uc *ManageCalendar) ListBlockedDates(
	ctx context.Context,
	from *time.Time,
	to *time.Time,
) ([]models.BlockedDate, error) {
	return uc.admin.ListBlockedDates(ctx, from, to)
}

func (uc *ManageCalendar) BlockDate(
	ctx context.Context,
	adminID uint,
	date time.Time,
	reason *string,
) (*models.BlockedDate, error) {

	bd := &models.BlockedDate{Date: date, Reason: reason}
	if err := uc.admin.CreateBlockedDate(ctx, bd); err != nil {
		if errors.Is(err, domain.ErrDateAlreadyBlocked) {
			return nil, err
		}
		return nil, fmt.Errorf("block date: %w", err)
	}
	uc.invalidate(ctx)

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   audit.ActionBlockedDateCreated,
		Entity:   "blocked_date",
		EntityID: &bd.ID,
		Metadata: map[string]any{"date": date.Format(domain.DateLayout)},
	})

	return bd, nil
}

// BlockDates blocks every date, leaving already blocked ones untouched, and
// returns the blocked rows for all requested dates.
func (uc *ManageCalendar) BlockDates(
	ctx context.Context,
	adminID uint,
	dates []time.Time,
	reason *string,
) ([]models.BlockedDate, error) {

	if len(dates) == 0 {
		return []models.BlockedDate{}, nil
	}

	from, to := dates[0], dates[0]
	wanted := map[string]bool{}
	for _, d := range dates {
		if _, err := uc.BlockDate(ctx, adminID, d, reason); err != nil && !errors.Is(err, domain.ErrDateAlreadyBlocked) {
			return nil, err
		}
		wanted[d.Format(domain.DateLayout)] = true
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}

	all, err := uc.admin.ListBlockedDates(ctx, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}

	out := make([]models.BlockedDate, 0, len(dates))
	for _, bd := range all {
		if wanted[bd.Date.Format(domain.DateLayout)] {
			out = append(out, bd)
		}
	}
	return out, nil
}

func (uc *ManageCalendar) UnblockDate(
	ctx context.Context,
	adminID uint,
	id uint,
) error {

	if err := uc.admin.DeleteBlockedDate(ctx, id); err != nil {
		if errors.Is(err, domain.ErrBlockedDateNotFound) {
			return err
		}
		return fmt.Errorf("unblock date: %w", err)
	}
	uc.invalidate(ctx)

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   audit.ActionBlockedDateDeleted,
		Entity:   "blocked_date",
		EntityID: &id,
	})
	return nil
}

func (uc *ManageCalendar) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "calendar cache invalidation failed", "error", err)
	}
}
