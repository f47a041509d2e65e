package booking

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
)

type GetAvailability struct {
	repo     domain.Repository
	calendar domain.CalendarRules
}

// NewGetAvailability reads calendar rules through calendar (which may be a
// cache in front of repo) and everything else through repo. Booking creation
// re-reads the rules from repo.
func NewGetAvailability(
	repo domain.Repository,
	calendar domain.CalendarRules,
) *GetAvailability {
	if calendar == nil {
		calendar = repo
	}
	return &GetAvailability{
		repo:     repo,
		calendar: calendar,
	}
}

// Execute lists the start times on date that can fit all requested services.
// An empty result is the answer for closed, blocked and fully booked days.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	date time.Time,
	serviceIDs []uint,
) ([]domain.TimeOfDay, error) {

	ctx, span := tracer.Start(ctx, "booking.GetAvailability")
	defer span.End()
	span.SetAttributes(attribute.String("booking.date", date.Format(domain.DateLayout)))

	if len(uniqueIDs(serviceIDs)) == 0 {
		return nil, domain.ErrNoServices
	}

	schedule, open, err := scheduleFrom(ctx, uc.calendar, date)
	if err != nil {
		return nil, err
	}
	if !open {
		return []domain.TimeOfDay{}, nil
	}

	svc, err := resolveServices(ctx, uc.repo, serviceIDs)
	if err != nil {
		return nil, err
	}

	return uc.slotsFor(ctx, date, schedule, svc.totalMinutes)
}

// scheduleFrom returns the day's opening hours; open is false for blocked,
// closed or unconfigured days.
func scheduleFrom(
	ctx context.Context,
	rules domain.CalendarRules,
	date time.Time,
) (domain.Schedule, bool, error) {

	blocked, err := rules.IsDateBlocked(ctx, date)
	if err != nil {
		return domain.Schedule{}, false, fmt.Errorf("check blocked date: %w", err)
	}
	if blocked {
		return domain.Schedule{}, false, nil
	}

	wh, err := rules.GetWorkingHours(ctx, int(date.Weekday()))
	if err != nil {
		return domain.Schedule{}, false, fmt.Errorf("load working hours: %w", err)
	}

	schedule, ok := domain.ScheduleFor(wh)
	return schedule, ok, nil
}

func (uc *GetAvailability) slotsFor(
	ctx context.Context,
	date time.Time,
	schedule domain.Schedule,
	totalMinutes int,
) ([]domain.TimeOfDay, error) {

	bays, err := uc.repo.ListActiveBays(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bays: %w", err)
	}

	bookings, err := uc.repo.ListBookingsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	booked := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		iv, err := domain.Span(b)
		if err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		booked = append(booked, iv)
	}

	return domain.AvailableSlots(schedule, totalMinutes, len(bays), booked), nil
}
