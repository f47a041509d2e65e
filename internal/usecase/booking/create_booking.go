package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/httperr"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID    uint
	VehicleID uint

	ServiceIDs []uint

	Date      time.Time
	StartTime domain.TimeOfDay
	Notes     *string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo         domain.Repository
	availability *GetAvailability
	audit        *audit.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	availability *GetAvailability,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:         repo,
		availability: availability,
		audit:        audit,
	}
}

// NewReferenceNumber returns a short human-facing booking reference.
func NewReferenceNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(raw[:10])
}

// ======================================================
// EXECUTE
// ======================================================

// Execute re-checks the slot, assigns a free bay and writes the booking with
// its line items in one transaction. SlotUnavailable and NoBayAvailable are
// returned as business errors; anything else is a persistence failure.
func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.date", in.Date.Format(domain.DateLayout)),
		attribute.String("booking.start", in.StartTime.String()),
	)

	// --------------------------------------------------
	// 1. Vehicle ownership
	// --------------------------------------------------
	vehicle, err := uc.repo.GetVehicleForUser(ctx, in.VehicleID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load vehicle: %w", err)
	}
	if vehicle == nil {
		return nil, domain.ErrVehicleNotFound
	}

	var created *models.Booking

	err = uc.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := uc.repo.LockBookingDate(txCtx, in.Date); err != nil {
			return fmt.Errorf("lock booking date: %w", err)
		}

		// --------------------------------------------------
		// 2. Services, duration and price snapshot
		// --------------------------------------------------
		svc, err := resolveServices(txCtx, uc.repo, in.ServiceIDs)
		if err != nil {
			return err
		}

		want := domain.Interval{
			Start: in.StartTime,
			End:   in.StartTime.Add(svc.totalMinutes),
		}

		// --------------------------------------------------
		// 3. Slot still offered
		// --------------------------------------------------
		// Calendar rules come from the repository here, never the cache.
		schedule, open, err := scheduleFrom(txCtx, uc.repo, in.Date)
		if err != nil {
			return err
		}
		if !open {
			return domain.ErrSlotUnavailable
		}

		slots, err := uc.availability.slotsFor(txCtx, in.Date, schedule, svc.totalMinutes)
		if err != nil {
			return err
		}
		if !containsSlot(slots, in.StartTime) {
			return domain.ErrSlotUnavailable
		}

		// --------------------------------------------------
		// 4. Free bay for the exact interval
		// --------------------------------------------------
		bayID, err := uc.findFreeBay(txCtx, in.Date, want)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 5-6. Booking + line items
		// --------------------------------------------------
		b := &models.Booking{
			ReferenceNumber: NewReferenceNumber(),
			UserID:          in.UserID,
			VehicleID:       vehicle.ID,
			ServiceBayID:    bayID,
			BookingDate:     in.Date,
			StartTime:       want.Start.Clock(),
			EndTime:         want.End.Clock(),
			TotalPrice:      svc.totalPrice,
			Status:          string(domain.InitialStatus()),
			Notes:           in.Notes,
		}
		for _, s := range svc.services {
			b.Services = append(b.Services, models.BookingService{
				ServiceID:       s.ID,
				Price:           s.Price,
				DurationMinutes: s.DurationMinutes,
			})
		}

		if err := uc.repo.CreateBooking(txCtx, b); err != nil {
			return err
		}

		created = b
		return nil
	})

	if err != nil {
		if _, ok := httperr.AsBusiness(err); ok {
			if errors.Is(err, domain.ErrSlotUnavailable) || errors.Is(err, domain.ErrNoBayAvailable) {
				uc.audit.Dispatch(audit.Event{
					UserID: &in.UserID,
					Action: audit.ActionBookingConflict,
					Entity: "booking",
					Metadata: map[string]any{
						"date":   in.Date.Format(domain.DateLayout),
						"start":  in.StartTime.String(),
						"reason": err.Error(),
					},
				})
			}
			span.SetAttributes(attribute.String("booking.rejected", err.Error()))
			return nil, err
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "create booking failed")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	slog.InfoContext(ctx, "booking created",
		"booking_id", created.ID,
		"reference", created.ReferenceNumber,
		"bay_id", created.ServiceBayID,
		"date", in.Date.Format(domain.DateLayout),
		"start", in.StartTime.String(),
	)

	// --------------------------------------------------
	// 7. Read-after-write with relations
	// --------------------------------------------------
	result := created
	if full, err := uc.repo.GetBooking(ctx, created.ID); err == nil && full != nil {
		result = full
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   audit.ActionBookingCreated,
		Entity:   "booking",
		EntityID: &result.ID,
		Booking:  result,
	})

	return result, nil
}

func (uc *CreateBooking) findFreeBay(
	ctx context.Context,
	date time.Time,
	want domain.Interval,
) (uint, error) {

	bays, err := uc.repo.ListActiveBays(ctx)
	if err != nil {
		return 0, fmt.Errorf("load bays: %w", err)
	}

	booked, err := bookedOn(ctx, uc.repo, date, 0)
	if err != nil {
		return 0, err
	}

	ids := make([]uint, 0, len(bays))
	for _, b := range bays {
		ids = append(ids, b.ID)
	}

	bayID, ok := domain.PickBay(ids, booked, want)
	if !ok {
		return 0, domain.ErrNoBayAvailable
	}
	return bayID, nil
}

// bookedOn pins every live booking on date to its bay, leaving out skip.
func bookedOn(
	ctx context.Context,
	repo domain.Repository,
	date time.Time,
	skip uint,
) ([]domain.BayInterval, error) {

	bookings, err := repo.ListBookingsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	booked := make([]domain.BayInterval, 0, len(bookings))
	for _, b := range bookings {
		if b.ID == skip {
			continue
		}
		iv, err := domain.Span(b)
		if err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		booked = append(booked, domain.BayInterval{BayID: b.ServiceBayID, Interval: iv})
	}
	return booked, nil
}

// holdBay returns ErrNoBayAvailable when bayID cannot take b's interval next
// to the other live bookings of its day.
func holdBay(
	ctx context.Context,
	repo domain.Repository,
	b *models.Booking,
	bayID uint,
) error {

	want, err := domain.Span(*b)
	if err != nil {
		return fmt.Errorf("booking %d: %w", b.ID, err)
	}

	booked, err := bookedOn(ctx, repo, b.BookingDate, b.ID)
	if err != nil {
		return err
	}

	if _, ok := domain.PickBay([]uint{bayID}, booked, want); !ok {
		return domain.ErrNoBayAvailable
	}
	return nil
}

func containsSlot(slots []domain.TimeOfDay, want domain.TimeOfDay) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}
