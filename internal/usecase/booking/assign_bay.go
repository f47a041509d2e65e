package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

type AssignBay struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAssignBay(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AssignBay {
	return &AssignBay{
		repo:  repo,
		audit: audit,
	}
}

// Execute moves a booking onto another bay. The target must be active and,
// unless the booking is cancelled, free for the booking's whole interval.
func (uc *AssignBay) Execute(
	ctx context.Context,
	adminID uint,
	bookingID uint,
	bayID uint,
) (*models.Booking, error) {

	var (
		b    *models.Booking
		from uint
	)

	err := uc.repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		b, err = uc.repo.GetBooking(txCtx, bookingID)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if b == nil {
			return domain.ErrBookingNotFound
		}

		bay, err := uc.repo.GetBay(txCtx, bayID)
		if err != nil {
			return fmt.Errorf("load bay: %w", err)
		}
		if bay == nil {
			return domain.ErrBayNotFound
		}
		if !bay.IsActive {
			return domain.ErrBayInactive
		}

		from = b.ServiceBayID
		if from == bayID {
			return nil
		}

		if b.Status != string(domain.StatusCancelled) {
			if err := uc.repo.LockBookingDate(txCtx, b.BookingDate); err != nil {
				return fmt.Errorf("lock booking date: %w", err)
			}
			if err := holdBay(txCtx, uc.repo, b, bayID); err != nil {
				return err
			}
		}

		b.ServiceBayID = bayID
		b.ServiceBay = bay
		return uc.repo.UpdateBooking(txCtx, b)
	})
	if err != nil {
		return nil, err
	}
	if from == bayID {
		return b, nil
	}

	slog.InfoContext(ctx, "booking bay assigned",
		"booking_id", b.ID,
		"from_bay", from,
		"to_bay", bayID,
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   audit.ActionBookingBayAssigned,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"from_bay": from, "to_bay": bayID},
		Booking:  b,
	})

	return b, nil
}
