package booking

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

type UpdateBookingStatus struct {
	repo  domain.Repository
	clock clock.Clock
	audit *audit.Dispatcher
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	clk clock.Clock,
	audit *audit.Dispatcher,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:  repo,
		clock: clk,
		audit: audit,
	}
}

// Execute is the admin status change. Notification sinks react to the
// booking_status_changed event (a move to confirmed sends the confirmation mail).
// Reviving a cancelled booking needs its bay to still be free for the slot;
// otherwise ErrNoBayAvailable is returned and nothing changes.
func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	adminID uint,
	bookingID uint,
	status string,
	reason string,
) (*models.Booking, error) {

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		b    *models.Booking
		from string
	)

	err = uc.repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		b, err = uc.repo.GetBooking(txCtx, bookingID)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}
		if b == nil {
			return domain.ErrBookingNotFound
		}
		from = b.Status

		if domain.Reactivates(domain.Status(from), to) {
			if err := uc.repo.LockBookingDate(txCtx, b.BookingDate); err != nil {
				return fmt.Errorf("lock booking date: %w", err)
			}
			if err := holdBay(txCtx, uc.repo, b, b.ServiceBayID); err != nil {
				return err
			}
		}

		domain.Transition(b, to, reason, uc.clock.Now())

		if err := uc.repo.UpdateBooking(txCtx, b); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   audit.ActionBookingStatusChanged,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"from": from, "to": b.Status},
		Booking:  b,
	})

	return b, nil
}
