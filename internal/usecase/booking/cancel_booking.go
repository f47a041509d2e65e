package booking

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

type CancelBooking struct {
	repo  domain.Repository
	clock clock.Clock
	audit *audit.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	clk clock.Clock,
	audit *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		clock: clk,
		audit: audit,
	}
}

// Execute cancels one of the customer's own bookings. The bay it held is
// free again for availability right away.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	userID uint,
	bookingID uint,
	reason string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil || b.UserID != userID {
		return nil, domain.ErrBookingNotFound
	}

	if err := domain.Cancel(b, reason, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionBookingCancelled,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"reason": reason},
		Booking:  b,
	})

	return b, nil
}
