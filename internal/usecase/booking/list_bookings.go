package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// ForUser lists the customer's bookings, newest date first.
func (uc *ListBookings) ForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	out, err := uc.repo.ListBookingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// GetForUser hides other customers' bookings behind ErrBookingNotFound.
func (uc *ListBookings) GetForUser(
	ctx context.Context,
	userID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil || b.UserID != userID {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

// ForAdmin is the filtered, paginated search over every customer.
func (uc *ListBookings) ForAdmin(
	ctx context.Context,
	f domain.BookingFilter,
) ([]models.Booking, int64, error) {

	if f.Status != "" {
		if _, err := domain.ParseStatus(f.Status); err != nil {
			return nil, 0, err
		}
	}

	out, total, err := uc.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return out, total, nil
}

// ByID loads any booking with its relations.
func (uc *ListBookings) ByID(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

// BaySchedule is one bay's day, earliest first. Cancelled bookings stay in
// the list so the bay's history for the day is complete.
func (uc *ListBookings) BaySchedule(
	ctx context.Context,
	bayID uint,
	date time.Time,
) (*models.ServiceBay, []models.Booking, error) {

	bay, err := uc.repo.GetBay(ctx, bayID)
	if err != nil {
		return nil, nil, fmt.Errorf("load bay: %w", err)
	}
	if bay == nil {
		return nil, nil, domain.ErrBayNotFound
	}

	out, _, err := uc.repo.ListBookings(ctx, domain.BookingFilter{BayID: bayID, Date: &date})
	if err != nil {
		return nil, nil, fmt.Errorf("list bookings: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return bay, out, nil
}
