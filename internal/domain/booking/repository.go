package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

// CalendarRules is the read side of working hours and blocked dates.
// A missing weekday row is reported as (nil, nil).
type CalendarRules interface {
	GetWorkingHours(
		ctx context.Context,
		weekday int,
	) (*models.WorkingHours, error)

	IsDateBlocked(
		ctx context.Context,
		date time.Time,
	) (bool, error)
}

// Repository is everything the booking use cases read and write.
// Calls made with a context returned by WithTx run inside that transaction.
type Repository interface {
	CalendarRules

	// -------- Catalog --------
	GetServices(
		ctx context.Context,
		ids []uint,
	) ([]models.Service, error)

	// -------- Bays --------
	ListActiveBays(
		ctx context.Context,
	) ([]models.ServiceBay, error)

	// GetBay returns (nil, nil) for an unknown id; inactive bays are returned.
	GetBay(
		ctx context.Context,
		id uint,
	) (*models.ServiceBay, error)

	// -------- Vehicles --------
	GetVehicleForUser(
		ctx context.Context,
		vehicleID uint,
		userID uint,
	) (*models.Vehicle, error)

	// -------- Ledger --------
	// ListBookingsForDate returns every non-cancelled booking on the date.
	ListBookingsForDate(
		ctx context.Context,
		date time.Time,
	) ([]models.Booking, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	ListBookingsForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Booking, error)

	// ListBookings is the admin search, newest date and time first. It
	// returns the page and the total number of matches.
	ListBookings(
		ctx context.Context,
		f BookingFilter,
	) ([]models.Booking, int64, error)

	// UpdateBooking writes the status, cancellation fields and bay.
	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Transactions --------
	WithTx(
		ctx context.Context,
		fn func(ctx context.Context) error,
	) error

	// LockBookingDate serializes booking creation for one date until the
	// surrounding transaction ends.
	LockBookingDate(
		ctx context.Context,
		date time.Time,
	) error
}

// BookingFilter narrows ListBookings. Zero fields do not filter, and a zero
// Limit returns every match.
type BookingFilter struct {
	Status string
	Date   *time.Time
	UserID uint
	BayID  uint

	Page  int
	Limit int
}

// Offset is the number of rows before the requested page.
func (f BookingFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// CalendarAdmin is the write side of the calendar rules.
type CalendarAdmin interface {
	ListWorkingHours(
		ctx context.Context,
	) ([]models.WorkingHours, error)

	UpsertWorkingHours(
		ctx context.Context,
		hours []models.WorkingHours,
	) error

	ListBlockedDates(
		ctx context.Context,
		from *time.Time,
		to *time.Time,
	) ([]models.BlockedDate, error)

	// CreateBlockedDate returns ErrDateAlreadyBlocked for a duplicate date.
	CreateBlockedDate(
		ctx context.Context,
		bd *models.BlockedDate,
	) error

	// DeleteBlockedDate returns ErrBlockedDateNotFound for an unknown id.
	DeleteBlockedDate(
		ctx context.Context,
		id uint,
	) error
}
