package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

type txKey struct{}

// conn returns the transaction bound to ctx, or the pool.
func (r *BookingGormRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *BookingGormRepository) WithTx(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {

	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// LockBookingDate takes a transaction-scoped advisory lock keyed by the date,
// so creations for the same day run one after another.
func (r *BookingGormRepository) LockBookingDate(
	ctx context.Context,
	date time.Time,
) error {
	return r.conn(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "booking:"+date.Format(domain.DateLayout)).
		Error
}

// --------------------------------------------------
// Calendar rules
// --------------------------------------------------

func (r *BookingGormRepository) GetWorkingHours(
	ctx context.Context,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.conn(ctx).
		Where("day_of_week = ?", weekday).
		First(&wh).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *BookingGormRepository) IsDateBlocked(
	ctx context.Context,
	date time.Time,
) (bool, error) {

	var count int64
	if err := r.conn(ctx).
		Model(&models.BlockedDate{}).
		Where("date = ?", date.Format(domain.DateLayout)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Catalog / Bays / Vehicles
// --------------------------------------------------

func (r *BookingGormRepository) GetServices(
	ctx context.Context,
	ids []uint,
) ([]models.Service, error) {

	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}

	if err := r.conn(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *BookingGormRepository) ListActiveBays(
	ctx context.Context,
) ([]models.ServiceBay, error) {

	var bays []models.ServiceBay
	if err := r.conn(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&bays).Error; err != nil {
		return nil, err
	}
	return bays, nil
}

func (r *BookingGormRepository) GetBay(
	ctx context.Context,
	id uint,
) (*models.ServiceBay, error) {

	var bay models.ServiceBay
	err := r.conn(ctx).First(&bay, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bay, nil
}

func (r *BookingGormRepository) GetVehicleForUser(
	ctx context.Context,
	vehicleID uint,
	userID uint,
) (*models.Vehicle, error) {

	var v models.Vehicle
	err := r.conn(ctx).
		Where("id = ? AND user_id = ?", vehicleID, userID).
		First(&v).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForDate(
	ctx context.Context,
	date time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.conn(ctx).
		Where("booking_date = ? AND status <> ?", date.Format(domain.DateLayout), string(domain.StatusCancelled)).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking inserts the booking and its line items. An overlap rejected by
// the bay exclusion constraint surfaces as ErrNoBayAvailable.
func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return translateBookingErr(r.conn(ctx).Create(b).Error)
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	err := withRelations(r.conn(ctx)).First(&b, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := withRelations(r.conn(ctx)).
		Where("user_id = ?", userID).
		Order("booking_date DESC, start_time DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.BookingFilter,
) ([]models.Booking, int64, error) {

	filter := func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Date != nil {
			db = db.Where("booking_date = ?", f.Date.Format(domain.DateLayout))
		}
		if f.UserID != 0 {
			db = db.Where("user_id = ?", f.UserID)
		}
		if f.BayID != 0 {
			db = db.Where("service_bay_id = ?", f.BayID)
		}
		return db
	}

	var total int64
	if err := r.conn(ctx).
		Model(&models.Booking{}).
		Scopes(filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := withRelations(r.conn(ctx)).
		Scopes(filter).
		Order("booking_date DESC, start_time DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset())
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateBooking leaves line items and relations alone. Moving a live booking
// onto a taken bay trips the exclusion constraint (ErrNoBayAvailable).
func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return translateBookingErr(r.conn(ctx).
		Model(b).
		Select("Status", "CancellationReason", "CancelledAt", "ServiceBayID", "UpdatedAt").
		Updates(b).Error)
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Vehicle").
		Preload("ServiceBay").
		Preload("Services.Service")
}

func translateBookingErr(err error) error {
	switch pgCode(err) {
	case pgExclusionViolation, pgSerializationFailure:
		return domain.ErrNoBayAvailable
	}
	return err
}

var _ domain.Repository = (*BookingGormRepository)(nil)
