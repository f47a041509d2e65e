package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

type CalendarGormRepository struct {
	db *gorm.DB
}

func NewCalendarGormRepository(db *gorm.DB) *CalendarGormRepository {
	return &CalendarGormRepository{db: db}
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *CalendarGormRepository) ListWorkingHours(
	ctx context.Context,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Order("day_of_week ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *CalendarGormRepository) UpsertWorkingHours(
	ctx context.Context,
	hours []models.WorkingHours,
) error {

	if len(hours) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{"open_time", "close_time", "is_closed", "updated_at"}),
		}).
		Create(&hours).Error
}

// --------------------------------------------------
// Blocked dates
// --------------------------------------------------

func (r *CalendarGormRepository) ListBlockedDates(
	ctx context.Context,
	from *time.Time,
	to *time.Time,
) ([]models.BlockedDate, error) {

	q := r.db.WithContext(ctx).Model(&models.BlockedDate{})
	if from != nil {
		q = q.Where("date >= ?", from.Format(domain.DateLayout))
	}
	if to != nil {
		q = q.Where("date <= ?", to.Format(domain.DateLayout))
	}

	var out []models.BlockedDate
	if err := q.Order("date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CalendarGormRepository) CreateBlockedDate(
	ctx context.Context,
	bd *models.BlockedDate,
) error {

	err := r.db.WithContext(ctx).Create(bd).Error
	if pgCode(err) == pgUniqueViolation {
		return domain.ErrDateAlreadyBlocked
	}
	return err
}

func (r *CalendarGormRepository) DeleteBlockedDate(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.BlockedDate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBlockedDateNotFound
	}
	return nil
}

var _ domain.CalendarAdmin = (*CalendarGormRepository)(nil)
