package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

// monday is a Monday; sunday the day before it.
var (
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	sunday = monday.AddDate(0, 0, -1)
)

type fixture struct {
	store   *memory.Store
	user    models.User
	vehicle models.Vehicle
	bays    []models.ServiceBay
	oil     models.Service // 30 min
	brakes  models.Service // 60 min
}

// newFixture opens Mon-Fri 08:00-18:00, closes Sunday and adds the given
// number of active bays.
func newFixture(t *testing.T, bays int) *fixture {
	t.Helper()

	s := memory.NewStore()
	days := []models.WorkingHours{{DayOfWeek: 0, IsClosed: true}}
	for d := 1; d <= 5; d++ {
		open, closeAt := "08:00:00", "18:00:00"
		days = append(days, models.WorkingHours{DayOfWeek: d, OpenTime: &open, CloseTime: &closeAt})
	}
	require.NoError(t, s.UpsertWorkingHours(context.Background(), days))

	f := &fixture{store: s}
	f.user = s.AddUser(models.User{Name: "Jane Driver", Email: "jane@example.com", Role: "customer"})
	f.vehicle = s.AddVehicle(models.Vehicle{UserID: f.user.ID, Make: "Toyota", Model: "Corolla", Year: 2020, LicensePlate: "ABC-1234"})
	for i := 0; i < bays; i++ {
		f.bays = append(f.bays, s.AddBay(models.ServiceBay{Name: "Bay", IsActive: true}))
	}
	f.oil = s.AddService(models.Service{Name: "Oil Change", DurationMinutes: 30, Price: decimal.RequireFromString("49.99"), IsActive: true})
	f.brakes = s.AddService(models.Service{Name: "Brake Inspection", DurationMinutes: 60, Price: decimal.RequireFromString("89.50"), IsActive: true})
	return f
}

func (f *fixture) book(bayID uint, date time.Time, start, end string) models.Booking {
	return f.store.AddBooking(models.Booking{
		ReferenceNumber: NewReferenceNumber(),
		UserID:          f.user.ID,
		VehicleID:       f.vehicle.ID,
		ServiceBayID:    bayID,
		BookingDate:     date,
		StartTime:       start + ":00",
		EndTime:         end + ":00",
		TotalPrice:      decimal.Zero,
		Status:          string(domain.StatusPending),
	})
}

func (f *fixture) availability() *GetAvailability {
	return NewGetAvailability(f.store, nil)
}

func (f *fixture) creator() *CreateBooking {
	return NewCreateBooking(f.store, f.availability(), nil)
}

func (f *fixture) input(date time.Time, start string, services ...uint) CreateBookingInput {
	return CreateBookingInput{
		UserID:     f.user.ID,
		VehicleID:  f.vehicle.ID,
		ServiceIDs: services,
		Date:       date,
		StartTime:  domain.MustTimeOfDay(start),
	}
}

func slotStrings(slots []domain.TimeOfDay) []string {
	return domain.FormatSlots(slots)
}

// failingCalendar reports a lookup error for every call.
type failingCalendar struct{}

var errCalendarDown = errors.New("calendar down")

func (failingCalendar) GetWorkingHours(context.Context, int) (*models.WorkingHours, error) {
	return nil, errCalendarDown
}

func (failingCalendar) IsDateBlocked(context.Context, time.Time) (bool, error) {
	return false, errCalendarDown
}

// staleCalendar still holds the rules from before an admin edit: every
// weekday open 08:00-18:00 and nothing blocked.
type staleCalendar struct{}

func (staleCalendar) GetWorkingHours(_ context.Context, weekday int) (*models.WorkingHours, error) {
	open, closeAt := "08:00:00", "18:00:00"
	return &models.WorkingHours{DayOfWeek: weekday, OpenTime: &open, CloseTime: &closeAt}, nil
}

func (staleCalendar) IsDateBlocked(context.Context, time.Time) (bool, error) {
	return false, nil
}
