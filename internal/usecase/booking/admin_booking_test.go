package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

func TestAssignBay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	bay1, bay2 := f.bays[0], f.bays[1]

	// bay1 gets the first booking, bay2 the overlapping second one.
	ten, err := f.creator().Execute(ctx, f.input(monday, "10:00", f.oil.ID))
	require.NoError(t, err)
	require.Equal(t, bay1.ID, ten.ServiceBayID)

	overlap, err := f.creator().Execute(ctx, f.input(monday, "10:00", f.brakes.ID))
	require.NoError(t, err)
	require.Equal(t, bay2.ID, overlap.ServiceBayID)

	later := f.book(bay2.ID, monday, "14:00", "14:30")

	var (
		mu     sync.Mutex
		events []audit.Event
	)
	d := audit.NewDispatcher(audit.SinkFunc(func(_ context.Context, ev audit.Event) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		return nil
	}))
	uc := NewAssignBay(f.store, d)

	inactive := f.store.AddBay(models.ServiceBay{Name: "Bay 3", IsActive: false})

	rejected := map[string]struct {
		bookingID uint
		bayID     uint
		want      error
	}{
		"unknown booking":        {9999, bay1.ID, domain.ErrBookingNotFound},
		"unknown bay":            {later.ID, 9999, domain.ErrBayNotFound},
		"inactive bay":           {later.ID, inactive.ID, domain.ErrBayInactive},
		"overlapping target bay": {overlap.ID, bay1.ID, domain.ErrNoBayAvailable},
		"partial overlap":        {ten.ID, bay2.ID, domain.ErrNoBayAvailable},
	}
	for name, tc := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(ctx, 1, tc.bookingID, tc.bayID)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("moves to a free bay", func(t *testing.T) {
		moved, err := uc.Execute(ctx, 1, later.ID, bay1.ID)
		require.NoError(t, err)
		assert.Equal(t, bay1.ID, moved.ServiceBayID)

		stored, err := f.store.GetBooking(ctx, later.ID)
		require.NoError(t, err)
		assert.Equal(t, bay1.ID, stored.ServiceBayID)
		require.NotNil(t, stored.ServiceBay)
	})

	t.Run("same bay is a no-op", func(t *testing.T) {
		same, err := uc.Execute(ctx, 1, ten.ID, bay1.ID)
		require.NoError(t, err)
		assert.Equal(t, bay1.ID, same.ServiceBayID)
	})

	t.Run("cancelled booking moves without a check", func(t *testing.T) {
		_, err := NewUpdateBookingStatus(f.store, clock.NewFixed(now), nil).Execute(ctx, 1, ten.ID, "cancelled", "")
		require.NoError(t, err)

		_, err = uc.Execute(ctx, 1, ten.ID, bay2.ID)
		require.NoError(t, err)

		// The bay2 slot is still taken, so it cannot come back.
		_, err = NewUpdateBookingStatus(f.store, clock.NewFixed(now), nil).Execute(ctx, 1, ten.ID, "pending", "")
		assert.ErrorIs(t, err, domain.ErrNoBayAvailable)
	})

	d.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionBookingBayAssigned, events[0].Action)
	assert.Equal(t, map[string]any{"from_bay": bay2.ID, "to_bay": bay1.ID}, events[0].Metadata)
}

func TestListBookings_ForAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	other := f.store.AddUser(models.User{Name: "Sam Rider", Email: "sam@example.com", Role: "customer"})

	a := f.book(f.bays[0].ID, monday, "09:00", "09:30")
	b := f.book(f.bays[1].ID, monday, "09:00", "10:00")
	c := f.book(f.bays[0].ID, monday.AddDate(0, 0, 1), "08:00", "08:30")
	d := f.store.AddBooking(models.Booking{
		ReferenceNumber: NewReferenceNumber(),
		UserID:          other.ID,
		VehicleID:       f.vehicle.ID,
		ServiceBayID:    f.bays[0].ID,
		BookingDate:     monday,
		StartTime:       "12:00:00",
		EndTime:         "12:30:00",
		Status:          string(domain.StatusConfirmed),
	})

	uc := NewListBookings(f.store)

	cases := map[string]struct {
		filter domain.BookingFilter
		want   []uint
		total  int64
	}{
		"all":       {domain.BookingFilter{}, []uint{c.ID, d.ID, b.ID, a.ID}, 4},
		"status":    {domain.BookingFilter{Status: "confirmed"}, []uint{d.ID}, 1},
		"date":      {domain.BookingFilter{Date: &monday}, []uint{d.ID, b.ID, a.ID}, 3},
		"user":      {domain.BookingFilter{UserID: other.ID}, []uint{d.ID}, 1},
		"page size": {domain.BookingFilter{Page: 1, Limit: 2}, []uint{c.ID, d.ID}, 4},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rows, total, err := uc.ForAdmin(ctx, tc.filter)
			require.NoError(t, err)

			ids := []uint{}
			for _, r := range rows {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.want, ids)
			assert.Equal(t, tc.total, total)
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		_, _, err := uc.ForAdmin(ctx, domain.BookingFilter{Status: "archived"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("by id", func(t *testing.T) {
		got, err := uc.ByID(ctx, d.ID)
		require.NoError(t, err)
		require.NotNil(t, got.User)
		assert.Equal(t, "Sam Rider", got.User.Name)

		_, err = uc.ByID(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}

func TestListBookings_BaySchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	bay1 := f.bays[0]

	late := f.book(bay1.ID, monday, "15:00", "15:30")
	early := f.book(bay1.ID, monday, "08:00", "09:00")
	f.book(f.bays[1].ID, monday, "08:00", "08:30")
	f.book(bay1.ID, monday.AddDate(0, 0, 1), "08:00", "08:30")

	_, err := NewUpdateBookingStatus(f.store, clock.NewFixed(now), nil).Execute(ctx, 1, late.ID, "cancelled", "")
	require.NoError(t, err)

	bay, rows, err := NewListBookings(f.store).BaySchedule(ctx, bay1.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, bay1.ID, bay.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, early.ID, rows[0].ID)
	assert.Equal(t, late.ID, rows[1].ID)
	assert.Equal(t, string(domain.StatusCancelled), rows[1].Status)

	_, _, err = NewListBookings(f.store).BaySchedule(ctx, 9999, monday)
	assert.ErrorIs(t, err, domain.ErrBayNotFound)
}
