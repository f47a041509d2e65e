package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/bay-scheduler/internal/audit"
	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

var now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)

	b, err := f.creator().Execute(ctx, f.input(monday, "10:00", f.oil.ID))
	require.NoError(t, err)

	uc := NewCancelBooking(f.store, clock.NewFixed(now), nil)

	t.Run("other customer sees not found", func(t *testing.T) {
		_, err := uc.Execute(ctx, f.user.ID+100, b.ID, "nope")
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("owner cancels and frees the slot", func(t *testing.T) {
		cancelled, err := uc.Execute(ctx, f.user.ID, b.ID, "plans changed")
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
		assert.Equal(t, "plans changed", *cancelled.CancellationReason)
		assert.Equal(t, now, *cancelled.CancelledAt)

		slots, err := f.availability().Execute(ctx, monday, []uint{f.oil.ID})
		require.NoError(t, err)
		assert.Contains(t, slotStrings(slots), "10:00")
	})

	t.Run("cancelling twice is rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, f.user.ID, b.ID, "again")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)

	b, err := f.creator().Execute(ctx, f.input(monday, "10:00", f.oil.ID))
	require.NoError(t, err)

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

	uc := NewUpdateBookingStatus(f.store, clock.NewFixed(now), d)

	_, err = uc.Execute(ctx, 1, b.ID, "teleported", "")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = uc.Execute(ctx, 1, 9999, "confirmed", "")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	confirmed, err := uc.Execute(ctx, 1, b.ID, "confirmed", "")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), confirmed.Status)

	cancelled, err := uc.Execute(ctx, 1, b.ID, "cancelled", "")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled by admin", *cancelled.CancellationReason)

	d.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionBookingStatusChanged, events[0].Action)
	assert.Equal(t, map[string]any{"from": "pending", "to": "confirmed"}, events[0].Metadata)
	require.NotNil(t, events[0].Booking)
	assert.Equal(t, b.ReferenceNumber, events[0].Booking.ReferenceNumber)
}

func TestUpdateBookingStatus_NoShowStillOccupies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)

	b, err := f.creator().Execute(ctx, f.input(monday, "10:00", f.oil.ID))
	require.NoError(t, err)

	_, err = NewUpdateBookingStatus(f.store, clock.NewFixed(now), nil).Execute(ctx, 1, b.ID, "no_show", "")
	require.NoError(t, err)

	slots, err := f.availability().Execute(ctx, monday, []uint{f.oil.ID})
	require.NoError(t, err)
	assert.NotContains(t, slotStrings(slots), "10:00")
}

func TestUpdateBookingStatus_ReactivationNeedsFreeBay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	uc := NewUpdateBookingStatus(f.store, clock.NewFixed(now), nil)

	first, err := f.creator().Execute(ctx, f.input(monday, "10:00", f.oil.ID))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, 1, first.ID, "cancelled", "")
	require.NoError(t, err)

	second, err := f.creator().Execute(ctx, f.input(monday, "10:00", f.oil.ID))
	require.NoError(t, err)

	for _, status := range []string{"pending", "confirmed", "in_progress", "no_show"} {
		t.Run("to "+status+" while the bay is taken", func(t *testing.T) {
			_, err := uc.Execute(ctx, 1, first.ID, status, "")
			assert.ErrorIs(t, err, domain.ErrNoBayAvailable)

			live, err := f.store.ListBookingsForDate(ctx, monday)
			require.NoError(t, err)
			require.Len(t, live, 1)
			assert.Equal(t, second.ID, live[0].ID)

			stored, err := f.store.GetBooking(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, string(domain.StatusCancelled), stored.Status)
			assert.NotNil(t, stored.CancelledAt)
		})
	}

	t.Run("revives once the bay is free again", func(t *testing.T) {
		_, err := uc.Execute(ctx, 1, second.ID, "cancelled", "double booked")
		require.NoError(t, err)

		revived, err := uc.Execute(ctx, 1, first.ID, "pending", "")
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusPending), revived.Status)
		assert.Nil(t, revived.CancelledAt)
		assert.Nil(t, revived.CancellationReason)

		live, err := f.store.ListBookingsForDate(ctx, monday)
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.Equal(t, first.ID, live[0].ID)
	})

	t.Run("a neighbouring booking does not block", func(t *testing.T) {
		neighbour, err := f.creator().Execute(ctx, f.input(monday, "10:30", f.oil.ID))
		require.NoError(t, err)

		_, err = uc.Execute(ctx, 1, neighbour.ID, "cancelled", "")
		require.NoError(t, err)

		_, err = uc.Execute(ctx, 1, neighbour.ID, "confirmed", "")
		assert.NoError(t, err)
	})
}

func TestUpdateBookingStatus_CancelAgainKeepsStamp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)

	b, err := f.creator().Execute(ctx, f.input(monday, "10:00", f.oil.ID))
	require.NoError(t, err)

	_, err = NewUpdateBookingStatus(f.store, clock.NewFixed(now), nil).Execute(ctx, 1, b.ID, "cancelled", "no parts")
	require.NoError(t, err)

	later := now.Add(48 * time.Hour)
	again, err := NewUpdateBookingStatus(f.store, clock.NewFixed(later), nil).Execute(ctx, 1, b.ID, "cancelled", "")
	require.NoError(t, err)

	assert.Equal(t, now, *again.CancelledAt)
	assert.Equal(t, "no parts", *again.CancellationReason)
}

func TestListBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)

	early, err := f.creator().Execute(ctx, f.input(monday, "09:00", f.oil.ID))
	require.NoError(t, err)
	late, err := f.creator().Execute(ctx, f.input(monday.AddDate(0, 0, 1), "09:00", f.oil.ID))
	require.NoError(t, err)

	uc := NewListBookings(f.store)

	list, err := uc.ForUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, late.ID, list[0].ID)
	assert.Equal(t, early.ID, list[1].ID)

	none, err := uc.ForUser(ctx, f.user.ID+100)
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := uc.GetForUser(ctx, f.user.ID, early.ID)
	require.NoError(t, err)
	assert.Equal(t, early.ReferenceNumber, got.ReferenceNumber)

	_, err = uc.GetForUser(ctx, f.user.ID+100, early.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func TestManageCalendar_WorkingHours(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	cache := &countingInvalidator{}
	uc := NewManageCalendar(f.store, cache, nil)

	_, err := uc.UpdateWorkingHours(ctx, 1, []WorkingDay{{DayOfWeek: 7, OpenTime: "08:00", CloseTime: "12:00"}})
	assert.ErrorIs(t, err, domain.ErrInvalidHours)

	_, err = uc.UpdateWorkingHours(ctx, 1, []WorkingDay{{DayOfWeek: 6, OpenTime: "12:00", CloseTime: "09:00"}})
	assert.ErrorIs(t, err, domain.ErrInvalidHours)

	_, err = uc.UpdateWorkingHours(ctx, 1, []WorkingDay{
		{DayOfWeek: 6, OpenTime: "09:00", CloseTime: "15:00"},
		{DayOfWeek: 6, IsClosed: true},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidHours)
	assert.Zero(t, cache.calls)

	rows, err := uc.UpdateWorkingHours(ctx, 1, []WorkingDay{
		{DayOfWeek: 6, OpenTime: "09:00", CloseTime: "15:00"},
		{DayOfWeek: 1, IsClosed: true},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 7)
	assert.Equal(t, 1, cache.calls)

	saturday := monday.AddDate(0, 0, 5)
	slots, err := f.availability().Execute(ctx, saturday, []uint{f.oil.ID})
	require.NoError(t, err)
	assert.Equal(t, fullDay(t, "09:00", "14:30"), slotStrings(slots))

	slots, err = f.availability().Execute(ctx, monday, []uint{f.oil.ID})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestManageCalendar_BlockedDates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	cache := &countingInvalidator{}
	uc := NewManageCalendar(f.store, cache, nil)

	reason := "Public holiday"
	bd, err := uc.BlockDate(ctx, 1, monday, &reason)
	require.NoError(t, err)
	assert.NotZero(t, bd.ID)

	_, err = uc.BlockDate(ctx, 1, monday, nil)
	assert.ErrorIs(t, err, domain.ErrDateAlreadyBlocked)

	slots, err := f.availability().Execute(ctx, monday, []uint{f.oil.ID})
	require.NoError(t, err)
	assert.Empty(t, slots)

	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)
	rows, err := uc.BlockDates(ctx, 1, []time.Time{wednesday, monday, tuesday}, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	from := tuesday
	listed, err := uc.ListBlockedDates(ctx, &from, nil)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	require.NoError(t, uc.UnblockDate(ctx, 1, bd.ID))
	assert.ErrorIs(t, uc.UnblockDate(ctx, 1, bd.ID), domain.ErrBlockedDateNotFound)

	slots, err = f.availability().Execute(ctx, monday, []uint{f.oil.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, slots)
	assert.Equal(t, 4, cache.calls)
}

func TestManageCalendar_NilCache(t *testing.T) {
	f := newFixture(t, 1)
	uc := NewManageCalendar(f.store, nil, nil)

	_, err := uc.BlockDate(context.Background(), 1, monday, nil)
	require.NoError(t, err)

	rows, err := uc.ListBlockedDates(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.IsType(t, models.BlockedDate{}, rows[0])
}
