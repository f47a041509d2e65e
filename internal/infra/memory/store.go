package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
	"github.com/BruksfildServices01/bay-scheduler/internal/seed"
)

// Store keeps everything in process memory. Transactions are serialized and
// their writes become visible only on commit.
type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	nextID   uint
	services map[uint]models.Service
	bays     map[uint]models.ServiceBay
	hours    map[int]models.WorkingHours
	blocked  map[uint]models.BlockedDate
	users    map[uint]models.User
	vehicles map[uint]models.Vehicle
	bookings map[uint]models.Booking
}

func NewStore() *Store {
	return &Store{
		services: map[uint]models.Service{},
		bays:     map[uint]models.ServiceBay{},
		hours:    map[int]models.WorkingHours{},
		blocked:  map[uint]models.BlockedDate{},
		users:    map[uint]models.User{},
		vehicles: map[uint]models.Vehicle{},
		bookings: map[uint]models.Booking{},
	}
}

type txKey struct{}

type txState struct {
	created []models.Booking
	updated []models.Booking
}

func txFrom(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// claim keeps generated ids clear of explicitly assigned ones.
func (s *Store) claim(id uint) uint {
	if id == 0 {
		return s.id()
	}
	if id > s.nextID {
		s.nextID = id
	}
	return id
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (s *Store) AddService(svc models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = s.claim(svc.ID)
	s.services[svc.ID] = svc
	return svc
}

func (s *Store) AddBay(b models.ServiceBay) models.ServiceBay {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.claim(b.ID)
	s.bays[b.ID] = b
	return b
}

func (s *Store) SetBayActive(id uint, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bays[id]; ok {
		b.IsActive = active
		s.bays[id] = b
	}
}

func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.claim(u.ID)
	s.users[u.ID] = u
	return u
}

func (s *Store) AddVehicle(v models.Vehicle) models.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.claim(v.ID)
	s.vehicles[v.ID] = v
	return v
}

// Load inserts seed data.
func (s *Store) Load(d seed.Data) {
	for _, u := range d.Users {
		s.AddUser(u)
	}
	for _, v := range d.Vehicles {
		s.AddVehicle(v)
	}
	for _, svc := range d.Services {
		s.AddService(svc)
	}
	for _, b := range d.Bays {
		s.AddBay(b)
	}
	_ = s.UpsertWorkingHours(context.Background(), d.WorkingHours)
}

// AddBooking inserts a booking as-is, outside any transaction.
func (s *Store) AddBooking(b models.Booking) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertBooking(&b, time.Now())
	return cloneBooking(b)
}

// BookingCount counts every stored booking, cancelled ones included.
func (s *Store) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	st := &txState{}
	if err := fn(context.WithValue(ctx, txKey{}, st)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range st.created {
		s.bookings[b.ID] = b
	}
	for _, b := range st.updated {
		s.bookings[b.ID] = b
	}
	return nil
}

// LockBookingDate is a no-op: WithTx already serializes every transaction.
func (s *Store) LockBookingDate(context.Context, time.Time) error {
	return nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (s *Store) GetWorkingHours(_ context.Context, weekday int) (*models.WorkingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wh, ok := s.hours[weekday]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (s *Store) IsDateBlocked(_ context.Context, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, bd := range s.blocked {
		if domain.SameDay(bd.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListWorkingHours(context.Context) ([]models.WorkingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WorkingHours, 0, len(s.hours))
	for _, wh := range s.hours {
		out = append(out, wh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (s *Store) UpsertWorkingHours(_ context.Context, hours []models.WorkingHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, wh := range hours {
		if existing, ok := s.hours[wh.DayOfWeek]; ok {
			wh.ID = existing.ID
			wh.CreatedAt = existing.CreatedAt
		} else {
			wh.ID = s.id()
			wh.CreatedAt = now
		}
		wh.UpdatedAt = now
		s.hours[wh.DayOfWeek] = wh
	}
	return nil
}

func (s *Store) ListBlockedDates(_ context.Context, from, to *time.Time) ([]models.BlockedDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.BlockedDate{}
	for _, bd := range s.blocked {
		day := bd.Date.Format(domain.DateLayout)
		if from != nil && day < from.Format(domain.DateLayout) {
			continue
		}
		if to != nil && day > to.Format(domain.DateLayout) {
			continue
		}
		out = append(out, bd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) CreateBlockedDate(_ context.Context, bd *models.BlockedDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.blocked {
		if domain.SameDay(existing.Date, bd.Date) {
			return domain.ErrDateAlreadyBlocked
		}
	}

	now := time.Now()
	bd.ID = s.id()
	bd.CreatedAt = now
	bd.UpdatedAt = now
	s.blocked[bd.ID] = *bd
	return nil
}

func (s *Store) DeleteBlockedDate(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blocked[id]; !ok {
		return domain.ErrBlockedDateNotFound
	}
	delete(s.blocked, id)
	return nil
}

// --------------------------------------------------
// Catalog / Bays / Vehicles
// --------------------------------------------------

func (s *Store) GetServices(_ context.Context, ids []uint) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		if svc, ok := s.services[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *Store) ListActiveBays(context.Context) ([]models.ServiceBay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ServiceBay{}
	for _, b := range s.bays {
		if b.IsActive {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetBay(_ context.Context, id uint) (*models.ServiceBay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bays[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *Store) GetVehicleForUser(_ context.Context, vehicleID, userID uint) (*models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[vehicleID]
	if !ok || v.UserID != userID {
		return nil, nil
	}
	return &v, nil
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (s *Store) ListBookingsForDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range s.view(ctx) {
		if b.Status == string(domain.StatusCancelled) || !domain.SameDay(b.BookingDate, date) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st := txFrom(ctx); st != nil {
		s.assignIDs(b, time.Now())
		st.created = append(st.created, cloneBooking(*b))
		return nil
	}

	s.insertBooking(b, time.Now())
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.view(ctx)[id]
	if !ok {
		return nil, nil
	}
	full := s.withRelations(b)
	return &full, nil
}

func (s *Store) ListBookingsForUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range s.view(ctx) {
		if b.UserID == userID {
			out = append(out, s.withRelations(b))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Store) ListBookings(ctx context.Context, f domain.BookingFilter) ([]models.Booking, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range s.view(ctx) {
		switch {
		case f.Status != "" && b.Status != f.Status,
			f.Date != nil && !domain.SameDay(b.BookingDate, *f.Date),
			f.UserID != 0 && b.UserID != f.UserID,
			f.BayID != 0 && b.ServiceBayID != f.BayID:
			continue
		}
		out = append(out, s.withRelations(b))
	}
	sortNewestFirst(out)

	total := int64(len(out))
	if f.Limit > 0 {
		from := min(f.Offset(), len(out))
		to := min(from+f.Limit, len(out))
		out = out[from:to]
	}
	return out, total, nil
}

func (s *Store) UpdateBooking(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.UpdatedAt = time.Now()
	stored := cloneBooking(*b)
	stored.User, stored.Vehicle, stored.ServiceBay = nil, nil, nil

	if st := txFrom(ctx); st != nil {
		st.updated = append(st.updated, stored)
		return nil
	}
	s.bookings[b.ID] = stored
	return nil
}

// view merges committed bookings with the writes of the current transaction.
// Callers hold s.mu.
func (s *Store) view(ctx context.Context) map[uint]models.Booking {
	st := txFrom(ctx)
	if st == nil {
		return s.bookings
	}

	out := make(map[uint]models.Booking, len(s.bookings)+len(st.created))
	for id, b := range s.bookings {
		out[id] = b
	}
	for _, b := range st.created {
		out[b.ID] = b
	}
	for _, b := range st.updated {
		out[b.ID] = b
	}
	return out
}

// Callers hold s.mu for writing.
func (s *Store) insertBooking(b *models.Booking, now time.Time) {
	s.assignIDs(b, now)
	s.bookings[b.ID] = cloneBooking(*b)
}

func (s *Store) assignIDs(b *models.Booking, now time.Time) {
	b.ID = s.claim(b.ID)
	b.CreatedAt, b.UpdatedAt = now, now
	for i := range b.Services {
		if b.Services[i].ID == 0 {
			b.Services[i].ID = s.id()
		}
		b.Services[i].BookingID = b.ID
		b.Services[i].CreatedAt, b.Services[i].UpdatedAt = now, now
	}
}

func (s *Store) withRelations(b models.Booking) models.Booking {
	out := cloneBooking(b)
	if u, ok := s.users[b.UserID]; ok {
		out.User = &u
	}
	if v, ok := s.vehicles[b.VehicleID]; ok {
		out.Vehicle = &v
	}
	if bay, ok := s.bays[b.ServiceBayID]; ok {
		out.ServiceBay = &bay
	}
	for i := range out.Services {
		if svc, ok := s.services[out.Services[i].ServiceID]; ok {
			out.Services[i].Service = &svc
		}
	}
	return out
}

func sortNewestFirst(out []models.Booking) {
	sort.Slice(out, func(i, j int) bool {
		if !domain.SameDay(out[i].BookingDate, out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime > out[j].StartTime
		}
		return out[i].ID > out[j].ID
	})
}

func cloneBooking(b models.Booking) models.Booking {
	out := b
	out.Services = append([]models.BookingService(nil), b.Services...)
	return out
}

var (
	_ domain.Repository    = (*Store)(nil)
	_ domain.CalendarAdmin = (*Store)(nil)
)
