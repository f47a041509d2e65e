package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/models"
)

type CustomerDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type VehicleDTO struct {
	ID           uint   `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
}

type ServiceBayDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewServiceBayDTO(b models.ServiceBay) ServiceBayDTO {
	return ServiceBayDTO{ID: b.ID, Name: b.Name}
}

type LineItemDTO struct {
	ServiceID       uint            `json:"service_id"`
	Name            string          `json:"name,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}

type BookingDTO struct {
	ID              uint   `json:"id"`
	ReferenceNumber string `json:"reference_number"`
	UserID          uint   `json:"user_id"`

	User       *CustomerDTO   `json:"user,omitempty"`
	Vehicle    *VehicleDTO    `json:"vehicle,omitempty"`
	ServiceBay *ServiceBayDTO `json:"service_bay,omitempty"`

	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`

	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`

	Notes              *string    `json:"notes"`
	CancellationReason *string    `json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	Services []LineItemDTO `json:"services"`

	CreatedAt time.Time `json:"created_at"`
}

// hhmm trims a stored time to the HH:MM wire format.
func hhmm(s string) string {
	if t, err := domain.ParseTimeOfDay(s); err == nil {
		return t.String()
	}
	return s
}

func NewBookingDTO(b models.Booking) BookingDTO {
	out := BookingDTO{
		ID:                 b.ID,
		ReferenceNumber:    b.ReferenceNumber,
		UserID:             b.UserID,
		BookingDate:        b.BookingDate.Format(domain.DateLayout),
		StartTime:          hhmm(b.StartTime),
		EndTime:            hhmm(b.EndTime),
		TotalPrice:         b.TotalPrice,
		Status:             b.Status,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		Services:           make([]LineItemDTO, 0, len(b.Services)),
		CreatedAt:          b.CreatedAt,
	}

	if b.User != nil {
		out.User = &CustomerDTO{ID: b.User.ID, Name: b.User.Name, Email: b.User.Email}
	}
	if b.Vehicle != nil {
		out.Vehicle = &VehicleDTO{
			ID:           b.Vehicle.ID,
			Make:         b.Vehicle.Make,
			Model:        b.Vehicle.Model,
			Year:         b.Vehicle.Year,
			LicensePlate: b.Vehicle.LicensePlate,
		}
	}
	if b.ServiceBay != nil {
		bay := NewServiceBayDTO(*b.ServiceBay)
		out.ServiceBay = &bay
	}

	for _, s := range b.Services {
		item := LineItemDTO{
			ServiceID:       s.ServiceID,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		}
		if s.Service != nil {
			item.Name = s.Service.Name
		}
		out.Services = append(out.Services, item)
	}

	return out
}

func NewBookingList(bs []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, NewBookingDTO(b))
	}
	return out
}

// WorkingHoursDTO reports times as HH:MM; both are null on closed days.
type WorkingHoursDTO struct {
	DayOfWeek int     `json:"day_of_week"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	IsClosed  bool    `json:"is_closed"`
}

func NewWorkingHoursList(rows []models.WorkingHours) []WorkingHoursDTO {
	out := make([]WorkingHoursDTO, 0, len(rows))
	for _, wh := range rows {
		d := WorkingHoursDTO{DayOfWeek: wh.DayOfWeek, IsClosed: wh.IsClosed}
		if wh.OpenTime != nil {
			v := hhmm(*wh.OpenTime)
			d.OpenTime = &v
		}
		if wh.CloseTime != nil {
			v := hhmm(*wh.CloseTime)
			d.CloseTime = &v
		}
		out = append(out, d)
	}
	return out
}

type BlockedDateDTO struct {
	ID     uint    `json:"id"`
	Date   string  `json:"date"`
	Reason *string `json:"reason"`
}

func NewBlockedDateDTO(bd models.BlockedDate) BlockedDateDTO {
	return BlockedDateDTO{ID: bd.ID, Date: bd.Date.Format(domain.DateLayout), Reason: bd.Reason}
}

func NewBlockedDateList(rows []models.BlockedDate) []BlockedDateDTO {
	out := make([]BlockedDateDTO, 0, len(rows))
	for _, bd := range rows {
		out = append(out, NewBlockedDateDTO(bd))
	}
	return out
}
