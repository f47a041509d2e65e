package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ReferenceNumber string `gorm:"size:20;uniqueIndex;not null" json:"reference_number"`

	UserID uint  `json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user,omitempty"`

	VehicleID uint     `json:"vehicle_id"`
	Vehicle   *Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vehicle,omitempty"`

	ServiceBayID uint        `json:"service_bay_id"`
	ServiceBay   *ServiceBay `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service_bay,omitempty"`

	BookingDate time.Time `gorm:"type:date;index;not null" json:"booking_date"`
	StartTime   string    `gorm:"type:time;not null" json:"start_time"`
	EndTime     string    `gorm:"type:time;not null" json:"end_time"`

	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Status     string          `gorm:"size:20;default:'pending'" json:"status"`

	Notes              *string    `gorm:"type:text" json:"notes"`
	CancellationReason *string    `gorm:"size:500" json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	Services []BookingService `gorm:"foreignKey:BookingID" json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingService is a line item: price and duration are copied from the
// catalog when the booking is made.
type BookingService struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"index;not null" json:"booking_id"`

	ServiceID uint     `gorm:"not null" json:"service_id"`
	Service   *Service `json:"service,omitempty"`

	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
