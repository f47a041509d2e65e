package models

import "time"

// WorkingHours holds one row per weekday (0 = Sunday).
// OpenTime and CloseTime are NULL when the day is closed.
type WorkingHours struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DayOfWeek int `gorm:"uniqueIndex;not null" json:"day_of_week"`

	OpenTime  *string `gorm:"type:time" json:"open_time"`
	CloseTime *string `gorm:"type:time" json:"close_time"`
	IsClosed  bool    `json:"is_closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
