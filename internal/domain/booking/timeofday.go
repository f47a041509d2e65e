package booking

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" and the "HH:MM:SS[.ffffff]" form Postgres
// returns for time columns. Seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	layout := TimeLayout
	if len(s) > len("15:04:05") && s[8] == '.' {
		s = s[:8]
	}
	if len(s) == len("15:04:05") {
		layout = "15:04:05"
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// String formats as HH:MM, the wire format.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Clock formats as HH:MM:SS, the persisted format.
func (t TimeOfDay) Clock() string {
	return t.String() + ":00"
}

// Interval is a half-open range [Start, End).
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Overlaps reports whether the two intervals share any minute.
// Touching endpoints do not overlap, so back-to-back bookings fit in one bay.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

func SameDay(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}
