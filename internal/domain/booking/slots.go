package booking

import "github.com/BruksfildServices01/bay-scheduler/internal/models"

// SlotInterval is the fixed step of the slot grid, in minutes.
const SlotInterval = 30

// Schedule is the open part of one business day.
type Schedule struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// ScheduleFor turns a weekday's working hours into a Schedule.
// ok is false when the day is closed, missing or misconfigured.
func ScheduleFor(wh *models.WorkingHours) (Schedule, bool) {
	if wh == nil || wh.IsClosed || wh.OpenTime == nil || wh.CloseTime == nil {
		return Schedule{}, false
	}

	open, err := ParseTimeOfDay(*wh.OpenTime)
	if err != nil {
		return Schedule{}, false
	}
	closeAt, err := ParseTimeOfDay(*wh.CloseTime)
	if err != nil {
		return Schedule{}, false
	}
	if open >= closeAt {
		return Schedule{}, false
	}

	return Schedule{Open: open, Close: closeAt}, true
}

// CandidateSlots walks the grid anchored at the opening time and keeps every
// start whose service window still ends by closing time.
func CandidateSlots(s Schedule, totalMinutes int) []TimeOfDay {
	if totalMinutes <= 0 {
		return nil
	}

	var out []TimeOfDay
	for cur := s.Open; cur.Add(totalMinutes) <= s.Close; cur = cur.Add(SlotInterval) {
		out = append(out, cur)
	}
	return out
}

// AvailableSlots returns the candidate starts that leave at least one bay free.
// booked holds the intervals of every non-cancelled booking of the day.
func AvailableSlots(
	s Schedule,
	totalMinutes int,
	activeBays int,
	booked []Interval,
) []TimeOfDay {

	if activeBays <= 0 {
		return []TimeOfDay{}
	}

	slots := []TimeOfDay{}
	for _, start := range CandidateSlots(s, totalMinutes) {
		want := Interval{Start: start, End: start.Add(totalMinutes)}

		conflicts := 0
		for _, b := range booked {
			if b.Overlaps(want) {
				conflicts++
			}
		}

		if conflicts < activeBays {
			slots = append(slots, start)
		}
	}

	return slots
}

// FormatSlots renders slots in the HH:MM wire format.
func FormatSlots(slots []TimeOfDay) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}
