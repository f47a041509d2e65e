package booking

// BayInterval is a booked interval pinned to a bay.
type BayInterval struct {
	BayID uint
	Interval
}

// PickBay returns the first bay, in the given order, with no booking
// overlapping want.
func PickBay(bays []uint, booked []BayInterval, want Interval) (uint, bool) {
	busy := make(map[uint]bool, len(booked))
	for _, b := range booked {
		if b.Overlaps(want) {
			busy[b.BayID] = true
		}
	}

	for _, id := range bays {
		if !busy[id] {
			return id, true
		}
	}
	return 0, false
}
