package booking

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// ===============================
// Validations
// ===============================

// CanCancel: completed and already cancelled bookings stay as they are.
func CanCancel(current Status) error {
	if current == StatusCompleted || current == StatusCancelled {
		return ErrInvalidState
	}
	return nil
}

// Reactivates reports whether moving from -> to brings a cancelled booking
// back onto the ledger, where it has to hold its bay again.
func Reactivates(from, to Status) bool {
	return from == StatusCancelled && to != StatusCancelled
}

func InitialStatus() Status {
	return StatusPending
}
