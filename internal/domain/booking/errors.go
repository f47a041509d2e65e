package booking

import "github.com/BruksfildServices01/bay-scheduler/internal/httperr"

var (
	ErrSlotUnavailable     = httperr.ErrBusiness("slot_unavailable")
	ErrNoBayAvailable      = httperr.ErrBusiness("no_bay_available")
	ErrServiceNotFound     = httperr.ErrBusiness("service_not_found")
	ErrNoServices          = httperr.ErrBusiness("no_services")
	ErrVehicleNotFound     = httperr.ErrBusiness("vehicle_not_found")
	ErrBookingNotFound     = httperr.ErrBusiness("booking_not_found")
	ErrInvalidState        = httperr.ErrBusiness("invalid_state")
	ErrInvalidStatus       = httperr.ErrBusiness("invalid_status")
	ErrInvalidHours        = httperr.ErrBusiness("invalid_working_hours")
	ErrDateAlreadyBlocked  = httperr.ErrBusiness("date_already_blocked")
	ErrBlockedDateNotFound = httperr.ErrBusiness("blocked_date_not_found")
	ErrBayNotFound         = httperr.ErrBusiness("service_bay_not_found")
	ErrBayInactive         = httperr.ErrBusiness("service_bay_inactive")
)
