package httperr

import "errors"

// BusinessError is an expected, user-facing rule violation. Values compare
// by code, so errors.Is works against sentinels built with ErrBusiness.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// AsBusiness extracts the business error wrapped anywhere in err.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
