package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/bay-scheduler/internal/httperr"
)

func init() {
	// Report validation failures by JSON field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type businessResponse struct {
	status  int
	message string
}

var businessResponses = map[string]businessResponse{
	"slot_unavailable":       {http.StatusUnprocessableEntity, "The selected time slot is no longer available."},
	"no_bay_available":       {http.StatusUnprocessableEntity, "No service bay is available for the selected time."},
	"service_not_found":      {http.StatusUnprocessableEntity, "One or more selected services are unavailable."},
	"no_services":            {http.StatusUnprocessableEntity, "Select at least one service."},
	"vehicle_not_found":      {http.StatusUnprocessableEntity, "The selected vehicle does not exist."},
	"booking_not_found":      {http.StatusNotFound, "Booking not found."},
	"invalid_state":          {http.StatusUnprocessableEntity, "This booking cannot be cancelled."},
	"invalid_status":         {http.StatusUnprocessableEntity, "Unknown booking status."},
	"invalid_working_hours":  {http.StatusUnprocessableEntity, "Working hours are invalid."},
	"date_already_blocked":   {http.StatusUnprocessableEntity, "This date is already blocked."},
	"blocked_date_not_found": {http.StatusNotFound, "Blocked date not found."},
	"service_bay_not_found":  {http.StatusNotFound, "Service bay not found."},
	"service_bay_inactive":   {http.StatusUnprocessableEntity, "The selected service bay is not active."},
}

// writeError maps a use case error to a response. Unknown errors are logged
// and reported as a generic 500.
func writeError(c *gin.Context, err error, fallbackCode string) {
	if be, ok := httperr.AsBusiness(err); ok {
		resp, known := businessResponses[be.Code]
		if !known {
			resp = businessResponse{http.StatusUnprocessableEntity, be.Code}
		}
		httperr.Write(c, resp.status, be.Code, resp.message)
		return
	}

	slog.ErrorContext(c.Request.Context(), "request failed",
		"path", c.FullPath(),
		"error", err,
	)
	httperr.Internal(c, fallbackCode, "Something went wrong. Please try again.")
}

// writeBindError reports field errors as 422 and malformed bodies as 400.
func writeBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fieldName(fe)] = fieldMessage(fe)
		}
		httperr.Validation(c, fields)
		return
	}
	httperr.BadRequest(c, "invalid_request", "The request body is malformed.")
}

// fieldName drops the request struct prefix: "service_ids[0]" rather than
// "CreateBookingRequest.service_ids[0]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Must contain at least " + fe.Param() + " item(s)."
		}
		return "Must be at least " + fe.Param() + "."
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return "May not be longer than " + fe.Param() + " characters."
		case reflect.Slice:
			return "May not contain more than " + fe.Param() + " items."
		}
		return "Must be at most " + fe.Param() + "."
	case "gt":
		return "Must be greater than " + fe.Param() + "."
	case "oneof":
		return "Must be one of: " + fe.Param() + "."
	}
	return "Invalid value."
}
