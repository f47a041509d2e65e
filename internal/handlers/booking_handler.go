package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/dto"
	"github.com/BruksfildServices01/bay-scheduler/internal/httperr"
	"github.com/BruksfildServices01/bay-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/bay-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability *ucBooking.GetAvailability
	create       *ucBooking.CreateBooking
	cancel       *ucBooking.CancelBooking
	list         *ucBooking.ListBookings
	clock        clock.Clock
}

func NewBookingHandler(
	availability *ucBooking.GetAvailability,
	create *ucBooking.CreateBooking,
	cancel *ucBooking.CancelBooking,
	list *ucBooking.ListBookings,
	clk clock.Clock,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		cancel:       cancel,
		list:         list,
		clock:        clk,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CheckAvailabilityRequest struct {
	Date       string `json:"date" binding:"required"`
	ServiceIDs []uint `json:"service_ids" binding:"required,min=1,dive,gt=0"`
}

type CreateBookingRequest struct {
	VehicleID   uint    `json:"vehicle_id" binding:"required,gt=0"`
	BookingDate string  `json:"booking_date" binding:"required"`
	StartTime   string  `json:"start_time" binding:"required"`
	ServiceIDs  []uint  `json:"service_ids" binding:"required,min=1,dive,gt=0"`
	Notes       *string `json:"notes" binding:"omitempty,max=1000"`
}

type CancelBookingRequest struct {
	CancellationReason string `json:"cancellation_reason" binding:"required,max=500"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	date, msg := parseBookableDate(h.clock, req.Date)
	if msg != "" {
		httperr.Validation(c, map[string]string{"date": msg})
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), date, req.ServiceIDs)
	if err != nil {
		writeError(c, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            req.Date,
		"available_slots": domain.FormatSlots(slots),
	})
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	fields := map[string]string{}

	date, msg := parseBookableDate(h.clock, req.BookingDate)
	if msg != "" {
		fields["booking_date"] = msg
	}

	start, err := parseStartTime(req.StartTime)
	if err != nil {
		fields["start_time"] = "Must be a time in HH:MM format."
	}

	if len(fields) > 0 {
		httperr.Validation(c, fields)
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID:     userID,
		VehicleID:  req.VehicleID,
		ServiceIDs: req.ServiceIDs,
		Date:       date,
		StartTime:  start,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(c, err, "failed_to_create_booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully.",
		"booking": dto.NewBookingDTO(*b),
	})
}

// ======================================================
// LIST / SHOW
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.list.ForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "failed_to_list_bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": dto.NewBookingList(bookings)})
}

func (h *BookingHandler) Show(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.list.GetForUser(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err, "failed_to_load_booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": dto.NewBookingDTO(*b)})
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), userID, id, req.CancellationReason)
	if err != nil {
		writeError(c, err, "failed_to_cancel_booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully.",
		"booking": dto.NewBookingDTO(*b),
	})
}

// ======================================================
// HELPERS
// ======================================================

// parseStartTime accepts HH:MM only.
func parseStartTime(s string) (domain.TimeOfDay, error) {
	if len(s) != len(domain.TimeLayout) {
		return 0, strconv.ErrSyntax
	}
	return domain.ParseTimeOfDay(s)
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.NotFound(c, "not_found", "Resource not found.")
		return 0, false
	}
	return uint(id), true
}
