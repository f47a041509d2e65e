package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/bay-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/bay-scheduler/internal/dto"
	"github.com/BruksfildServices01/bay-scheduler/internal/httperr"
	"github.com/BruksfildServices01/bay-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/bay-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/bay-scheduler/internal/usecase/booking"
)

const (
	defaultAdminPageSize = 15
	maxAdminPageSize     = 100
)

type AdminBookingHandler struct {
	list         *ucBooking.ListBookings
	updateStatus *ucBooking.UpdateBookingStatus
	assignBay    *ucBooking.AssignBay
	clock        clock.Clock
}

func NewAdminBookingHandler(
	list *ucBooking.ListBookings,
	updateStatus *ucBooking.UpdateBookingStatus,
	assignBay *ucBooking.AssignBay,
	clk clock.Clock,
) *AdminBookingHandler {
	return &AdminBookingHandler{
		list:         list,
		updateStatus: updateStatus,
		assignBay:    assignBay,
		clock:        clk,
	}
}

type UpdateStatusRequest struct {
	Status             string `json:"status" binding:"required,oneof=pending confirmed in_progress completed cancelled no_show"`
	CancellationReason string `json:"cancellation_reason" binding:"max=500"`
}

type AssignBayRequest struct {
	ServiceBayID uint `json:"service_bay_id" binding:"required,gt=0"`
}

// List filters by status, date (YYYY-MM-DD) and user_id; page and per_page
// control paging.
func (h *AdminBookingHandler) List(c *gin.Context) {
	fields := map[string]string{}
	f := domain.BookingFilter{Status: c.Query("status")}

	if f.Status != "" {
		if _, err := domain.ParseStatus(f.Status); err != nil {
			fields["status"] = "Unknown booking status."
		}
	}
	if raw := c.Query("date"); raw != "" {
		d, err := parseShopDate(h.clock, raw)
		if err != nil {
			fields["date"] = "Must be a date in YYYY-MM-DD format."
		} else {
			f.Date = &d
		}
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			fields["user_id"] = "Must be a positive integer."
		} else {
			f.UserID = uint(id)
		}
	}
	if len(fields) > 0 {
		httperr.Validation(c, fields)
		return
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if f.Page <= 0 {
		f.Page = 1
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultAdminPageSize)))
	if f.Limit <= 0 || f.Limit > maxAdminPageSize {
		f.Limit = defaultAdminPageSize
	}

	rows, total, err := h.list.ForAdmin(c.Request.Context(), f)
	if err != nil {
		writeError(c, err, "failed_to_list_bookings")
		return
	}

	httpresp.Page(c, dto.NewBookingList(rows), f.Page, f.Limit, total)
}

func (h *AdminBookingHandler) Show(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.list.ByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed_to_get_booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": dto.NewBookingDTO(*b)})
}

func (h *AdminBookingHandler) UpdateStatus(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	b, err := h.updateStatus.Execute(c.Request.Context(), adminID, id, req.Status, req.CancellationReason)
	if err != nil {
		writeError(c, err, "failed_to_update_status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated successfully.",
		"booking": dto.NewBookingDTO(*b),
	})
}

func (h *AdminBookingHandler) AssignBay(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req AssignBayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	b, err := h.assignBay.Execute(c.Request.Context(), adminID, id, req.ServiceBayID)
	if err != nil {
		writeError(c, err, "failed_to_assign_bay")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service bay assigned successfully.",
		"booking": dto.NewBookingDTO(*b),
	})
}

// BaySchedule lists one bay's bookings for ?date=, earliest first.
func (h *AdminBookingHandler) BaySchedule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	raw := c.Query("date")
	if raw == "" {
		httperr.Validation(c, map[string]string{"date": "This field is required."})
		return
	}
	date, err := parseShopDate(h.clock, raw)
	if err != nil {
		httperr.Validation(c, map[string]string{"date": "Must be a date in YYYY-MM-DD format."})
		return
	}

	bay, rows, err := h.list.BaySchedule(c.Request.Context(), id, date)
	if err != nil {
		writeError(c, err, "failed_to_get_bay_schedule")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service_bay": dto.NewServiceBayDTO(*bay),
		"date":        date.Format(domain.DateLayout),
		"bookings":    dto.NewBookingList(rows),
	})
}
