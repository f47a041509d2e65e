package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/bay-scheduler/internal/dto"
	"github.com/BruksfildServices01/bay-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/bay-scheduler/internal/usecase/booking"
)

type WorkingHoursHandler struct {
	calendar *ucBooking.ManageCalendar
}

func NewWorkingHoursHandler(calendar *ucBooking.ManageCalendar) *WorkingHoursHandler {
	return &WorkingHoursHandler{calendar: calendar}
}

type WorkingDayConfig struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

type WorkingHoursUpdateRequest struct {
	WorkingHours []WorkingDayConfig `json:"working_hours" binding:"required,min=1,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	hours, err := h.calendar.ListWorkingHours(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed_to_get_working_hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"working_hours": dto.NewWorkingHoursList(hours)})
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	days := make([]ucBooking.WorkingDay, 0, len(req.WorkingHours))
	for _, d := range req.WorkingHours {
		days = append(days, ucBooking.WorkingDay{
			DayOfWeek: *d.DayOfWeek,
			OpenTime:  d.OpenTime,
			CloseTime: d.CloseTime,
			IsClosed:  d.IsClosed,
		})
	}

	hours, err := h.calendar.UpdateWorkingHours(c.Request.Context(), adminID, days)
	if err != nil {
		writeError(c, err, "failed_to_save_working_hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Working hours updated successfully.",
		"working_hours": dto.NewWorkingHoursList(hours),
	})
}
