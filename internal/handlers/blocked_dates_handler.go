package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/bay-scheduler/internal/clock"
	"github.com/BruksfildServices01/bay-scheduler/internal/dto"
	"github.com/BruksfildServices01/bay-scheduler/internal/httperr"
	"github.com/BruksfildServices01/bay-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/bay-scheduler/internal/usecase/booking"
)

type BlockedDatesHandler struct {
	calendar *ucBooking.ManageCalendar
	clock    clock.Clock
}

func NewBlockedDatesHandler(calendar *ucBooking.ManageCalendar, clk clock.Clock) *BlockedDatesHandler {
	return &BlockedDatesHandler{calendar: calendar, clock: clk}
}

type BlockDateRequest struct {
	Date   string  `json:"date" binding:"required"`
	Reason *string `json:"reason" binding:"omitempty,max=255"`
}

type BulkBlockDatesRequest struct {
	Dates  []string `json:"dates" binding:"required,min=1,max=366"`
	Reason *string  `json:"reason" binding:"omitempty,max=255"`
}

// List accepts optional from/to (YYYY-MM-DD) query filters.
func (h *BlockedDatesHandler) List(c *gin.Context) {
	var from, to *time.Time

	for key, dst := range map[string]**time.Time{"from": &from, "to": &to} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		d, err := parseShopDate(h.clock, raw)
		if err != nil {
			httperr.Validation(c, map[string]string{key: "Must be a date in YYYY-MM-DD format."})
			return
		}
		*dst = &d
	}

	rows, err := h.calendar.ListBlockedDates(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err, "failed_to_list_blocked_dates")
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked_dates": dto.NewBlockedDateList(rows)})
}

func (h *BlockedDatesHandler) Create(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	var req BlockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	date, msg := parseBookableDate(h.clock, req.Date)
	if msg != "" {
		httperr.Validation(c, map[string]string{"date": msg})
		return
	}

	bd, err := h.calendar.BlockDate(c.Request.Context(), adminID, date, req.Reason)
	if err != nil {
		writeError(c, err, "failed_to_block_date")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Blocked date created successfully.",
		"blocked_date": dto.NewBlockedDateDTO(*bd),
	})
}

func (h *BlockedDatesHandler) BulkCreate(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	var req BulkBlockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	dates := make([]time.Time, 0, len(req.Dates))
	fields := map[string]string{}
	for i, raw := range req.Dates {
		d, msg := parseBookableDate(h.clock, raw)
		if msg != "" {
			fields[fmt.Sprintf("dates[%d]", i)] = msg
			continue
		}
		dates = append(dates, d)
	}
	if len(fields) > 0 {
		httperr.Validation(c, fields)
		return
	}

	rows, err := h.calendar.BlockDates(c.Request.Context(), adminID, dates, req.Reason)
	if err != nil {
		writeError(c, err, "failed_to_block_dates")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       fmt.Sprintf("%d blocked dates created.", len(rows)),
		"blocked_dates": dto.NewBlockedDateList(rows),
	})
}

func (h *BlockedDatesHandler) Delete(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.calendar.UnblockDate(c.Request.Context(), adminID, id); err != nil {
		writeError(c, err, "failed_to_unblock_date")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blocked date removed successfully."})
}
