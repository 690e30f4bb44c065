package handlers

import (
	"github.com/gin-gonic/gin"

	domcal "github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
	"github.com/BruksfildServices01/staff-scheduler/internal/usecase/calendar"
)

// CalendarHandler edits weekly configs, per-date overrides and holidays.
type CalendarHandler struct {
	admin *calendar.Admin
}

func NewCalendarHandler(admin *calendar.Admin) *CalendarHandler {
	return &CalendarHandler{admin: admin}
}

type CalendarConfigRequest struct {
	DefaultStartTime string `json:"default_start_time" binding:"required"`
	DefaultEndTime   string `json:"default_end_time" binding:"required"`
	// WorkingDays is a bitmask, bit 0 = Monday.
	WorkingDays     uint8  `json:"working_days" binding:"max=127"`
	LunchBreakStart string `json:"lunch_break_start"`
	LunchBreakEnd   string `json:"lunch_break_end"`
	BufferMinutes   int    `json:"buffer_minutes" binding:"min=0"`
	MaxAdvanceDays  int    `json:"max_advance_days" binding:"min=0"`
}

type OverrideRequest struct {
	Unavailable bool   `json:"is_unavailable"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Reason      string `json:"reason" binding:"max=255"`
}

type HolidayRequest struct {
	Date            string `json:"date" binding:"required"`
	Name            string `json:"name" binding:"max=100"`
	StaffID         *uint  `json:"staff_id"`
	RecurringYearly bool   `json:"recurring_yearly"`
}

func actorOf(p caller) calendar.Actor {
	return calendar.Actor{BusinessID: p.BusinessID, StaffID: p.StaffID}
}

// ---------------- weekly config ----------------

func (h *CalendarHandler) GetConfig(c *gin.Context) {
	p := callerFrom(c)
	staffID, err := p.target(c)
	if err != nil {
		fail(c, err)
		return
	}
	cfg, err := h.admin.GetConfig(c.Request.Context(), actorOf(p), staffID)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, cfg)
}

func (h *CalendarHandler) PutConfig(c *gin.Context) {
	p := callerFrom(c)
	staffID, err := p.target(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req CalendarConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cfg := &models.CalendarConfig{
		StaffID:          staffID,
		DefaultStartTime: req.DefaultStartTime,
		DefaultEndTime:   req.DefaultEndTime,
		WorkingDays:      domcal.WeekdaySet(req.WorkingDays),
		LunchBreakStart:  req.LunchBreakStart,
		LunchBreakEnd:    req.LunchBreakEnd,
		BufferMinutes:    req.BufferMinutes,
		MaxAdvanceDays:   req.MaxAdvanceDays,
	}
	if err := h.admin.SaveConfig(c.Request.Context(), actorOf(p), cfg); err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, cfg)
}

// ---------------- overrides ----------------

func (h *CalendarHandler) ListOverrides(c *gin.Context) {
	p := callerFrom(c)
	staffID, err := p.target(c)
	if err != nil {
		fail(c, err)
		return
	}
	from, err := parseDate(c.Query("from"), "from")
	if err != nil {
		fail(c, err)
		return
	}
	to, err := parseDate(c.Query("to"), "to")
	if err != nil {
		fail(c, err)
		return
	}

	list, err := h.admin.ListOverrides(c.Request.Context(), actorOf(p), staffID, from, to)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *CalendarHandler) PutOverride(c *gin.Context) {
	p := callerFrom(c)
	staffID, err := p.target(c)
	if err != nil {
		fail(c, err)
		return
	}
	date, err := parseDate(c.Param("date"), "date")
	if err != nil {
		fail(c, err)
		return
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	o := &models.AvailabilityOverride{
		StaffID:     staffID,
		Date:        date,
		Unavailable: req.Unavailable,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reason:      req.Reason,
	}
	if err := h.admin.PutOverride(c.Request.Context(), actorOf(p), o); err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, o)
}

func (h *CalendarHandler) DeleteOverride(c *gin.Context) {
	p := callerFrom(c)
	staffID, err := p.target(c)
	if err != nil {
		fail(c, err)
		return
	}
	date, err := parseDate(c.Param("date"), "date")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.admin.DeleteOverride(c.Request.Context(), actorOf(p), staffID, date); err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"status": "ok"})
}

// ---------------- holidays ----------------

func (h *CalendarHandler) ListHolidays(c *gin.Context) {
	list, err := h.admin.ListHolidays(c.Request.Context(), actorOf(callerFrom(c)))
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *CalendarHandler) CreateHoliday(c *gin.Context) {
	var req HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		fail(c, err)
		return
	}

	holiday := &models.Holiday{
		Date:            date,
		Name:            req.Name,
		StaffID:         req.StaffID,
		RecurringYearly: req.RecurringYearly,
	}
	if err := h.admin.CreateHoliday(c.Request.Context(), actorOf(callerFrom(c)), holiday); err != nil {
		fail(c, err)
		return
	}
	httpresp.Created(c, holiday)
}

func (h *CalendarHandler) DeleteHoliday(c *gin.Context) {
	id, err := parseID(c.Param("id"), "holiday_id")
	if err != nil {
		fail(c, httperr.NotFound("holiday_not_found"))
		return
	}
	if err := h.admin.DeleteHoliday(c.Request.Context(), actorOf(callerFrom(c)), id); err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"status": "ok"})
}
