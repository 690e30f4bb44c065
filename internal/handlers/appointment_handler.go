package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/staff-scheduler/internal/usecase/appointment"
)

// AppointmentHandler is the staff view of appointments.
type AppointmentHandler struct {
	byDate     *appointment.ListAppointmentsByDate
	byMonth    *appointment.ListAppointmentsByMonth
	transition *appointment.ChangeAppointmentStatus
	reschedule *appointment.RescheduleAppointment
}

func NewAppointmentHandler(
	byDate *appointment.ListAppointmentsByDate,
	byMonth *appointment.ListAppointmentsByMonth,
	transition *appointment.ChangeAppointmentStatus,
	reschedule *appointment.RescheduleAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		byDate:     byDate,
		byMonth:    byMonth,
		transition: transition,
		reschedule: reschedule,
	}
}

type RescheduleRequest struct {
	StartAt time.Time `json:"start_at" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	p := callerFrom(c)
	staffID, err := p.target(c)
	if err != nil {
		fail(c, err)
		return
	}
	date, err := parseDate(c.Query("date"), "date")
	if err != nil {
		fail(c, err)
		return
	}

	list, err := h.byDate.Execute(c.Request.Context(), staffID, p.BusinessID, date)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	p := callerFrom(c)
	staffID, err := p.target(c)
	if err != nil {
		fail(c, err)
		return
	}

	year := parseInt(c.Query("year"), 0)
	month := parseInt(c.Query("month"), 0)
	if year < 2000 || year > 2100 {
		fail(c, httperr.Validation("invalid_year"))
		return
	}

	list, err := h.byMonth.Execute(c.Request.Context(), staffID, p.BusinessID, year, month)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// STATE CHANGES
// ======================================================

// Transition returns a handler moving the appointment in :id to status.
func (h *AppointmentHandler) Transition(status domain.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := callerFrom(c)
		ap, err := h.transition.Execute(c.Request.Context(), appointment.ChangeStatusInput{
			BusinessID:    p.BusinessID,
			AppointmentID: c.Param("id"),
			Status:        status,
			StaffID:       p.restriction(),
			ActorID:       p.actor(),
		})
		if err != nil {
			fail(c, err)
			return
		}
		httpresp.OK(c, ap)
	}
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p := callerFrom(c)
	booking, err := h.reschedule.Execute(c.Request.Context(), appointment.RescheduleInput{
		BusinessID:    p.BusinessID,
		AppointmentID: c.Param("id"),
		NewStartAt:    req.StartAt,
		StaffID:       p.restriction(),
		ActorID:       p.actor(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.Created(c, booking)
}
