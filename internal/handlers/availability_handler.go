package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/staff-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/staff-scheduler/internal/usecase/appointment"
)

type AvailabilityHandler struct {
	day *appointment.GetDayAvailability
}

func NewAvailabilityHandler(day *appointment.GetDayAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{day: day}
}

// Day returns the resolved open intervals, busy blocks and, when
// job_type_id is given, the bookable slots of one date.
func (h *AvailabilityHandler) Day(c *gin.Context) {
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
	jobTypeID, err := parseOptionalID(c.Query("job_type_id"), "job_type_id")
	if err != nil {
		fail(c, err)
		return
	}

	out, err := h.day.Execute(c.Request.Context(), appointment.DayAvailabilityInput{
		BusinessID: p.BusinessID,
		StaffID:    staffID,
		Date:       date,
		JobTypeID:  jobTypeID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.OK(c, out)
}
