package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/staff-scheduler/internal/usecase/appointment"
)

const (
	ChannelWeb   = "web"
	ChannelVoice = "voice"
)

// BookingHandler serves the customer facing surface: the public web UI by
// business slug and the voice agent by token.
type BookingHandler struct {
	repo  domain.Repository
	find  *appointment.FindOpenings
	book  *appointment.BookAppointment
	check *appointment.CheckExisting
}

func NewBookingHandler(
	repo domain.Repository,
	find *appointment.FindOpenings,
	book *appointment.BookAppointment,
	check *appointment.CheckExisting,
) *BookingHandler {
	return &BookingHandler{repo: repo, find: find, book: book, check: check}
}

type BookRequest struct {
	StaffID         uint      `json:"staff_id" binding:"required"`
	JobTypeID       uint      `json:"job_type_id" binding:"required"`
	CustomerID      uint      `json:"customer_id" binding:"required"`
	StartAt         time.Time `json:"start_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=1"`
	Notes           string    `json:"notes" binding:"max=255"`
}

type openingsResponse struct {
	Slots  []appointment.Opening `json:"slots"`
	Reason string                `json:"reason,omitempty"`
}

// ---------------- public ----------------

func (h *BookingHandler) PublicJobTypes(c *gin.Context) {
	business, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	jobTypes, err := h.repo.ListJobTypes(c.Request.Context(), business.ID)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, jobTypes)
}

func (h *BookingHandler) PublicOpenings(c *gin.Context) {
	business, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	h.openings(c, business.ID)
}

func (h *BookingHandler) PublicBook(c *gin.Context) {
	business, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	h.create(c, business.ID, ChannelWeb, nil)
}

// ---------------- agent ----------------

func (h *BookingHandler) AgentOpenings(c *gin.Context) {
	h.openings(c, callerFrom(c).BusinessID)
}

func (h *BookingHandler) AgentBook(c *gin.Context) {
	p := callerFrom(c)
	h.create(c, p.BusinessID, ChannelVoice, p.actor())
}

// AgentExisting answers whether the caller already has an upcoming
// appointment.
func (h *BookingHandler) AgentExisting(c *gin.Context) {
	customerID, err := parseID(c.Param("id"), "customer_id")
	if err != nil {
		fail(c, err)
		return
	}

	ap, err := h.check.Execute(c.Request.Context(), callerFrom(c).BusinessID, customerID)
	if err != nil {
		fail(c, err)
		return
	}
	if ap == nil {
		httpresp.OK(c, gin.H{"appointment": nil})
		return
	}
	httpresp.OK(c, gin.H{
		"appointment":       ap,
		"confirmation_code": domain.ConfirmationCode(ap),
	})
}

// ---------------- shared ----------------

func (h *BookingHandler) openings(c *gin.Context, businessID uint) {
	in, err := openingsInput(c, businessID)
	if err != nil {
		fail(c, err)
		return
	}

	slots, err := h.find.Execute(c.Request.Context(), in)
	if errors.Is(err, httperr.ErrNoQualifiedStaff) {
		httpresp.OK(c, openingsResponse{Slots: []appointment.Opening{}, Reason: httperr.CodeOf(err)})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	if slots == nil {
		slots = []appointment.Opening{}
	}
	httpresp.OK(c, openingsResponse{Slots: slots})
}

func openingsInput(c *gin.Context, businessID uint) (appointment.FindOpeningsInput, error) {
	in := appointment.FindOpeningsInput{
		BusinessID:      businessID,
		DurationMinutes: parseInt(c.Query("duration_minutes"), 0),
		Limit:           parseInt(c.Query("limit"), 0),
	}

	var err error
	if in.JobTypeID, err = parseID(c.Query("job_type_id"), "job_type_id"); err != nil {
		return in, err
	}
	if in.StaffIDs, err = parseIDList(c.Query("staff_ids"), "staff_ids"); err != nil {
		return in, err
	}
	if in.DateFrom, err = parseDate(c.Query("date_from"), "date_from"); err != nil {
		return in, err
	}
	in.DateTo = in.DateFrom
	if raw := c.Query("date_to"); raw != "" {
		if in.DateTo, err = parseDate(raw, "date_to"); err != nil {
			return in, err
		}
	}
	return in, nil
}

func (h *BookingHandler) create(c *gin.Context, businessID uint, channel string, actor *uint) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	booking, err := h.book.Execute(c.Request.Context(), appointment.BookInput{
		BusinessID:      businessID,
		StaffID:         req.StaffID,
		JobTypeID:       req.JobTypeID,
		CustomerID:      req.CustomerID,
		StartAt:         req.StartAt,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Channel:         channel,
		ActorID:         actor,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}
