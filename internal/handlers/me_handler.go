package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/httpresp"
)

type MeHandler struct {
	repo domain.Repository
}

func NewMeHandler(repo domain.Repository) *MeHandler {
	return &MeHandler{repo: repo}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	p := callerFrom(c)
	ctx := c.Request.Context()

	user, err := h.repo.GetStaffMember(ctx, p.BusinessID, p.StaffID)
	if err != nil {
		fail(c, err)
		return
	}
	business, err := h.repo.GetBusinessByID(ctx, p.BusinessID)
	if err != nil {
		fail(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"user": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"phone":       user.Phone,
			"role":        user.Role,
			"business_id": user.BusinessID,
			"job_types":   user.JobTypes,
		},
		"business": business,
	})
}

// JobTypes lists the active job types of the caller's business.
func (h *MeHandler) JobTypes(c *gin.Context) {
	list, err := h.repo.ListJobTypes(c.Request.Context(), callerFrom(c).BusinessID)
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.List(c, list)
}
