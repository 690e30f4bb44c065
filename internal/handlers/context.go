package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/middleware"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// caller is the authenticated principal of a request.
type caller struct {
	StaffID    uint
	BusinessID uint
	Role       string
}

func callerFrom(c *gin.Context) caller {
	return caller{
		StaffID:    c.GetUint(middleware.ContextStaffID),
		BusinessID: c.GetUint(middleware.ContextBusinessID),
		Role:       c.GetString(middleware.ContextRole),
	}
}

func (p caller) owner() bool { return p.Role == models.RoleOwner }

func (p caller) actor() *uint {
	if p.StaffID == 0 {
		return nil
	}
	id := p.StaffID
	return &id
}

// restriction limits staff members to their own appointments. Owners see
// the whole business.
func (p caller) restriction() uint {
	if p.owner() {
		return 0
	}
	return p.StaffID
}

// target resolves the staff member a calendar request is about. Owners
// may name any staff member with ?staff_id=; everyone else gets
// themselves.
func (p caller) target(c *gin.Context) (uint, error) {
	raw := c.Query("staff_id")
	if raw == "" {
		return p.StaffID, nil
	}
	id, err := parseID(raw, "staff_id")
	if err != nil {
		return 0, err
	}
	if id != p.StaffID && !p.owner() {
		return 0, httperr.NotFound("staff_not_found")
	}
	return id, nil
}

// fail records err on the context for the access log and writes the
// mapped response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	httperr.Respond(c, err)
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	httperr.BadRequest(c, "invalid_request", err.Error())
}
