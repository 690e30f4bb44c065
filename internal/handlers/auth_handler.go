package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/middleware"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// StaffDirectory finds staff members by login email, with their Business
// loaded.
type StaffDirectory interface {
	FindStaffByEmail(ctx context.Context, email string) (*models.StaffMember, error)
}

type AuthHandler struct {
	staff  StaffDirectory
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthHandler(staff StaffDirectory, secret string, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthHandler{staff: staff, secret: secret, ttl: ttl, now: time.Now}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.staff.FindStaffByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, httperr.ErrNotFound) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	if !user.Active {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := middleware.IssueToken(h.secret, user, h.ttl, h.now())
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_generate_token", "Could not sign the session token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"role":        user.Role,
			"business_id": user.BusinessID,
		},
		"business": gin.H{
			"id":       user.Business.ID,
			"name":     user.Business.Name,
			"slug":     user.Business.Slug,
			"timezone": user.Business.Timezone,
		},
		"token": token,
	})
}
