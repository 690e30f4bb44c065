package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to next, stamping the matching timestamp.
func Transition(ap *models.Appointment, next Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), next); err != nil {
		return err
	}

	ap.Status = string(next)
	switch next {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusInProgress:
		ap.StartedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled, StatusRescheduled:
		ap.CancelledAt = &now
	}
	return nil
}

// ConfirmationCode is the short, human-presentable token read back to
// callers. It is derived from the ID and is not unique on its own.
func ConfirmationCode(ap *models.Appointment) string {
	id := strings.ReplaceAll(ap.ID, "-", "")
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}
