package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

type ChangeStatusInput struct {
	BusinessID    uint
	AppointmentID string
	Status        domain.Status
	// StaffID, when set, restricts the change to that staff member's
	// appointments.
	StaffID uint
	ActorID *uint
}

// ChangeAppointmentStatus applies one state machine transition
// (confirm, start, complete, cancel, no-show).
type ChangeAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewChangeAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ChangeAppointmentStatus {
	return &ChangeAppointmentStatus{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *ChangeAppointmentStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	if in.Status == domain.StatusRescheduled || !in.Status.Valid() {
		return nil, httperr.Validation("invalid_status")
	}

	ap, err := loadOwned(ctx, uc.repo, in.BusinessID, in.AppointmentID, in.StaffID)
	if err != nil {
		return nil, err
	}

	var out *models.Appointment
	err = uc.repo.WithStaffLock(ctx, ap.StaffID, func(tx domain.Repository) error {
		cur, err := tx.GetAppointment(ctx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}
		from := domain.Status(cur.Status)
		if err := domain.Transition(cur, in.Status, uc.now()); err != nil {
			return err
		}
		if err := tx.UpdateAppointmentStatus(ctx, cur, from); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		StaffID:    in.ActorID,
		Action:     "appointment_" + string(in.Status),
		Entity:     "appointment",
		EntityID:   out.ID,
	})

	return out, nil
}

// loadOwned fetches an appointment, hiding those of other staff members
// when staffID is set.
func loadOwned(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	appointmentID string,
	staffID uint,
) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		return nil, err
	}
	if staffID != 0 && ap.StaffID != staffID {
		return nil, httperr.NotFound("appointment_not_found")
	}
	return ap, nil
}
