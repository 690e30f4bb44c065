package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

type RescheduleInput struct {
	BusinessID    uint
	AppointmentID string
	NewStartAt    time.Time
	StaffID       uint
	ActorID       *uint
}

// RescheduleAppointment moves an appointment to a new start with the same
// staff member and duration. The old appointment is marked rescheduled
// and linked to the new one in the same unit, so a failed move leaves it
// untouched.
type RescheduleAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	rules   []availability.Rule
	timeout time.Duration
	now     func() time.Time
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	timeout time.Duration,
) *RescheduleAppointment {
	if timeout <= 0 {
		timeout = DefaultBookTimeout
	}
	return &RescheduleAppointment{
		repo:    repo,
		audit:   audit,
		rules:   availability.DefaultRules(),
		timeout: timeout,
		now:     time.Now,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*Booking, error) {

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	business, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, timedOut(ctx, err)
	}
	loc := timezone.Location(business.Timezone)

	old, err := loadOwned(ctx, uc.repo, in.BusinessID, in.AppointmentID, in.StaffID)
	if err != nil {
		return nil, timedOut(ctx, err)
	}
	if err := domain.CanTransition(domain.Status(old.Status), domain.StatusRescheduled); err != nil {
		return nil, err
	}

	staff, err := uc.repo.GetStaffMember(ctx, in.BusinessID, old.StaffID)
	if err != nil {
		return nil, timedOut(ctx, err)
	}

	now := uc.now().In(loc)
	start := in.NewStartAt.In(loc)
	if err := checkStart(business, start, now); err != nil {
		return nil, err
	}
	slot := calendar.Interval{Start: start, End: start.Add(old.EndAt.Sub(old.StartAt))}

	next := &models.Appointment{
		ID:         uuid.NewString(),
		BusinessID: old.BusinessID,
		StaffID:    old.StaffID,
		JobTypeID:  old.JobTypeID,
		CustomerID: old.CustomerID,
		StartAt:    slot.Start,
		EndAt:      slot.End,
		Status:     string(domain.InitialStatus()),
		Channel:    old.Channel,
		Notes:      old.Notes,
	}

	err = uc.repo.WithStaffLock(ctx, old.StaffID, func(tx domain.Repository) error {
		cur, err := tx.GetAppointment(ctx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}

		// free the old slot first so the new one may overlap it
		from := domain.Status(cur.Status)
		if err := domain.Transition(cur, domain.StatusRescheduled, now); err != nil {
			return err
		}
		cur.RescheduledToID = &next.ID
		if err := tx.UpdateAppointmentStatus(ctx, cur, from); err != nil {
			return err
		}

		buffer, err := placeSlot(ctx, tx, uc.rules, staff, slot, now)
		if err != nil {
			return err
		}
		next.BlockedUntil = slot.End.Add(buffer)
		return tx.CreateAppointment(ctx, next)
	})
	if err != nil {
		return nil, timedOut(ctx, err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		StaffID:    in.ActorID,
		Action:     "appointment_rescheduled",
		Entity:     "appointment",
		EntityID:   old.ID,
		Metadata: map[string]any{
			"rescheduled_to": next.ID,
			"start_at":       next.StartAt,
		},
	})

	return &Booking{
		Appointment:      next,
		ConfirmationCode: domain.ConfirmationCode(next),
	}, nil
}
