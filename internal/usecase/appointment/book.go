package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

const DefaultBookTimeout = 3 * time.Second

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookInput struct {
	BusinessID uint
	StaffID    uint
	JobTypeID  uint
	CustomerID uint

	StartAt time.Time
	// DurationMinutes overrides the job type duration when > 0.
	DurationMinutes int

	Notes   string
	Channel string
	// ActorID is the staff member acting, if any.
	ActorID *uint
}

type Booking struct {
	Appointment      *models.Appointment `json:"appointment"`
	ConfirmationCode string              `json:"confirmation_code"`
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	rules   []availability.Rule
	timeout time.Duration
	now     func() time.Time
}

func NewBookAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	timeout time.Duration,
) *BookAppointment {
	if timeout <= 0 {
		timeout = DefaultBookTimeout
	}
	return &BookAppointment{
		repo:    repo,
		audit:   audit,
		rules:   availability.DefaultRules(),
		timeout: timeout,
		now:     time.Now,
	}
}

// Execute commits one appointment. The availability check and the insert
// run as one unit under the staff lock; a losing concurrent attempt gets
// ErrSlotTaken and a slow store gets ErrTransient.
func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookInput,
) (*Booking, error) {

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// --------------------------------------------------
	// 1. Business / job type / staff / customer
	// --------------------------------------------------
	business, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, timedOut(ctx, err)
	}
	loc := timezone.Location(business.Timezone)

	duration, err := resolveDuration(ctx, uc.repo, in.BusinessID, in.JobTypeID, in.DurationMinutes)
	if err != nil {
		return nil, timedOut(ctx, err)
	}

	staff, err := uc.repo.GetStaffMember(ctx, in.BusinessID, in.StaffID)
	if err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return nil, httperr.Validation("invalid_staff")
		}
		return nil, timedOut(ctx, err)
	}
	if !staff.Active || !staff.CanPerform(in.JobTypeID) {
		return nil, httperr.Validation("staff_not_qualified")
	}

	if _, err := uc.repo.GetCustomer(ctx, in.BusinessID, in.CustomerID); err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return nil, httperr.Validation("invalid_customer")
		}
		return nil, timedOut(ctx, err)
	}

	// --------------------------------------------------
	// 2. Start time
	// --------------------------------------------------
	now := uc.now().In(loc)
	start := in.StartAt.In(loc)
	if err := checkStart(business, start, now); err != nil {
		return nil, err
	}
	slot := calendar.Interval{Start: start, End: start.Add(duration)}

	// --------------------------------------------------
	// 3. Check and insert as one unit
	// --------------------------------------------------
	ap := &models.Appointment{
		ID:         uuid.NewString(),
		BusinessID: in.BusinessID,
		StaffID:    staff.ID,
		JobTypeID:  in.JobTypeID,
		CustomerID: in.CustomerID,
		StartAt:    slot.Start,
		EndAt:      slot.End,
		Status:     string(domain.InitialStatus()),
		Channel:    in.Channel,
		Notes:      in.Notes,
	}

	err = uc.repo.WithStaffLock(ctx, staff.ID, func(tx domain.Repository) error {
		buffer, err := placeSlot(ctx, tx, uc.rules, staff, slot, now)
		if err != nil {
			return err
		}
		ap.BlockedUntil = slot.End.Add(buffer)
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, timedOut(ctx, err)
	}

	// --------------------------------------------------
	// 4. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		StaffID:    in.ActorID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   ap.ID,
		Metadata: map[string]any{
			"staff_id": ap.StaffID,
			"start_at": ap.StartAt,
			"channel":  ap.Channel,
		},
	})

	return &Booking{
		Appointment:      ap,
		ConfirmationCode: domain.ConfirmationCode(ap),
	}, nil
}

// ======================================================
// SHARED
// ======================================================

// checkStart rejects starts in the past or inside the business notice
// period.
func checkStart(business *models.Business, start, now time.Time) error {
	if start.Before(now) {
		return httperr.Validation("start_in_past")
	}
	notice := time.Duration(business.MinAdvanceMinutes) * time.Minute
	if start.Before(now.Add(notice)) {
		return httperr.Validation("too_soon")
	}
	return nil
}

// placeSlot re-resolves the staff day inside the unit of work and checks
// slot against it. It returns the buffer to block after the slot.
func placeSlot(
	ctx context.Context,
	tx domain.Repository,
	rules []availability.Rule,
	staff *models.StaffMember,
	slot calendar.Interval,
	now time.Time,
) (time.Duration, error) {

	snap, err := availability.NewResolver(tx, rules...).Load(ctx, staff, slot.Start)
	if err != nil {
		return 0, err
	}
	if snap.Config == nil {
		return 0, httperr.Validation("outside_availability")
	}
	if calendar.DaysBetween(now, slot.Start) > snap.Config.MaxAdvanceDays {
		return 0, httperr.Validation("beyond_booking_horizon")
	}
	if err := availability.Check(rules, snap, slot); err != nil {
		return 0, err
	}
	return snap.Buffer(), nil
}

// timedOut turns errors caused by the use case deadline into
// ErrTransient.
func timedOut(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, httperr.ErrTransient) {
		return err
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return httperr.Transient(ctxErr)
	}
	return err
}
