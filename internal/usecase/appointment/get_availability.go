package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

type DayAvailabilityInput struct {
	BusinessID uint
	StaffID    uint
	Date       time.Time
	// JobTypeID, when set, adds the bookable slots for that job type.
	JobTypeID uint
}

type DayAvailability struct {
	Date      string              `json:"date"`
	DecidedBy string              `json:"decided_by,omitempty"`
	Open      []calendar.Interval `json:"open"`
	Busy      []calendar.Interval `json:"busy"`
	Slots     []calendar.Interval `json:"slots,omitempty"`
}

// GetDayAvailability resolves one staff member's day for the staff UI.
type GetDayAvailability struct {
	repo  domain.Repository
	rules []availability.Rule
	now   func() time.Time
}

func NewGetDayAvailability(repo domain.Repository) *GetDayAvailability {
	return &GetDayAvailability{
		repo:  repo,
		rules: availability.DefaultRules(),
		now:   time.Now,
	}
}

func (uc *GetDayAvailability) Execute(
	ctx context.Context,
	in DayAvailabilityInput,
) (*DayAvailability, error) {

	business, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(business.Timezone)

	staff, err := uc.repo.GetStaffMember(ctx, in.BusinessID, in.StaffID)
	if err != nil {
		return nil, err
	}

	var duration time.Duration
	if in.JobTypeID != 0 {
		if duration, err = resolveDuration(ctx, uc.repo, in.BusinessID, in.JobTypeID, 0); err != nil {
			return nil, err
		}
	}

	date := inLocation(in.Date, loc)
	var day availability.Day
	err = uc.repo.ReadSnapshot(ctx, func(tx domain.Repository) error {
		day, err = availability.NewResolver(tx, uc.rules...).Resolve(ctx, staff, date)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &DayAvailability{
		Date:      date.Format(timezone.DateLayout),
		DecidedBy: day.DecidedBy,
		Open:      nonNil(day.Open),
		Busy:      nonNil(day.Busy),
	}
	if duration > 0 {
		now := uc.now().In(loc)
		earliest := now.Add(time.Duration(business.MinAdvanceMinutes) * time.Minute)
		out.Slots = nonNil(availability.Slots(day, duration, earliest))
	}
	return out, nil
}

func nonNil(ivs []calendar.Interval) []calendar.Interval {
	if ivs == nil {
		return []calendar.Interval{}
	}
	return ivs
}
