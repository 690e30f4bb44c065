package appointment

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

const (
	DefaultMaxRangeDays = 62
	DefaultMaxOpenings  = 200
	DefaultLimit        = 50
	finderParallelism   = 4
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type FindOpeningsInput struct {
	BusinessID uint
	// StaffIDs narrows the qualified staff; empty means all of them.
	StaffIDs  []uint
	JobTypeID uint
	// DurationMinutes overrides the job type duration when > 0.
	DurationMinutes int
	// DateFrom and DateTo are civil dates, both inclusive. Only their
	// year, month and day are used.
	DateFrom time.Time
	DateTo   time.Time
	Limit    int
}

type Opening struct {
	StaffID   uint      `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// ======================================================
// USE CASE
// ======================================================

type FindOpenings struct {
	repo         domain.Repository
	rules        []availability.Rule
	maxRangeDays int
	maxOpenings  int
	now          func() time.Time
}

func NewFindOpenings(
	repo domain.Repository,
	maxRangeDays int,
	maxOpenings int,
) *FindOpenings {
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	if maxOpenings <= 0 {
		maxOpenings = DefaultMaxOpenings
	}
	return &FindOpenings{
		repo:         repo,
		rules:        availability.DefaultRules(),
		maxRangeDays: maxRangeDays,
		maxOpenings:  maxOpenings,
		now:          time.Now,
	}
}

// Execute lists bookable slots ordered by start, then staff ID. An empty
// result is not an error; ErrNoQualifiedStaff is returned when no staff
// member can take the job type.
func (uc *FindOpenings) Execute(
	ctx context.Context,
	in FindOpeningsInput,
) ([]Opening, error) {

	business, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(business.Timezone)

	// --------------------------------------------------
	// Range
	// --------------------------------------------------
	from := inLocation(in.DateFrom, loc)
	to := inLocation(in.DateTo, loc)
	if in.DateFrom.IsZero() || in.DateTo.IsZero() || to.Before(from) {
		return nil, httperr.Validation("invalid_date_range")
	}
	if calendar.DaysBetween(from, to)+1 > uc.maxRangeDays {
		return nil, httperr.Validation("date_range_too_long")
	}

	// --------------------------------------------------
	// Duration
	// --------------------------------------------------
	duration, err := resolveDuration(ctx, uc.repo, in.BusinessID, in.JobTypeID, in.DurationMinutes)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Candidate staff
	// --------------------------------------------------
	staff, err := uc.repo.ListQualifiedStaff(ctx, in.BusinessID, in.JobTypeID)
	if err != nil {
		return nil, err
	}
	staff = intersectStaff(staff, in.StaffIDs)
	if len(staff) == 0 {
		return nil, httperr.NoQualifiedStaff()
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > uc.maxOpenings {
		limit = uc.maxOpenings
	}

	now := uc.now().In(loc)
	earliest := now.Add(time.Duration(business.MinAdvanceMinutes) * time.Minute)
	today := calendar.Midnight(now)

	// --------------------------------------------------
	// Walk each staff member in its own snapshot
	// --------------------------------------------------
	perStaff := make([][]Opening, len(staff))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(finderParallelism)

	for i := range staff {
		i, st := i, &staff[i]
		g.Go(func() error {
			out, err := uc.walkStaff(gctx, st, from, to, today, duration, earliest, limit)
			if err != nil {
				return err
			}
			perStaff[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Merge
	// --------------------------------------------------
	var openings []Opening
	for _, out := range perStaff {
		openings = append(openings, out...)
	}
	sort.SliceStable(openings, func(i, j int) bool {
		if openings[i].Start.Equal(openings[j].Start) {
			return openings[i].StaffID < openings[j].StaffID
		}
		return openings[i].Start.Before(openings[j].Start)
	})
	if len(openings) > limit {
		openings = openings[:limit]
	}
	if openings == nil {
		openings = []Opening{}
	}
	return openings, nil
}

// walkStaff returns at most limit openings of st in chronological order.
// The global merge never needs more than that from a single staff member.
func (uc *FindOpenings) walkStaff(
	ctx context.Context,
	st *models.StaffMember,
	from, to, today time.Time,
	duration time.Duration,
	earliest time.Time,
	limit int,
) ([]Opening, error) {

	var out []Opening
	err := uc.repo.ReadSnapshot(ctx, func(tx domain.Repository) error {
		cfg, err := tx.GetCalendarConfig(ctx, st.ID)
		if err != nil || cfg == nil {
			return err
		}

		// per-staff horizon
		last := to
		if horizon := today.AddDate(0, 0, cfg.MaxAdvanceDays); horizon.Before(last) {
			last = horizon
		}
		first := from
		if first.Before(today) {
			first = today
		}

		resolver := availability.NewResolver(tx, uc.rules...)
		for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
			if err := ctx.Err(); err != nil {
				return httperr.Transient(err)
			}
			day, err := resolver.Resolve(ctx, st, date)
			if err != nil {
				return err
			}
			for _, slot := range availability.Slots(day, duration, earliest) {
				out = append(out, Opening{
					StaffID:   st.ID,
					StaffName: st.Name,
					Start:     slot.Start,
					End:       slot.End,
				})
				if len(out) >= limit {
					return nil
				}
			}
		}
		return nil
	})
	return out, err
}

// ======================================================
// HELPERS
// ======================================================

func inLocation(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func resolveDuration(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	jobTypeID uint,
	override int,
) (time.Duration, error) {
	if override < 0 {
		return 0, httperr.Validation("invalid_duration")
	}
	jt, err := repo.GetJobType(ctx, businessID, jobTypeID)
	if err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return 0, httperr.Validation("invalid_job_type")
		}
		return 0, err
	}
	if !jt.Active {
		return 0, httperr.Validation("invalid_job_type")
	}
	minutes := jt.DurationMinutes
	if override > 0 {
		minutes = override
	}
	if minutes <= 0 {
		return 0, httperr.Validation("invalid_duration")
	}
	return time.Duration(minutes) * time.Minute, nil
}

func intersectStaff(staff []models.StaffMember, ids []uint) []models.StaffMember {
	if len(ids) == 0 {
		return staff
	}
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := staff[:0:0]
	for _, st := range staff {
		if want[st.ID] {
			out = append(out, st)
		}
	}
	return out
}
