package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// Snapshot is everything the rules look at for one staff member on one
// civil date. Date is local midnight in the business timezone.
type Snapshot struct {
	StaffID  uint
	Date     time.Time
	Config   *models.CalendarConfig
	Override *models.AvailabilityOverride
	Holidays []models.Holiday
	// Blocking holds the raw [start, end) of blocking appointments.
	Blocking []calendar.Interval
}

func (s Snapshot) Buffer() time.Duration {
	if s.Config == nil {
		return 0
	}
	return s.Config.Buffer()
}

// Day is the resolved availability of one staff member on one date.
type Day struct {
	Date      time.Time
	Open      []calendar.Interval
	Busy      []calendar.Interval
	Buffer    time.Duration
	DecidedBy string
}

// Admits reports whether slot lies inside an open interval and keeps the
// buffer clear on both sides of every busy interval.
func (d Day) Admits(slot calendar.Interval) bool {
	inside := false
	for _, iv := range d.Open {
		if iv.Contains(slot) {
			inside = true
			break
		}
	}
	return inside && !Conflicts(slot, d.Busy, d.Buffer)
}

// Conflicts reports whether slot, padded by buffer on both edges, overlaps
// any of busy.
func Conflicts(slot calendar.Interval, busy []calendar.Interval, buffer time.Duration) bool {
	padded := slot.Extend(buffer, buffer)
	for _, b := range busy {
		if padded.Overlaps(b) {
			return true
		}
	}
	return false
}

// Evaluate runs rules over snapshot and subtracts busy time. It does no
// I/O.
func Evaluate(rules []Rule, snap Snapshot) (Day, error) {
	day := Day{
		Date:   snap.Date,
		Busy:   snap.Blocking,
		Buffer: snap.Buffer(),
	}

	var windows []calendar.Interval
	for _, r := range rules {
		d, err := r.Decide(snap)
		if err != nil {
			return Day{}, err
		}
		if d.Decided {
			windows = d.Windows
			day.DecidedBy = r.Name()
			break
		}
	}
	if len(windows) == 0 {
		return day, nil
	}

	cuts := make([]calendar.Interval, 0, len(snap.Blocking))
	for _, b := range snap.Blocking {
		cuts = append(cuts, b.Extend(0, day.Buffer))
	}
	open := calendar.SubtractAll(windows, cuts)
	day.Open = calendar.DropShorterThan(open, calendar.Granularity)
	return day, nil
}

// Check reports why slot cannot be booked on the day described by snap:
// ErrValidation when it falls outside working time, ErrSlotTaken when it
// runs into a blocking appointment or its buffer.
func Check(rules []Rule, snap Snapshot, slot calendar.Interval) error {
	if !slot.Valid() {
		return httperr.Validation("invalid_slot")
	}
	free := snap
	free.Blocking = nil
	base, err := Evaluate(rules, free)
	if err != nil {
		return err
	}
	inside := false
	for _, iv := range base.Open {
		if iv.Contains(slot) {
			inside = true
			break
		}
	}
	if !inside {
		return httperr.Validation("outside_availability")
	}
	if Conflicts(slot, snap.Blocking, snap.Buffer()) {
		return httperr.SlotTaken("slot_taken")
	}
	return nil
}

// Slots cuts the open intervals of day into back-to-back slots of d,
// keeping those that start at or after earliest and that day admits.
func Slots(day Day, d time.Duration, earliest time.Time) []calendar.Interval {
	var out []calendar.Interval
	for _, iv := range day.Open {
		for _, slot := range calendar.Slots(iv, d) {
			if slot.Start.Before(earliest) || !day.Admits(slot) {
				continue
			}
			out = append(out, slot)
		}
	}
	return out
}

type Resolver struct {
	store Store
	rules []Rule
}

func NewResolver(store Store, rules ...Rule) *Resolver {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Resolver{store: store, rules: rules}
}

// Resolve returns the open intervals of staff on date. date is truncated
// to its civil date in its own location.
func (r *Resolver) Resolve(
	ctx context.Context,
	staff *models.StaffMember,
	date time.Time,
) (Day, error) {
	snap, err := r.Load(ctx, staff, date)
	if err != nil {
		return Day{}, err
	}
	return Evaluate(r.rules, snap)
}

// Load reads the current state for staff on date.
func (r *Resolver) Load(
	ctx context.Context,
	staff *models.StaffMember,
	date time.Time,
) (Snapshot, error) {
	day := calendar.Midnight(date)
	snap := Snapshot{StaffID: staff.ID, Date: day}

	cfg, err := r.store.GetCalendarConfig(ctx, staff.ID)
	if err != nil {
		return snap, fmt.Errorf("load calendar config: %w", err)
	}
	snap.Config = cfg

	override, err := r.store.GetOverride(ctx, staff.ID, day)
	if err != nil {
		return snap, fmt.Errorf("load override: %w", err)
	}
	snap.Override = override

	holidays, err := r.store.ListHolidays(ctx, staff.BusinessID, staff.ID, day)
	if err != nil {
		return snap, fmt.Errorf("load holidays: %w", err)
	}
	snap.Holidays = holidays

	// neighbours within one buffer of either midnight still constrain
	// this day's slots
	from := day.Add(-snap.Buffer())
	to := day.AddDate(0, 0, 1).Add(snap.Buffer())
	apps, err := r.store.ListBlockingAppointments(ctx, staff.ID, from, to)
	if err != nil {
		return snap, fmt.Errorf("load appointments: %w", err)
	}
	for _, ap := range apps {
		snap.Blocking = append(snap.Blocking, calendar.Interval{Start: ap.StartAt, End: ap.EndAt})
	}
	calendar.Sort(snap.Blocking)

	return snap, nil
}
