package availability

import (
	"errors"

	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
)

// Decision is the outcome of a rule. A rule that does not decide leaves
// the day to the next rule in the chain.
type Decision struct {
	Decided bool
	Windows []calendar.Interval
}

func closed() Decision { return Decision{Decided: true} }

func open(windows ...calendar.Interval) Decision {
	return Decision{Decided: true, Windows: windows}
}

func undecided() Decision { return Decision{} }

// Rule contributes the base windows of a day. Rules run in precedence
// order; the first that decides wins.
type Rule interface {
	Name() string
	Decide(day Snapshot) (Decision, error)
}

// DefaultRules is the precedence chain: holiday, override, weekly template.
func DefaultRules() []Rule {
	return []Rule{HolidayRule{}, OverrideRule{}, WeeklyRule{}}
}

// HolidayRule closes the day when any business-wide holiday, or a holiday
// for this staff member, falls on it.
type HolidayRule struct{}

func (HolidayRule) Name() string { return "holiday" }

func (HolidayRule) Decide(day Snapshot) (Decision, error) {
	for i := range day.Holidays {
		h := &day.Holidays[i]
		if h.StaffID != nil && *h.StaffID != day.StaffID {
			continue
		}
		if h.Matches(day.Date) {
			return closed(), nil
		}
	}
	return undecided(), nil
}

// OverrideRule replaces the default window for the date. Override hours are
// authoritative: the lunch break is not applied to them.
type OverrideRule struct{}

func (OverrideRule) Name() string { return "override" }

func (OverrideRule) Decide(day Snapshot) (Decision, error) {
	o := day.Override
	if o == nil {
		return undecided(), nil
	}
	if o.Unavailable {
		return closed(), nil
	}
	start, end, err := ParseOverride(o)
	if err != nil {
		return Decision{}, err
	}
	return open(calendar.Interval{Start: start.On(day.Date), End: end.On(day.Date)}), nil
}

// WeeklyRule applies the calendar config: working days, default window and
// lunch break. It always decides.
type WeeklyRule struct{}

func (WeeklyRule) Name() string { return "weekly" }

func (WeeklyRule) Decide(day Snapshot) (Decision, error) {
	cfg := day.Config
	if cfg == nil || !cfg.WorkingDays.Has(day.Date.Weekday()) {
		return closed(), nil
	}
	w, err := ParseConfig(cfg)
	if err != nil {
		var be httperr.BusinessError
		if errors.As(err, &be) {
			return Decision{}, httperr.Validation("invalid_calendar_config:" + be.Code)
		}
		return Decision{}, err
	}

	base := calendar.Interval{Start: w.Start.On(day.Date), End: w.End.On(day.Date)}
	if !w.HasLunch {
		return open(base), nil
	}
	lunch := calendar.Interval{Start: w.LunchStart.On(day.Date), End: w.LunchEnd.On(day.Date)}
	return open(base.Subtract(lunch)...), nil
}
