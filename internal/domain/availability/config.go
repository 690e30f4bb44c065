package availability

import (
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// Window is the parsed default day of a CalendarConfig.
type Window struct {
	Start      calendar.ClockTime
	End        calendar.ClockTime
	LunchStart calendar.ClockTime
	LunchEnd   calendar.ClockTime
	HasLunch   bool
}

// ParseConfig validates cfg and returns its default window.
func ParseConfig(cfg *models.CalendarConfig) (Window, error) {
	var w Window

	start, err := calendar.ParseClockTime(cfg.DefaultStartTime)
	if err != nil {
		return w, httperr.Validation("invalid_default_start_time")
	}
	end, err := calendar.ParseClockTime(cfg.DefaultEndTime)
	if err != nil {
		return w, httperr.Validation("invalid_default_end_time")
	}
	if start >= end {
		return w, httperr.Validation("default_window_inverted")
	}
	w.Start, w.End = start, end

	if cfg.LunchBreakStart != "" || cfg.LunchBreakEnd != "" {
		if !cfg.HasLunchBreak() {
			return w, httperr.Validation("incomplete_lunch_break")
		}
		ls, err := calendar.ParseClockTime(cfg.LunchBreakStart)
		if err != nil {
			return w, httperr.Validation("invalid_lunch_break_start")
		}
		le, err := calendar.ParseClockTime(cfg.LunchBreakEnd)
		if err != nil {
			return w, httperr.Validation("invalid_lunch_break_end")
		}
		if ls >= le || ls < start || le > end {
			return w, httperr.Validation("lunch_break_outside_window")
		}
		w.LunchStart, w.LunchEnd, w.HasLunch = ls, le, true
	}

	if !cfg.WorkingDays.Valid() {
		return w, httperr.Validation("invalid_working_days")
	}
	if cfg.BufferMinutes < 0 {
		return w, httperr.Validation("negative_buffer")
	}
	if cfg.MaxAdvanceDays < 0 {
		return w, httperr.Validation("negative_max_advance_days")
	}
	return w, nil
}

// ParseOverride validates the explicit window of an available override.
func ParseOverride(o *models.AvailabilityOverride) (calendar.ClockTime, calendar.ClockTime, error) {
	start, err := calendar.ParseClockTime(o.StartTime)
	if err != nil {
		return 0, 0, httperr.InvalidOverride("invalid_override_start_time")
	}
	end, err := calendar.ParseClockTime(o.EndTime)
	if err != nil {
		return 0, 0, httperr.InvalidOverride("invalid_override_end_time")
	}
	if start >= end {
		return 0, 0, httperr.InvalidOverride("override_window_inverted")
	}
	return start, end, nil
}
