package models

import (
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
)

// CalendarConfig holds the weekly template of a staff member.
// Times are local to the business timezone, formatted HH:MM.
type CalendarConfig struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"uniqueIndex;not null" json:"staff_id"`

	DefaultStartTime string              `gorm:"size:5;not null" json:"default_start_time"`
	DefaultEndTime   string              `gorm:"size:5;not null" json:"default_end_time"`
	WorkingDays      calendar.WeekdaySet `gorm:"type:smallint;not null" json:"working_days"`
	LunchBreakStart  string              `gorm:"size:5" json:"lunch_break_start"`
	LunchBreakEnd    string              `gorm:"size:5" json:"lunch_break_end"`
	BufferMinutes    int                 `gorm:"not null;default:0" json:"buffer_minutes"`
	MaxAdvanceDays   int                 `gorm:"not null" json:"max_advance_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *CalendarConfig) HasLunchBreak() bool {
	return c.LunchBreakStart != "" && c.LunchBreakEnd != ""
}

func (c *CalendarConfig) Buffer() time.Duration {
	return time.Duration(c.BufferMinutes) * time.Minute
}
