package models

import "time"

// Holiday closes a date for the whole business, or for a single staff
// member when StaffID is set. RecurringYearly matches on month and day.
type Holiday struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	BusinessID uint  `gorm:"index;not null" json:"business_id"`
	StaffID    *uint `gorm:"index" json:"staff_id,omitempty"`

	Date            time.Time `gorm:"type:date;not null" json:"date"`
	Name            string    `gorm:"size:100" json:"name"`
	RecurringYearly bool      `gorm:"not null;default:false" json:"recurring_yearly"`

	CreatedAt time.Time `json:"created_at"`
}

// Matches reports whether the holiday falls on the given civil date.
func (h *Holiday) Matches(date time.Time) bool {
	if h.RecurringYearly {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Year() == date.Year() &&
		h.Date.Month() == date.Month() &&
		h.Date.Day() == date.Day()
}
