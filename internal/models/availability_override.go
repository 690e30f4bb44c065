package models

import "time"

// AvailabilityOverride replaces the default window of one staff member
// for one date. Either Unavailable is set or StartTime/EndTime are.
type AvailabilityOverride struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	StaffID uint      `gorm:"uniqueIndex:idx_override_staff_date;not null" json:"staff_id"`
	Date    time.Time `gorm:"type:date;uniqueIndex:idx_override_staff_date;not null" json:"date"`

	Unavailable bool   `gorm:"column:is_unavailable;not null;default:false" json:"is_unavailable"`
	StartTime   string `gorm:"size:5" json:"start_time,omitempty"`
	EndTime     string `gorm:"size:5" json:"end_time,omitempty"`
	Reason      string `gorm:"size:255" json:"reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
