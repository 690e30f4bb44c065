package models

import "time"

// JobType is a bookable service. DurationMinutes is the authoritative
// default length of an appointment for it.
type JobType struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `json:"business_id"`

	Name            string   `gorm:"size:100;not null" json:"name"`
	Description     string   `gorm:"size:255" json:"description"`
	DurationMinutes int      `json:"duration_minutes"`
	DefaultPrice    *float64 `json:"default_price,omitempty"`
	Active          bool     `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
