package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	BusinessID uint `gorm:"not null" json:"business_id"`
	StaffID    uint `gorm:"not null;index" json:"staff_id"`
	JobTypeID  uint `gorm:"not null" json:"job_type_id"`
	CustomerID uint `gorm:"not null;index" json:"customer_id"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	JobType  *JobType  `gorm:"foreignKey:JobTypeID" json:"job_type,omitempty"`

	StartAt time.Time `gorm:"not null" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`
	// BlockedUntil is EndAt plus the staff buffer at commit time.
	BlockedUntil time.Time `gorm:"not null" json:"-"`

	Status  string `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	Channel string `gorm:"size:20" json:"channel,omitempty"`
	Notes   string `gorm:"size:255" json:"notes,omitempty"`

	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	RescheduledToID *string    `gorm:"type:uuid" json:"rescheduled_to_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
