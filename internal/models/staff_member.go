package models

import "time"

const (
	RoleOwner = "owner"
	RoleStaff = "staff"
	RoleAgent = "agent"
)

type StaffMember struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	BusinessID uint     `json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'staff'" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	JobTypes []JobType `gorm:"many2many:staff_job_types;" json:"job_types,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *StaffMember) CanPerform(jobTypeID uint) bool {
	for _, jt := range s.JobTypes {
		if jt.ID == jobTypeID {
			return true
		}
	}
	return false
}
