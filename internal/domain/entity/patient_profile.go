package entity

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"
	"github.com/google/uuid"
)

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Phone       string         `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	DateOfBirth wallclock.Date `gorm:"type:date" json:"date_of_birth"`
	Gender      string         `gorm:"type:char(1);not null" json:"gender"`
	Wilaya      string         `gorm:"type:varchar(100)" json:"wilaya,omitempty"`
	Address     string         `gorm:"type:text" json:"address,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
