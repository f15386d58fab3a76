package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	LicenseNumber       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialty           string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Bio                 string          `gorm:"type:text" json:"bio,omitempty"`
	ConsultationFee     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"consultation_fee"`
	Wilaya              string          `gorm:"type:varchar(100);index" json:"wilaya"`
	City                string          `gorm:"type:varchar(100);index" json:"city"`
	Address             string          `gorm:"type:text" json:"address,omitempty"`
	Phone               string          `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsVerified          bool            `gorm:"not null;default:false;index" json:"is_verified"`
	IsAvailable         bool            `gorm:"not null" json:"is_available"`
	SlotDurationMinutes int             `gorm:"not null;default:30" json:"slot_duration_minutes"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// Bookable reports whether patients may book this doctor at all.
func (d *DoctorProfile) Bookable() bool {
	return d.IsVerified && d.IsAvailable
}
