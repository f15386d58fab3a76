package entity

import "github.com/google/uuid"

// PharmacyProfile represents pharmacy-specific profile data
type PharmacyProfile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name          string    `gorm:"type:varchar(255);not null;index" json:"name"`
	LicenseNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Wilaya        string    `gorm:"type:varchar(100);index" json:"wilaya"`
	City          string    `gorm:"type:varchar(100);index" json:"city"`
	Address       string    `gorm:"type:text" json:"address,omitempty"`
	Phone         string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsVerified    bool      `gorm:"not null;default:false;index" json:"is_verified"`
	IsOnDuty      bool      `gorm:"not null;default:false" json:"is_on_duty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PharmacyProfile) TableName() string {
	return "pharmacy_profiles"
}
