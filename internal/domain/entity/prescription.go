package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PrescriptionStatus represents the status of a prescription
type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "active"
	PrescriptionStatusFilled    PrescriptionStatus = "filled"
	PrescriptionStatusExpired   PrescriptionStatus = "expired"
	PrescriptionStatusCancelled PrescriptionStatus = "cancelled"
)

// MedicationItem is one line of a prescription.
type MedicationItem struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"duration_days"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is issued by a doctor to a patient and filled by exactly one pharmacy.
type Prescription struct {
	ID         uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string                              `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DoctorID   uuid.UUID                           `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID  uuid.UUID                           `gorm:"type:uuid;not null;index" json:"patient_id"`
	BookingID  *uuid.UUID                          `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	PharmacyID *uuid.UUID                          `gorm:"type:uuid;index" json:"pharmacy_id,omitempty"`
	Diagnosis  string                              `gorm:"type:text" json:"diagnosis,omitempty"`
	Notes      string                              `gorm:"type:text" json:"notes,omitempty"`
	Items      datatypes.JSONSlice[MedicationItem] `gorm:"not null" json:"items"`
	Status     PrescriptionStatus                  `gorm:"type:varchar(20);not null;index" json:"status"`
	IssuedAt   time.Time                           `gorm:"not null" json:"issued_at"`
	ExpiresAt  time.Time                           `gorm:"not null;index" json:"expires_at"`
	FilledAt   *time.Time                          `json:"filled_at,omitempty"`
	CreatedAt  time.Time                           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time                           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor   User  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient  User  `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Pharmacy *User `gorm:"foreignKey:PharmacyID" json:"pharmacy,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Prescription) IsExpiredAt(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Unfilled is true while no pharmacy has dispensed it.
func (p *Prescription) Unfilled() bool {
	return p.PharmacyID == nil && p.Status != PrescriptionStatusFilled
}
