package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type MedicationItemRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Dosage       string `json:"dosage" validate:"required,max=100"`
	Frequency    string `json:"frequency" validate:"required,max=100"`
	DurationDays int    `json:"duration_days" validate:"required,min=1,max=365"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
	Instructions string `json:"instructions" validate:"omitempty,max=500"`
}

type IssuePrescriptionRequest struct {
	PatientID uuid.UUID               `json:"patient_id" validate:"required"`
	BookingID *uuid.UUID              `json:"booking_id" validate:"omitempty"`
	Diagnosis string                  `json:"diagnosis" validate:"omitempty,max=2000"`
	Notes     string                  `json:"notes" validate:"omitempty,max=2000"`
	Items     []MedicationItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

// Response DTOs

type MedicationItemResponse struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"duration_days"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

type PrescriptionResponse struct {
	ID         uuid.UUID                `json:"id"`
	Code       string                   `json:"code"`
	DoctorID   uuid.UUID                `json:"doctor_id"`
	Doctor     *UserSummaryResponse     `json:"doctor,omitempty"`
	PatientID  uuid.UUID                `json:"patient_id"`
	Patient    *UserSummaryResponse     `json:"patient,omitempty"`
	BookingID  *uuid.UUID               `json:"booking_id,omitempty"`
	PharmacyID *uuid.UUID               `json:"pharmacy_id,omitempty"`
	Pharmacy   *UserSummaryResponse     `json:"pharmacy,omitempty"`
	Diagnosis  string                   `json:"diagnosis,omitempty"`
	Notes      string                   `json:"notes,omitempty"`
	Items      []MedicationItemResponse `json:"items"`
	Status     string                   `json:"status"`
	IssuedAt   time.Time                `json:"issued_at"`
	ExpiresAt  time.Time                `json:"expires_at"`
	FilledAt   *time.Time               `json:"filled_at,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}
