package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type DoctorSearchRequest struct {
	Specialty string
	Wilaya    string
	City      string
	Query     string
	PageRequest
}

type UpdateDoctorSelfRequest struct {
	FullName            string           `json:"full_name" validate:"omitempty,min=2,max=255"`
	Bio                 *string          `json:"bio" validate:"omitempty"`
	ConsultationFee     *decimal.Decimal `json:"consultation_fee"`
	Wilaya              string           `json:"wilaya" validate:"omitempty,max=100"`
	City                string           `json:"city" validate:"omitempty,max=100"`
	Address             string           `json:"address" validate:"omitempty"`
	Phone               string           `json:"phone" validate:"omitempty,min=9,max=20"`
	IsAvailable         *bool            `json:"is_available"`
	SlotDurationMinutes *int             `json:"slot_duration_minutes" validate:"omitempty,min=10,max=120"`
}

type SetVerificationRequest struct {
	IsVerified *bool `json:"is_verified" validate:"required"`
}

// Response DTOs

type DoctorProfileResponse struct {
	LicenseNumber       string          `json:"license_number"`
	Specialty           string          `json:"specialty"`
	Bio                 string          `json:"bio,omitempty"`
	ConsultationFee     decimal.Decimal `json:"consultation_fee"`
	Wilaya              string          `json:"wilaya"`
	City                string          `json:"city,omitempty"`
	Address             string          `json:"address,omitempty"`
	Phone               string          `json:"phone,omitempty"`
	IsVerified          bool            `json:"is_verified"`
	IsAvailable         bool            `json:"is_available"`
	SlotDurationMinutes int             `json:"slot_duration_minutes"`
}

type DoctorResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	DoctorProfileResponse
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int64            `json:"total"`
}
