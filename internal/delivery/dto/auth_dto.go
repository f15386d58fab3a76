package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID              uuid.UUID                `json:"id"`
	Email           string                   `json:"email"`
	FullName        string                   `json:"full_name"`
	Role            string                   `json:"role"`
	IsActive        bool                     `json:"is_active"`
	DoctorProfile   *DoctorProfileResponse   `json:"doctor_profile,omitempty"`
	PharmacyProfile *PharmacyProfileResponse `json:"pharmacy_profile,omitempty"`
	PatientProfile  *PatientProfileResponse  `json:"patient_profile,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// UserSummaryResponse names the other party on a booking or prescription.
type UserSummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// Role-specific registration requests

type RegisterPatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required,min=2,max=255"`
	Phone       string `json:"phone" validate:"omitempty,min=9,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,date"`
	Gender      string `json:"gender" validate:"required,oneof=M F"`
	Wilaya      string `json:"wilaya" validate:"omitempty,max=100"`
	Address     string `json:"address" validate:"omitempty"`
}

type RegisterDoctorRequest struct {
	Email               string          `json:"email" validate:"required,email"`
	Password            string          `json:"password" validate:"required,min=8"`
	FullName            string          `json:"full_name" validate:"required,min=2,max=255"`
	LicenseNumber       string          `json:"license_number" validate:"required,max=50"`
	Specialty           string          `json:"specialty" validate:"required,max=100"`
	Bio                 string          `json:"bio" validate:"omitempty"`
	ConsultationFee     decimal.Decimal `json:"consultation_fee"`
	Wilaya              string          `json:"wilaya" validate:"required,max=100"`
	City                string          `json:"city" validate:"omitempty,max=100"`
	Address             string          `json:"address" validate:"omitempty"`
	Phone               string          `json:"phone" validate:"omitempty,min=9,max=20"`
	SlotDurationMinutes int             `json:"slot_duration_minutes" validate:"omitempty,min=10,max=120"`
}

type RegisterPharmacyRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	FullName      string `json:"full_name" validate:"required,min=2,max=255"`
	Name          string `json:"name" validate:"required,max=255"`
	LicenseNumber string `json:"license_number" validate:"required,max=50"`
	Wilaya        string `json:"wilaya" validate:"required,max=100"`
	City          string `json:"city" validate:"omitempty,max=100"`
	Address       string `json:"address" validate:"omitempty"`
	Phone         string `json:"phone" validate:"omitempty,min=9,max=20"`
}
