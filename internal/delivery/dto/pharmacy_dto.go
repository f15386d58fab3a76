package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type PharmacySearchRequest struct {
	Wilaya     string
	City       string
	Query      string
	OnDutyOnly bool
	PageRequest
}

type UpdatePharmacySelfRequest struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Wilaya   string `json:"wilaya" validate:"omitempty,max=100"`
	City     string `json:"city" validate:"omitempty,max=100"`
	Address  string `json:"address" validate:"omitempty"`
	Phone    string `json:"phone" validate:"omitempty,min=9,max=20"`
	IsOnDuty *bool  `json:"is_on_duty"`
}

// Response DTOs

type PharmacyProfileResponse struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Wilaya        string `json:"wilaya"`
	City          string `json:"city,omitempty"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	IsVerified    bool   `json:"is_verified"`
	IsOnDuty      bool   `json:"is_on_duty"`
}

type PharmacyResponse struct {
	ID uuid.UUID `json:"id"`
	PharmacyProfileResponse
}

type PharmacyListResponse struct {
	Pharmacies []PharmacyResponse `json:"pharmacies"`
	Total      int64              `json:"total"`
}
