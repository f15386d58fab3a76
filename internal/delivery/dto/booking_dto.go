package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	ProviderID uuid.UUID `json:"provider_id" validate:"required"`
	Date       string    `json:"date" validate:"required,date"`
	Time       string    `json:"time" validate:"required,hhmm"`
	Type       string    `json:"type" validate:"omitempty,oneof=consultation follow_up emergency teleconsultation"`
	Reason     string    `json:"reason" validate:"omitempty,max=1000"`
	Notes      string    `json:"notes" validate:"omitempty,max=2000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// Response DTOs

type BookingResponse struct {
	ID              uuid.UUID            `json:"id"`
	BookingCode     string               `json:"booking_code"`
	ProviderID      uuid.UUID            `json:"provider_id"`
	Provider        *UserSummaryResponse `json:"provider,omitempty"`
	PatientID       uuid.UUID            `json:"patient_id"`
	Patient         *UserSummaryResponse `json:"patient,omitempty"`
	Date            string               `json:"date"`
	Time            string               `json:"time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Type            string               `json:"type"`
	Status          string               `json:"status"`
	Reason          string               `json:"reason,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	CancelledBy     *uuid.UUID           `json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason    string               `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}
