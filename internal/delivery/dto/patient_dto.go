package dto

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfileResponse represents patient profile data in responses
type PatientProfileResponse struct {
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender"`
	Wilaya      string `json:"wilaya,omitempty"`
	Address     string `json:"address,omitempty"`
}

// PatientResponse represents a patient user with profile data
type PatientResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	PatientProfileResponse
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatientUpdateSelfRequest carries the fields a patient may change.
// Gender and date of birth are fixed at registration.
type PatientUpdateSelfRequest struct {
	FullName    string `json:"full_name" validate:"omitempty,min=2,max=255"`
	OldPassword string `json:"old_password" validate:"required_with=Password"`
	Password    string `json:"password" validate:"omitempty,min=8"`
	Phone       string `json:"phone" validate:"omitempty,min=9,max=20"`
	Wilaya      string `json:"wilaya" validate:"omitempty,max=100"`
	Address     string `json:"address" validate:"omitempty"`
}
