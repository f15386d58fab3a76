package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// WorkingHoursRequest is one day of a weekly schedule. Open days need both times.
type WorkingHoursRequest struct {
	Weekday   string `json:"weekday" validate:"required,weekday"`
	IsOpen    bool   `json:"is_open"`
	StartTime string `json:"start_time" validate:"required_if=IsOpen true,omitempty,hhmm"`
	EndTime   string `json:"end_time" validate:"required_if=IsOpen true,omitempty,hhmm"`
}

// SetScheduleRequest replaces the whole week. Days not listed become closed.
type SetScheduleRequest struct {
	Days []WorkingHoursRequest `json:"days" validate:"required,max=7,dive"`
}

// Response DTOs

type WorkingHoursResponse struct {
	Weekday   string `json:"weekday"`
	IsOpen    bool   `json:"is_open"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

type ScheduleResponse struct {
	ProviderID uuid.UUID              `json:"provider_id"`
	Days       []WorkingHoursResponse `json:"days"`
}

type AvailabilityResponse struct {
	ProviderID          uuid.UUID `json:"provider_id"`
	Date                string    `json:"date"`
	Weekday             string    `json:"weekday"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	Slots               []string  `json:"slots"`
}
