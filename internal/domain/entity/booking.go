package entity

import (
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no-show"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal is true for statuses with no outgoing transition.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// Occupies reports whether a booking in this status holds its slot.
func (s BookingStatus) Occupies() bool {
	return s != BookingStatusCancelled
}

// BookingType is the kind of consultation requested.
type BookingType string

const (
	BookingTypeConsultation     BookingType = "consultation"
	BookingTypeFollowUp         BookingType = "follow_up"
	BookingTypeEmergency        BookingType = "emergency"
	BookingTypeTeleconsultation BookingType = "teleconsultation"
)

// Booking is one reservation in the ledger: a patient holding one slot of a
// provider on a calendar date.
type Booking struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	BookingCode     string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"booking_code"`
	ProviderID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"provider_id"`
	PatientID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentDate wallclock.Date      `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime wallclock.TimeOfDay `gorm:"type:varchar(5);not null" json:"appointment_time"`
	DurationMinutes int                 `gorm:"not null" json:"duration_minutes"`
	Type            BookingType         `gorm:"type:varchar(20);not null" json:"type"`
	Status          BookingStatus       `gorm:"type:varchar(20);not null;index" json:"status"`
	Reason          string              `gorm:"type:text" json:"reason,omitempty"`
	Notes           string              `gorm:"type:text" json:"notes,omitempty"`
	CancelledBy     *uuid.UUID          `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason    string              `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Provider User `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Patient  User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// StartsAt places the booking on the timeline of loc.
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.AppointmentDate.At(b.AppointmentTime, loc)
}

// IsPending checks if booking is in pending status
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// InvolvedParty reports whether userID is the patient or the provider.
func (b *Booking) InvolvedParty(userID uuid.UUID) bool {
	return b.PatientID == userID || b.ProviderID == userID
}
