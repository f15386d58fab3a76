package repository

import (
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error)
	FindByProviderID(db *gorm.DB, providerID uuid.UUID, date *wallclock.Date) ([]entity.Booking, error)
	FindActiveByProviderAndDate(db *gorm.DB, providerID uuid.UUID, date wallclock.Date) ([]entity.Booking, error)
	FindActiveByPatientAndDate(db *gorm.DB, patientID uuid.UUID, date wallclock.Date) ([]entity.Booking, error)
	// UpdateStatus moves a booking only if it is still in from.
	// Returns affected rows: 1 = success, 0 = status changed underneath.
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.BookingStatus) (int64, error)
	Cancel(db *gorm.DB, id uuid.UUID, from entity.BookingStatus, by uuid.UUID, at time.Time, reason string) (int64, error)
}
