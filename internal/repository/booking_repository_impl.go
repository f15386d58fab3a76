package repository

import (
	"errors"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	domainRepo "github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	return db.Omit(clause.Associations).Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Preload("Provider").Preload("Patient").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Preload("Provider").
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByProviderID(db *gorm.DB, providerID uuid.UUID, date *wallclock.Date) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := db.Preload("Patient").Where("provider_id = ?", providerID)
	if date != nil {
		query = query.Where("appointment_date = ?", *date)
	}
	err := query.Order("appointment_date ASC, appointment_time ASC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindActiveByProviderAndDate returns every booking that still holds a slot
// with the provider on that day.
func (r *bookingRepository) FindActiveByProviderAndDate(db *gorm.DB, providerID uuid.UUID, date wallclock.Date) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("provider_id = ? AND appointment_date = ? AND status <> ?", providerID, date, entity.BookingStatusCancelled).
		Order("appointment_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindActiveByPatientAndDate(db *gorm.DB, patientID uuid.UUID, date wallclock.Date) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("patient_id = ? AND appointment_date = ? AND status <> ?", patientID, date, entity.BookingStatusCancelled).
		Order("appointment_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.BookingStatus) (int64, error) {
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// Cancel atomically cancels a booking ONLY if it is still in from.
// Returns affected rows: 1 = success, 0 = lost a race with another transition.
func (r *bookingRepository) Cancel(db *gorm.DB, id uuid.UUID, from entity.BookingStatus, by uuid.UUID, at time.Time, reason string) (int64, error) {
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":        entity.BookingStatusCancelled,
			"cancelled_by":  by,
			"cancelled_at":  at,
			"cancel_reason": reason,
		})
	return result.RowsAffected, result.Error
}
