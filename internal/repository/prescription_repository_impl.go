package repository

import (
	"errors"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	domainRepo "github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type prescriptionRepository struct{}

func NewPrescriptionRepository() domainRepo.PrescriptionRepository {
	return &prescriptionRepository{}
}

func (r *prescriptionRepository) Create(db *gorm.DB, prescription *entity.Prescription) error {
	return db.Omit(clause.Associations).Create(prescription).Error
}

func (r *prescriptionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *prescriptionRepository) FindByCode(db *gorm.DB, code string) (*entity.Prescription, error) {
	return r.findOne(db.Where("code = ?", code))
}

func (r *prescriptionRepository) findOne(db *gorm.DB) (*entity.Prescription, error) {
	var prescription entity.Prescription
	err := db.Preload("Doctor").Preload("Patient").Preload("Pharmacy").First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := db.Preload("Doctor").Where("patient_id = ?", patientID).Order("issued_at DESC").Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := db.Preload("Patient").Where("doctor_id = ?", doctorID).Order("issued_at DESC").Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// MarkFilled claims an active, unexpired prescription for one pharmacy.
// Returns affected rows: 0 means another pharmacy won or it is no longer fillable.
func (r *prescriptionRepository) MarkFilled(db *gorm.DB, id, pharmacyID uuid.UUID, at time.Time) (int64, error) {
	result := db.Model(&entity.Prescription{}).
		Where("id = ? AND status = ? AND pharmacy_id IS NULL AND expires_at > ?", id, entity.PrescriptionStatusActive, at).
		Updates(map[string]interface{}{
			"status":      entity.PrescriptionStatusFilled,
			"pharmacy_id": pharmacyID,
			"filled_at":   at,
		})
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.PrescriptionStatus) (int64, error) {
	result := db.Model(&entity.Prescription{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) DeleteUnfilled(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ? AND pharmacy_id IS NULL AND status <> ?", id, entity.PrescriptionStatusFilled).
		Delete(&entity.Prescription{})
	return result.RowsAffected, result.Error
}

func (r *prescriptionRepository) ExpireDue(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&entity.Prescription{}).
		Where("status = ? AND expires_at <= ?", entity.PrescriptionStatusActive, now).
		Update("status", entity.PrescriptionStatusExpired)
	return result.RowsAffected, result.Error
}
