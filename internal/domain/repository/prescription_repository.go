package repository

import (
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error)
	FindByCode(db *gorm.DB, code string) (*entity.Prescription, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Prescription, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Prescription, error)
	MarkFilled(db *gorm.DB, id, pharmacyID uuid.UUID, at time.Time) (int64, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.PrescriptionStatus) (int64, error)
	DeleteUnfilled(db *gorm.DB, id uuid.UUID) (int64, error)
	ExpireDue(db *gorm.DB, now time.Time) (int64, error)
}
