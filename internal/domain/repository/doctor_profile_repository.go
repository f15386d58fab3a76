package repository

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoctorFilter narrows the public doctor directory.
type DoctorFilter struct {
	Specialty    string
	Wilaya       string
	City         string
	Query        string
	VerifiedOnly bool
	Offset       int
	Limit        int
}

type DoctorProfileRepository interface {
	Create(db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	LockByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	Search(db *gorm.DB, filter DoctorFilter) ([]entity.DoctorProfile, int64, error)
	Update(db *gorm.DB, profile *entity.DoctorProfile) error
}
