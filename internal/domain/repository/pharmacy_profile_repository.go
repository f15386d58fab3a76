package repository

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PharmacyFilter struct {
	Wilaya       string
	City         string
	Query        string
	OnDutyOnly   bool
	VerifiedOnly bool
	Offset       int
	Limit        int
}

type PharmacyProfileRepository interface {
	Create(db *gorm.DB, profile *entity.PharmacyProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PharmacyProfile, error)
	Search(db *gorm.DB, filter PharmacyFilter) ([]entity.PharmacyProfile, int64, error)
	Update(db *gorm.DB, profile *entity.PharmacyProfile) error
}
