package repository

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkingHoursRepository interface {
	FindByProvider(db *gorm.DB, providerID uuid.UUID) ([]entity.WorkingHours, error)
	FindByProviderAndWeekday(db *gorm.DB, providerID uuid.UUID, weekday entity.Weekday) (*entity.WorkingHours, error)
	// ReplaceForProvider swaps the whole weekly table in one statement pair.
	ReplaceForProvider(db *gorm.DB, providerID uuid.UUID, hours []entity.WorkingHours) error
}
