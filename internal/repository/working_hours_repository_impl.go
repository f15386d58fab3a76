package repository

import (
	"errors"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	domainRepo "github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type workingHoursRepository struct{}

func NewWorkingHoursRepository() domainRepo.WorkingHoursRepository {
	return &workingHoursRepository{}
}

func (r *workingHoursRepository) FindByProvider(db *gorm.DB, providerID uuid.UUID) ([]entity.WorkingHours, error) {
	var hours []entity.WorkingHours
	err := db.Where("provider_id = ?", providerID).Find(&hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *workingHoursRepository) FindByProviderAndWeekday(db *gorm.DB, providerID uuid.UUID, weekday entity.Weekday) (*entity.WorkingHours, error) {
	var hours entity.WorkingHours
	err := db.Where("provider_id = ? AND weekday = ?", providerID, weekday).First(&hours).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hours, nil
}

func (r *workingHoursRepository) ReplaceForProvider(db *gorm.DB, providerID uuid.UUID, hours []entity.WorkingHours) error {
	if err := db.Where("provider_id = ?", providerID).Delete(&entity.WorkingHours{}).Error; err != nil {
		return err
	}
	if len(hours) == 0 {
		return nil
	}
	for i := range hours {
		hours[i].ID = 0
		hours[i].ProviderID = providerID
	}
	return db.Create(&hours).Error
}
