package repository

import (
	"errors"
	"strings"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	domainRepo "github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pharmacyProfileRepository struct{}

func NewPharmacyProfileRepository() domainRepo.PharmacyProfileRepository {
	return &pharmacyProfileRepository{}
}

func (r *pharmacyProfileRepository) Create(db *gorm.DB, profile *entity.PharmacyProfile) error {
	return db.Omit(clause.Associations).Create(profile).Error
}

func (r *pharmacyProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PharmacyProfile, error) {
	var profile entity.PharmacyProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *pharmacyProfileRepository) Search(db *gorm.DB, filter domainRepo.PharmacyFilter) ([]entity.PharmacyProfile, int64, error) {
	query := db.Model(&entity.PharmacyProfile{})
	if filter.VerifiedOnly {
		query = query.Where("is_verified = ?", true)
	}
	if filter.OnDutyOnly {
		query = query.Where("is_on_duty = ?", true)
	}
	if filter.Wilaya != "" {
		query = query.Where("LOWER(wilaya) = ?", strings.ToLower(filter.Wilaya))
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(filter.City))
	}
	if filter.Query != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []entity.PharmacyProfile
	err := query.Preload("User").Order("name ASC").Offset(filter.Offset).Limit(filter.Limit).Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *pharmacyProfileRepository) Update(db *gorm.DB, profile *entity.PharmacyProfile) error {
	return db.Omit(clause.Associations).Save(profile).Error
}
