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

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit(clause.Associations).Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// LockByUserID serializes bookings against one doctor for the rest of the transaction.
func (r *doctorProfileRepository) LockByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) Search(db *gorm.DB, filter domainRepo.DoctorFilter) ([]entity.DoctorProfile, int64, error) {
	query := db.Model(&entity.DoctorProfile{}).
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("users.is_active = ?", true)

	if filter.VerifiedOnly {
		query = query.Where("doctor_profiles.is_verified = ?", true)
	}
	if filter.Specialty != "" {
		query = query.Where("LOWER(doctor_profiles.specialty) = ?", strings.ToLower(filter.Specialty))
	}
	if filter.Wilaya != "" {
		query = query.Where("LOWER(doctor_profiles.wilaya) = ?", strings.ToLower(filter.Wilaya))
	}
	if filter.City != "" {
		query = query.Where("LOWER(doctor_profiles.city) = ?", strings.ToLower(filter.City))
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(users.full_name) LIKE ? OR LOWER(doctor_profiles.specialty) LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []entity.DoctorProfile
	err := query.Preload("User").
		Order("users.full_name ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *doctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit(clause.Associations).Save(profile).Error
}
