package usecase

import (
	"context"
	"errors"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/converter"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/middleware"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
)

type DoctorProfileUsecase interface {
	SearchDoctors(ctx context.Context, req *dto.DoctorSearchRequest) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateSelfProfile(ctx context.Context, req *dto.UpdateDoctorSelfRequest) (*dto.DoctorResponse, error)
	SetVerification(ctx context.Context, doctorID uuid.UUID, req *dto.SetVerificationRequest) (*dto.DoctorResponse, error)
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

// SearchDoctors lists verified, active doctors matching the filters.
func (u *doctorProfileUsecase) SearchDoctors(ctx context.Context, req *dto.DoctorSearchRequest) (*dto.DoctorListResponse, error) {
	page := req.PageRequest.Normalize()
	doctors, total, err := u.doctorProfileRepo.Search(u.db.WithContext(ctx), repository.DoctorFilter{
		Specialty:    req.Specialty,
		Wilaya:       req.Wilaya,
		City:         req.City,
		Query:        req.Query,
		VerifiedOnly: true,
		Offset:       page.Offset(),
		Limit:        page.Limit,
	})
	if err != nil {
		u.log.Warnf("Failed to search doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   total,
	}, nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(profile), nil
}

// UpdateSelfProfile updates the doctor's own profile.
//
// License number, specialty and verification are not editable here.
func (u *doctorProfileUsecase) UpdateSelfProfile(ctx context.Context, req *dto.UpdateDoctorSelfRequest) (*dto.DoctorResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if req.ConsultationFee != nil && req.ConsultationFee.IsNegative() {
		return nil, ErrNegativeFee
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorToResponse(profile)

	if req.FullName != "" {
		profile.User.FullName = req.FullName
		if err := u.userRepo.Update(tx, &profile.User); err != nil {
			u.log.Warnf("Failed to update user: %+v", err)
			return nil, err
		}
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = *req.ConsultationFee
	}
	if req.Wilaya != "" {
		profile.Wilaya = req.Wilaya
	}
	if req.City != "" {
		profile.City = req.City
	}
	if req.Address != "" {
		profile.Address = req.Address
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if req.IsAvailable != nil {
		profile.IsAvailable = *req.IsAvailable
	}
	if req.SlotDurationMinutes != nil {
		profile.SlotDurationMinutes = *req.SlotDurationMinutes
	}

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionProfileUpdate, "doctor_profile", userID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// SetVerification is the admin switch that lets a doctor take bookings.
func (u *doctorProfileUsecase) SetVerification(ctx context.Context, doctorID uuid.UUID, req *dto.SetVerificationRequest) (*dto.DoctorResponse, error) {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	wasVerified := profile.IsVerified
	profile.IsVerified = *req.IsVerified
	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor verification: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &adminID, entity.AuditActionProviderVerify, "doctor_profile", doctorID.String(),
		map[string]bool{"is_verified": wasVerified},
		map[string]bool{"is_verified": profile.IsVerified}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(profile), nil
}
