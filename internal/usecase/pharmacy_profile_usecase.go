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
	ErrPharmacyNotFound = errors.New("pharmacy not found")
)

type PharmacyProfileUsecase interface {
	SearchPharmacies(ctx context.Context, req *dto.PharmacySearchRequest) (*dto.PharmacyListResponse, error)
	GetPharmacy(ctx context.Context, pharmacyID uuid.UUID) (*dto.PharmacyResponse, error)
	UpdateSelfProfile(ctx context.Context, req *dto.UpdatePharmacySelfRequest) (*dto.PharmacyResponse, error)
	SetVerification(ctx context.Context, pharmacyID uuid.UUID, req *dto.SetVerificationRequest) (*dto.PharmacyResponse, error)
}

type pharmacyProfileUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	pharmacyProfileRepo repository.PharmacyProfileRepository
	auditService        service.AuditService
}

func NewPharmacyProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	pharmacyProfileRepo repository.PharmacyProfileRepository,
	auditService service.AuditService,
) PharmacyProfileUsecase {
	return &pharmacyProfileUsecase{
		db:                  db,
		log:                 log,
		pharmacyProfileRepo: pharmacyProfileRepo,
		auditService:        auditService,
	}
}

func (u *pharmacyProfileUsecase) SearchPharmacies(ctx context.Context, req *dto.PharmacySearchRequest) (*dto.PharmacyListResponse, error) {
	page := req.PageRequest.Normalize()
	pharmacies, total, err := u.pharmacyProfileRepo.Search(u.db.WithContext(ctx), repository.PharmacyFilter{
		Wilaya:       req.Wilaya,
		City:         req.City,
		Query:        req.Query,
		OnDutyOnly:   req.OnDutyOnly,
		VerifiedOnly: true,
		Offset:       page.Offset(),
		Limit:        page.Limit,
	})
	if err != nil {
		u.log.Warnf("Failed to search pharmacies: %+v", err)
		return nil, err
	}

	return &dto.PharmacyListResponse{
		Pharmacies: converter.PharmaciesToResponses(pharmacies),
		Total:      total,
	}, nil
}

func (u *pharmacyProfileUsecase) GetPharmacy(ctx context.Context, pharmacyID uuid.UUID) (*dto.PharmacyResponse, error) {
	profile, err := u.pharmacyProfileRepo.FindByUserID(u.db.WithContext(ctx), pharmacyID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacy %s: %+v", pharmacyID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPharmacyNotFound
	}
	return converter.PharmacyToResponse(profile), nil
}

func (u *pharmacyProfileUsecase) UpdateSelfProfile(ctx context.Context, req *dto.UpdatePharmacySelfRequest) (*dto.PharmacyResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.pharmacyProfileRepo.FindByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacy profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPharmacyNotFound
	}

	oldValue := converter.PharmacyToResponse(profile)

	if req.Name != "" {
		profile.Name = req.Name
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
	if req.IsOnDuty != nil {
		profile.IsOnDuty = *req.IsOnDuty
	}

	if err := u.pharmacyProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update pharmacy profile: %+v", err)
		return nil, err
	}

	newValue := converter.PharmacyToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionProfileUpdate, "pharmacy_profile", userID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *pharmacyProfileUsecase) SetVerification(ctx context.Context, pharmacyID uuid.UUID, req *dto.SetVerificationRequest) (*dto.PharmacyResponse, error) {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.pharmacyProfileRepo.FindByUserID(tx, pharmacyID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacy %s: %+v", pharmacyID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPharmacyNotFound
	}

	wasVerified := profile.IsVerified
	profile.IsVerified = *req.IsVerified
	if err := u.pharmacyProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update pharmacy verification: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &adminID, entity.AuditActionProviderVerify, "pharmacy_profile", pharmacyID.String(),
		map[string]bool{"is_verified": wasVerified},
		map[string]bool{"is_verified": profile.IsVerified}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PharmacyToResponse(profile), nil
}
