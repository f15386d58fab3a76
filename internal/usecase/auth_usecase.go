package usecase

import (
	"context"
	"errors"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/converter"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/middleware"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/scheduling"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/jwt"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrLicenseAlreadyExists = errors.New("license number already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserInactive         = errors.New("account is disabled")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUserNotFound         = errors.New("user not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrInvalidDateFormat    = errors.New("invalid date format, use YYYY-MM-DD")
	ErrNegativeFee          = errors.New("consultation fee cannot be negative")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	RegisterPharmacy(ctx context.Context, req *dto.RegisterPharmacyRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	userRepo            repository.UserRepository
	doctorProfileRepo   repository.DoctorProfileRepository
	pharmacyProfileRepo repository.PharmacyProfileRepository
	patientProfileRepo  repository.PatientProfileRepository
	auditService        service.AuditService
	jwtService          *jwt.JWTService
	tokens              service.TokenStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	pharmacyProfileRepo repository.PharmacyProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokens service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:                  db,
		log:                 log,
		userRepo:            userRepo,
		doctorProfileRepo:   doctorProfileRepo,
		pharmacyProfileRepo: pharmacyProfileRepo,
		patientProfileRepo:  patientProfileRepo,
		auditService:        auditService,
		jwtService:          jwtService,
		tokens:              tokens,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	var dob wallclock.Date
	if req.DateOfBirth != "" {
		parsed, err := wallclock.ParseDate(req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		dob = parsed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(tx, req.Email, req.Password, req.FullName, entity.RoleIDPatient)
	if err != nil {
		return nil, err
	}

	profile := &entity.PatientProfile{
		UserID:      user.ID,
		Phone:       req.Phone,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Wilaya:      req.Wilaya,
		Address:     req.Address,
	}
	if err := u.patientProfileRepo.Create(tx, profile); err != nil {
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	if err := u.commitRegistration(ctx, tx, user); err != nil {
		return nil, err
	}

	response := converter.UserToResponse(user)
	response.PatientProfile = converter.PatientProfileToProfileResponse(profile)
	return response, nil
}

func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	if req.ConsultationFee.IsNegative() {
		return nil, ErrNegativeFee
	}
	slotMinutes := req.SlotDurationMinutes
	if slotMinutes == 0 {
		slotMinutes = scheduling.DefaultSlotMinutes
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(tx, req.Email, req.Password, req.FullName, entity.RoleIDDoctor)
	if err != nil {
		return nil, err
	}

	// New doctors take bookings once an admin verifies them.
	profile := &entity.DoctorProfile{
		UserID:              user.ID,
		LicenseNumber:       req.LicenseNumber,
		Specialty:           req.Specialty,
		Bio:                 req.Bio,
		ConsultationFee:     req.ConsultationFee,
		Wilaya:              req.Wilaya,
		City:                req.City,
		Address:             req.Address,
		Phone:               req.Phone,
		IsVerified:          false,
		IsAvailable:         true,
		SlotDurationMinutes: slotMinutes,
	}
	if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}

	if err := u.commitRegistration(ctx, tx, user); err != nil {
		return nil, err
	}

	response := converter.UserToResponse(user)
	response.DoctorProfile = converter.DoctorProfileToResponse(profile)
	return response, nil
}

func (u *authUsecase) RegisterPharmacy(ctx context.Context, req *dto.RegisterPharmacyRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.createUser(tx, req.Email, req.Password, req.FullName, entity.RoleIDPharmacy)
	if err != nil {
		return nil, err
	}

	profile := &entity.PharmacyProfile{
		UserID:        user.ID,
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		Wilaya:        req.Wilaya,
		City:          req.City,
		Address:       req.Address,
		Phone:         req.Phone,
	}
	if err := u.pharmacyProfileRepo.Create(tx, profile); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to create pharmacy profile: %+v", err)
		return nil, err
	}

	if err := u.commitRegistration(ctx, tx, user); err != nil {
		return nil, err
	}

	response := converter.UserToResponse(user)
	response.PharmacyProfile = converter.PharmacyProfileToResponse(profile)
	return response, nil
}

func (u *authUsecase) createUser(tx *gorm.DB, email, password, fullName string, roleID int) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashedPassword),
		FullName: fullName,
		RoleID:   roleID,
		IsActive: true,
	}
	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) commitRegistration(ctx context.Context, tx *gorm.DB, user *entity.User) error {
	if err := u.auditService.LogCreate(ctx, tx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
		"email": user.Email,
		"role":  entity.RoleName(user.RoleID),
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the access token the request was made with and, when
// supplied, the matching refresh token.
func (u *authUsecase) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	accessTokenID, _ := middleware.GetTokenIDFromContext(ctx)

	if err := u.tokens.Delete(ctx, service.AccessTokenKind, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if req == nil || req.RefreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != userID {
		return ErrInvalidToken
	}
	if err := u.tokens.Delete(ctx, service.RefreshTokenKind, userID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete refresh token: %+v", err)
		return err
	}
	return nil
}

// RefreshToken rotates the pair: the presented refresh token is single use.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokens.Exists(ctx, service.RefreshTokenKind, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.tokens.Delete(ctx, service.RefreshTokenKind, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.RoleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokens.Save(ctx, service.AccessTokenKind, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := u.tokens.Save(ctx, service.RefreshTokenKind, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	response := converter.UserToResponse(user)
	if err := u.attachProfile(db, user.ID, user.RoleID, response); err != nil {
		u.log.Warnf("Failed to load profile for user %s: %+v", user.ID, err)
		return nil, err
	}
	return response, nil
}

func (u *authUsecase) attachProfile(db *gorm.DB, userID uuid.UUID, roleID int, response *dto.UserResponse) error {
	switch roleID {
	case entity.RoleIDDoctor:
		profile, err := u.doctorProfileRepo.FindByUserID(db, userID)
		if err != nil {
			return err
		}
		response.DoctorProfile = converter.DoctorProfileToResponse(profile)
	case entity.RoleIDPharmacy:
		profile, err := u.pharmacyProfileRepo.FindByUserID(db, userID)
		if err != nil {
			return err
		}
		response.PharmacyProfile = converter.PharmacyProfileToResponse(profile)
	case entity.RoleIDPatient:
		profile, err := u.patientProfileRepo.FindByUserID(db, userID)
		if err != nil {
			return err
		}
		response.PatientProfile = converter.PatientProfileToProfileResponse(profile)
	}
	return nil
}
