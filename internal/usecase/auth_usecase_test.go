package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/config"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/middleware"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/jwt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	db      *gorm.DB
	usecase AuthUsecase
	tokens  *memoryTokenStore
	jwt     *jwt.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := newTestDB(t)
	tokens := newMemoryTokenStore()
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	uc := NewAuthUsecase(
		db,
		newTestLogger(),
		repository.NewUserRepository(),
		repository.NewDoctorProfileRepository(),
		repository.NewPharmacyProfileRepository(),
		repository.NewPatientProfileRepository(),
		newAuditService(),
		jwtService,
		tokens,
	)
	return &authFixture{db: db, usecase: uc, tokens: tokens, jwt: jwtService}
}

func patientRegistration(email string) *dto.RegisterPatientRequest {
	return &dto.RegisterPatientRequest{
		Email:       email,
		Password:    "s3cret-pass",
		FullName:    "Amina Benali",
		DateOfBirth: "1990-05-17",
		Gender:      "F",
		Wilaya:      "Tlemcen",
	}
}

// ctxFromToken mimics what the auth middleware puts on the request context.
func ctxFromToken(t *testing.T, svc *jwt.JWTService, token string) context.Context {
	t.Helper()
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, middleware.RoleIDKey, claims.RoleID)
	return context.WithValue(ctx, middleware.TokenIDKey, claims.TokenID)
}

func TestRegisterPatientAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.usecase.RegisterPatient(ctx, patientRegistration("amina@dawini.test"))
	require.NoError(t, err)
	assert.Equal(t, entity.RolePatient, registered.Role)
	require.NotNil(t, registered.PatientProfile)
	assert.Equal(t, "1990-05-17", registered.PatientProfile.DateOfBirth)

	_, err = f.usecase.RegisterPatient(ctx, patientRegistration("amina@dawini.test"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = f.usecase.Login(ctx, &dto.LoginRequest{Email: "amina@dawini.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.usecase.Login(ctx, &dto.LoginRequest{Email: "nobody@dawini.test", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "amina@dawini.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.EqualValues(t, 900, tokens.ExpiresIn)

	me, err := f.usecase.GetCurrentUser(ctxFromToken(t, f.jwt, tokens.AccessToken))
	require.NoError(t, err)
	assert.Equal(t, registered.ID, me.ID)
	assert.NotNil(t, me.PatientProfile)
}

func TestRegisterPatientRejectsBadBirthDate(t *testing.T) {
	f := newAuthFixture(t)
	req := patientRegistration("bad-date@dawini.test")
	req.DateOfBirth = "17/05/1990"

	_, err := f.usecase.RegisterPatient(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestRegisterDoctorStartsUnverified(t *testing.T) {
	f := newAuthFixture(t)
	req := &dto.RegisterDoctorRequest{
		Email:           "dr.haddad@dawini.test",
		Password:        "s3cret-pass",
		FullName:        "Karim Haddad",
		LicenseNumber:   "DZ-MED-1001",
		Specialty:       "dermatology",
		ConsultationFee: decimal.NewFromInt(2500),
		Wilaya:          "Alger",
	}

	resp, err := f.usecase.RegisterDoctor(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.DoctorProfile)
	assert.False(t, resp.DoctorProfile.IsVerified)
	assert.True(t, resp.DoctorProfile.IsAvailable)
	assert.Equal(t, 30, resp.DoctorProfile.SlotDurationMinutes)

	req.Email = "other@dawini.test"
	_, err = f.usecase.RegisterDoctor(context.Background(), req)
	assert.ErrorIs(t, err, ErrLicenseAlreadyExists)

	// the failed registration rolled back its user row
	var users int64
	require.NoError(t, f.db.Model(&entity.User{}).Where("email = ?", "other@dawini.test").Count(&users).Error)
	assert.Zero(t, users)

	req.Email = "negative@dawini.test"
	req.LicenseNumber = "DZ-MED-1002"
	req.ConsultationFee = decimal.NewFromInt(-1)
	_, err = f.usecase.RegisterDoctor(context.Background(), req)
	assert.ErrorIs(t, err, ErrNegativeFee)
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.usecase.RegisterPatient(ctx, patientRegistration("rotate@dawini.test"))
	require.NoError(t, err)
	first, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "rotate@dawini.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	second, err := f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: second.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.usecase.RegisterPatient(ctx, patientRegistration("logout@dawini.test"))
	require.NoError(t, err)
	tokens, err := f.usecase.Login(ctx, &dto.LoginRequest{Email: "logout@dawini.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	authed := ctxFromToken(t, f.jwt, tokens.AccessToken)
	access, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.usecase.Logout(authed, &dto.LogoutRequest{RefreshToken: tokens.RefreshToken}))

	exists, err := f.tokens.Exists(ctx, service.AccessTokenKind, access.UserID, access.TokenID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = f.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
