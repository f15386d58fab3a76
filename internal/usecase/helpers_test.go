package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/middleware"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/infrastructure/database"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// monday is a Monday in March 2025, outside daylight saving in Algiers.
var monday = wallclock.NewDate(2025, 3, 10)

func algiers(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Algiers")
	require.NoError(t, err)
	return loc
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAuditService() service.AuditService {
	return service.NewAuditService(newTestLogger(), repository.NewAuditLogRepository())
}

// asUser returns a context carrying what the auth middleware would set.
func asUser(user *entity.User) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, user.ID)
	return context.WithValue(ctx, middleware.RoleIDKey, user.RoleID)
}

func seedUser(t *testing.T, db *gorm.DB, roleID int) *entity.User {
	t.Helper()
	id := uuid.New()
	user := &entity.User{
		ID:       id,
		RoleID:   roleID,
		Email:    fmt.Sprintf("%s@dawini.test", id),
		Password: "hashed",
		FullName: "Test " + entity.RoleName(roleID),
		IsActive: true,
	}
	require.NoError(t, db.Omit("Role").Create(user).Error)
	return user
}

// seedDoctor creates a verified, available doctor open Monday 08:00-12:00
// with 30 minute slots.
func seedDoctor(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	user := seedUser(t, db, entity.RoleIDDoctor)
	profile := &entity.DoctorProfile{
		UserID:              user.ID,
		LicenseNumber:       "LIC-" + user.ID.String()[:8],
		Specialty:           "pediatrics",
		ConsultationFee:     decimal.NewFromInt(1500),
		Wilaya:              "Oran",
		City:                "Es Senia",
		IsVerified:          true,
		IsAvailable:         true,
		SlotDurationMinutes: 30,
	}
	require.NoError(t, db.Omit("User").Create(profile).Error)

	hours := entity.WorkingHours{
		ProviderID: user.ID,
		Weekday:    entity.Monday,
		StartTime:  wallclock.MustTimeOfDay("08:00"),
		EndTime:    wallclock.MustTimeOfDay("12:00"),
		IsOpen:     true,
	}
	require.NoError(t, db.Create(&hours).Error)
	return user
}

func seedPharmacy(t *testing.T, db *gorm.DB, verified bool) *entity.User {
	t.Helper()
	user := seedUser(t, db, entity.RoleIDPharmacy)
	profile := &entity.PharmacyProfile{
		UserID:        user.ID,
		Name:          "Pharmacie " + user.ID.String()[:4],
		LicenseNumber: "PH-" + user.ID.String()[:8],
		Wilaya:        "Oran",
		IsVerified:    verified,
	}
	require.NoError(t, db.Omit("User").Create(profile).Error)
	return user
}

func seedBooking(t *testing.T, db *gorm.DB, providerID, patientID uuid.UUID, date wallclock.Date, at string, status entity.BookingStatus) *entity.Booking {
	t.Helper()
	booking := &entity.Booking{
		BookingCode:     "BK-" + uuid.NewString()[:13],
		ProviderID:      providerID,
		PatientID:       patientID,
		AppointmentDate: date,
		AppointmentTime: wallclock.MustTimeOfDay(at),
		DurationMinutes: 30,
		Type:            entity.BookingTypeConsultation,
		Status:          status,
	}
	require.NoError(t, db.Omit("Provider", "Patient").Create(booking).Error)
	return booking
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event service.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]bool)}
}

func (s *memoryTokenStore) key(kind service.TokenKind, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID, tokenID)
}

func (s *memoryTokenStore) Save(_ context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[s.key(kind, userID, tokenID)] = true
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[s.key(kind, userID, tokenID)], nil
}

func (s *memoryTokenStore) Delete(_ context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, s.key(kind, userID, tokenID))
	return nil
}

func (s *memoryTokenStore) RevokeAll(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.tokens {
		if strings.Contains(k, ":"+userID.String()+":") {
			delete(s.tokens, k)
		}
	}
	return nil
}
