package service

import (
	"fmt"
	"io"
	"testing"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/infrastructure/database"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// monday is a Monday; sunday is the day before it.
var (
	monday = wallclock.NewDate(2025, 3, 10)
	sunday = wallclock.NewDate(2025, 3, 9)
)

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

// seedDoctor creates a verified, available doctor open Monday 08:00-17:00.
func seedDoctor(t *testing.T, db *gorm.DB) *entity.DoctorProfile {
	t.Helper()
	user := seedUser(t, db, entity.RoleIDDoctor)
	profile := &entity.DoctorProfile{
		UserID:              user.ID,
		LicenseNumber:       "LIC-" + user.ID.String()[:8],
		Specialty:           "cardiology",
		ConsultationFee:     decimal.NewFromInt(2000),
		Wilaya:              "Alger",
		City:                "Bab Ezzouar",
		IsVerified:          true,
		IsAvailable:         true,
		SlotDurationMinutes: 30,
	}
	require.NoError(t, db.Omit("User").Create(profile).Error)

	hours := entity.WorkingHours{
		ProviderID: user.ID,
		Weekday:    entity.Monday,
		StartTime:  wallclock.MustTimeOfDay("08:00"),
		EndTime:    wallclock.MustTimeOfDay("17:00"),
		IsOpen:     true,
	}
	require.NoError(t, db.Create(&hours).Error)
	return profile
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
