package database

import (
	"errors"
	"fmt"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// slotIndexes back the one-booking-per-slot rule on both sides of a booking.
// Cancelled rows are excluded so a freed slot can be booked again.
var slotIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_provider_slot
		ON bookings (provider_id, appointment_date, appointment_time)
		WHERE status <> 'cancelled'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_patient_slot
		ON bookings (patient_id, appointment_date, appointment_time)
		WHERE status <> 'cancelled'`,
}

// RunMigrations applies the embedded SQL migrations to a PostgreSQL database.
func RunMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logrus.Infof("Database schema at version %d (dirty=%t)", version, dirty)
	return nil
}

// AutoMigrate builds the schema from the entities. Used for SQLite-backed
// tests and throwaway local databases.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.DoctorProfile{},
		&entity.PharmacyProfile{},
		&entity.PatientProfile{},
		&entity.WorkingHours{},
		&entity.Booking{},
		&entity.Prescription{},
		&entity.AuditLog{},
	)
	if err != nil {
		return err
	}

	for _, stmt := range slotIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	roles := append([]entity.Role(nil), entity.DefaultRoles...)
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
}
