package service

import (
	"context"
	"testing"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func seedPrescription(t *testing.T, db *gorm.DB, doctorID, patientID uuid.UUID, expiresAt time.Time, status entity.PrescriptionStatus) *entity.Prescription {
	t.Helper()
	p := &entity.Prescription{
		Code:      "RX-" + uuid.NewString()[:13],
		DoctorID:  doctorID,
		PatientID: patientID,
		Items: datatypes.JSONSlice[entity.MedicationItem]{
			{Name: "Paracetamol", Dosage: "500mg", Frequency: "3x/day", DurationDays: 5, Quantity: 15},
		},
		Status:    status,
		IssuedAt:  expiresAt.Add(-30 * 24 * time.Hour),
		ExpiresAt: expiresAt,
	}
	require.NoError(t, db.Omit("Doctor", "Patient", "Pharmacy").Create(p).Error)
	return p
}

func TestPrescriptionExpiryWorkerRunOnce(t *testing.T) {
	db := newTestDB(t)
	doctor := seedUser(t, db, entity.RoleIDDoctor)
	patient := seedUser(t, db, entity.RoleIDPatient)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	lapsed := seedPrescription(t, db, doctor.ID, patient.ID, now.Add(-time.Hour), entity.PrescriptionStatusActive)
	current := seedPrescription(t, db, doctor.ID, patient.ID, now.Add(time.Hour), entity.PrescriptionStatusActive)
	filled := seedPrescription(t, db, doctor.ID, patient.ID, now.Add(-time.Hour), entity.PrescriptionStatusFilled)

	repo := repository.NewPrescriptionRepository()
	worker := NewPrescriptionExpiryWorker(db, newTestLogger(), repo, nil, time.Hour)
	worker.now = func() time.Time { return now }

	expired, err := worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	statusOf := func(id uuid.UUID) entity.PrescriptionStatus {
		p, err := repo.FindByID(db, id)
		require.NoError(t, err)
		return p.Status
	}
	assert.Equal(t, entity.PrescriptionStatusExpired, statusOf(lapsed.ID))
	assert.Equal(t, entity.PrescriptionStatusActive, statusOf(current.ID))
	assert.Equal(t, entity.PrescriptionStatusFilled, statusOf(filled.ID))

	again, err := worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestPrescriptionExpiryWorkerStartStop(t *testing.T) {
	db := newTestDB(t)
	worker := NewPrescriptionExpiryWorker(db, newTestLogger(), repository.NewPrescriptionRepository(), nil, time.Hour)

	worker.Start()
	worker.Start()
	worker.Stop()
	worker.Stop()
}
