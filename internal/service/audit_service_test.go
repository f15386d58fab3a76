package service

import (
	"context"
	"testing"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAuditServiceRollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, entity.RoleIDAdmin)
	audit := NewAuditService(newTestLogger(), repository.NewAuditLogRepository())

	tx := db.Begin()
	require.NoError(t, audit.LogCreate(context.Background(), tx, &user.ID, entity.AuditActionBookingCreate, "booking", "b-1", map[string]string{"status": "pending"}))
	tx.Rollback()

	var count int64
	require.NoError(t, db.Model(&entity.AuditLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuditServiceRecordsMetadata(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, entity.RoleIDAdmin)
	audit := NewAuditService(newTestLogger(), repository.NewAuditLogRepository())

	err := db.Transaction(func(tx *gorm.DB) error {
		return audit.LogUpdate(context.Background(), tx, &user.ID, entity.AuditActionBookingConfirm, "booking", "b-1",
			map[string]string{"status": "pending"},
			map[string]string{"status": "confirmed"})
	})
	require.NoError(t, err)

	logs, total, err := repository.NewAuditLogRepository().FindAll(db, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, entity.AuditActionBookingConfirm, logs[0].Action)
	assert.Equal(t, "booking", logs[0].Metadata["entity"])
	assert.Equal(t, "b-1", logs[0].Metadata["entity_id"])
	assert.Equal(t, user.ID, *logs[0].UserID)
}
