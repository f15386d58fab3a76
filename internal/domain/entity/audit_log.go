package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserRegister       = "user.register"
	AuditActionBookingCreate      = "booking.create"
	AuditActionBookingConfirm     = "booking.confirm"
	AuditActionBookingComplete    = "booking.complete"
	AuditActionBookingNoShow      = "booking.no_show"
	AuditActionBookingCancel      = "booking.cancel"
	AuditActionScheduleUpdate     = "schedule.update"
	AuditActionProfileUpdate      = "profile.update"
	AuditActionProviderVerify     = "provider.verify"
	AuditActionPrescriptionIssue  = "prescription.issue"
	AuditActionPrescriptionFill   = "prescription.fill"
	AuditActionPrescriptionCancel = "prescription.cancel"
	AuditActionPrescriptionDelete = "prescription.delete"
)
