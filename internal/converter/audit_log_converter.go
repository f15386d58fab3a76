package converter

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
)

// AuditLogToResponse lifts the entity reference and the before/after values
// out of the stored metadata.
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	resp := &dto.AuditLogResponse{
		ID:        log.ID,
		UserID:    log.UserID,
		User:      UserToResponse(log.User),
		Action:    log.Action,
		CreatedAt: log.CreatedAt,
	}
	if log.Metadata != nil {
		resp.Entity, _ = log.Metadata["entity"].(string)
		resp.EntityID, _ = log.Metadata["entity_id"].(string)
		resp.OldValue = log.Metadata["old_value"]
		resp.NewValue = log.Metadata["new_value"]
	}
	return resp
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, *AuditLogToResponse(&logs[i]))
	}
	return responses
}
