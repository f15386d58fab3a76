package converter

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"

	"github.com/google/uuid"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Role falls back to the id mapping when the relation was not preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleName(user.RoleID)
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UserToSummary returns nil for a relation that was not loaded.
func UserToSummary(user *entity.User) *dto.UserSummaryResponse {
	if user == nil || user.ID == uuid.Nil {
		return nil
	}
	return &dto.UserSummaryResponse{
		ID:       user.ID,
		FullName: user.FullName,
	}
}
