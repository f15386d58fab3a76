package converter

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
)

func PatientProfileToProfileResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.PatientProfileResponse{
		Phone:       profile.Phone,
		DateOfBirth: profile.DateOfBirth.String(),
		Gender:      profile.Gender,
		Wilaya:      profile.Wilaya,
		Address:     profile.Address,
	}
}

// PatientProfileToResponse converts a PatientProfile entity and its User to PatientResponse DTO
func PatientProfileToResponse(profile *entity.PatientProfile, user *entity.User) *dto.PatientResponse {
	if profile == nil || user == nil {
		return nil
	}
	return &dto.PatientResponse{
		ID:                     user.ID,
		Email:                  user.Email,
		FullName:               user.FullName,
		PatientProfileResponse: *PatientProfileToProfileResponse(profile),
		CreatedAt:              user.CreatedAt,
		UpdatedAt:              user.UpdatedAt,
	}
}
