package converter

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
)

func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.DoctorProfileResponse{
		LicenseNumber:       profile.LicenseNumber,
		Specialty:           profile.Specialty,
		Bio:                 profile.Bio,
		ConsultationFee:     profile.ConsultationFee,
		Wilaya:              profile.Wilaya,
		City:                profile.City,
		Address:             profile.Address,
		Phone:               profile.Phone,
		IsVerified:          profile.IsVerified,
		IsAvailable:         profile.IsAvailable,
		SlotDurationMinutes: profile.SlotDurationMinutes,
	}
}

// DoctorToResponse expects the User relation to be loaded for the name.
func DoctorToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}
	return &dto.DoctorResponse{
		ID:                    profile.UserID,
		FullName:              profile.User.FullName,
		DoctorProfileResponse: *DoctorProfileToResponse(profile),
	}
}

func DoctorsToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorToResponse(&profiles[i])
	}
	return responses
}
