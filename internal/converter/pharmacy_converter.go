package converter

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
)

func PharmacyProfileToResponse(profile *entity.PharmacyProfile) *dto.PharmacyProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.PharmacyProfileResponse{
		Name:          profile.Name,
		LicenseNumber: profile.LicenseNumber,
		Wilaya:        profile.Wilaya,
		City:          profile.City,
		Address:       profile.Address,
		Phone:         profile.Phone,
		IsVerified:    profile.IsVerified,
		IsOnDuty:      profile.IsOnDuty,
	}
}

func PharmacyToResponse(profile *entity.PharmacyProfile) *dto.PharmacyResponse {
	if profile == nil {
		return nil
	}
	return &dto.PharmacyResponse{
		ID:                      profile.UserID,
		PharmacyProfileResponse: *PharmacyProfileToResponse(profile),
	}
}

func PharmaciesToResponses(profiles []entity.PharmacyProfile) []dto.PharmacyResponse {
	responses := make([]dto.PharmacyResponse, len(profiles))
	for i := range profiles {
		responses[i] = *PharmacyToResponse(&profiles[i])
	}
	return responses
}
