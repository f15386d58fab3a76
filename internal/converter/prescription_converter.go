package converter

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
)

func MedicationItemsFromRequest(items []dto.MedicationItemRequest) []entity.MedicationItem {
	out := make([]entity.MedicationItem, len(items))
	for i, item := range items {
		out[i] = entity.MedicationItem{
			Name:         item.Name,
			Dosage:       item.Dosage,
			Frequency:    item.Frequency,
			DurationDays: item.DurationDays,
			Quantity:     item.Quantity,
			Instructions: item.Instructions,
		}
	}
	return out
}

func PrescriptionToResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	if p == nil {
		return nil
	}

	items := make([]dto.MedicationItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = dto.MedicationItemResponse{
			Name:         item.Name,
			Dosage:       item.Dosage,
			Frequency:    item.Frequency,
			DurationDays: item.DurationDays,
			Quantity:     item.Quantity,
			Instructions: item.Instructions,
		}
	}

	return &dto.PrescriptionResponse{
		ID:         p.ID,
		Code:       p.Code,
		DoctorID:   p.DoctorID,
		Doctor:     UserToSummary(&p.Doctor),
		PatientID:  p.PatientID,
		Patient:    UserToSummary(&p.Patient),
		BookingID:  p.BookingID,
		PharmacyID: p.PharmacyID,
		Pharmacy:   UserToSummary(p.Pharmacy),
		Diagnosis:  p.Diagnosis,
		Notes:      p.Notes,
		Items:      items,
		Status:     string(p.Status),
		IssuedAt:   p.IssuedAt,
		ExpiresAt:  p.ExpiresAt,
		FilledAt:   p.FilledAt,
		CreatedAt:  p.CreatedAt,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}
