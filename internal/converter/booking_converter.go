package converter

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO.
// Provider and patient summaries are included when preloaded.
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	return &dto.BookingResponse{
		ID:              booking.ID,
		BookingCode:     booking.BookingCode,
		ProviderID:      booking.ProviderID,
		Provider:        UserToSummary(&booking.Provider),
		PatientID:       booking.PatientID,
		Patient:         UserToSummary(&booking.Patient),
		Date:            booking.AppointmentDate.String(),
		Time:            booking.AppointmentTime.String(),
		DurationMinutes: booking.DurationMinutes,
		Type:            string(booking.Type),
		Status:          string(booking.Status),
		Reason:          booking.Reason,
		Notes:           booking.Notes,
		CancelledBy:     booking.CancelledBy,
		CancelledAt:     booking.CancelledAt,
		CancelReason:    booking.CancelReason,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}
