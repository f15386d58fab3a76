package converter

import (
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"

	"github.com/google/uuid"
)

// WeekToResponse lays the stored rows out over the full week, Saturday
// first. Days with no row are reported closed.
func WeekToResponse(providerID uuid.UUID, hours []entity.WorkingHours) *dto.ScheduleResponse {
	byDay := make(map[entity.Weekday]entity.WorkingHours, len(hours))
	for _, h := range hours {
		byDay[h.Weekday] = h
	}

	days := make([]dto.WorkingHoursResponse, 0, len(entity.Weekdays))
	for _, day := range entity.Weekdays {
		h, ok := byDay[day]
		if !ok || !h.IsOpen {
			days = append(days, dto.WorkingHoursResponse{Weekday: string(day)})
			continue
		}
		days = append(days, dto.WorkingHoursResponse{
			Weekday:   string(day),
			IsOpen:    true,
			StartTime: h.StartTime.String(),
			EndTime:   h.EndTime.String(),
		})
	}

	return &dto.ScheduleResponse{
		ProviderID: providerID,
		Days:       days,
	}
}
