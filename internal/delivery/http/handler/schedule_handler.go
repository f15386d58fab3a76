package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/usecase"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/response"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/validator"
)

type ScheduleHandler struct {
	scheduleUsecase     usecase.ScheduleUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase:     scheduleUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func (h *ScheduleHandler) GetDoctorSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	schedule, err := h.scheduleUsecase.GetDoctorSchedule(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *ScheduleHandler) GetPharmacySchedule(w http.ResponseWriter, r *http.Request) {
	pharmacyID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pharmacy ID", nil)
		return
	}

	schedule, err := h.scheduleUsecase.GetPharmacySchedule(r.Context(), pharmacyID)
	if err != nil {
		if err == usecase.ErrPharmacyNotFound {
			response.NotFound(w, "Pharmacy not found")
			return
		}
		response.InternalServerError(w, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

// SetSelfSchedule replaces the weekly opening hours of the calling doctor or pharmacy.
func (h *ScheduleHandler) SetSelfSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.SetScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.SetSelfSchedule(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "Invalid token")
		case usecase.ErrDuplicateWeekday, usecase.ErrInvalidWorkingHours, usecase.ErrInvalidTimeFormat:
			response.BadRequest(w, err.Error())
		case usecase.ErrScheduleOwnerMissing:
			response.NotFound(w, "Provider profile not found")
		default:
			response.InternalServerError(w, "Failed to update schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *ScheduleHandler) GetDoctorAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.ValidationError(w, map[string]string{"date": "date is required"})
		return
	}

	availability, err := h.availabilityUsecase.ListFreeSlots(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.BadRequest(w, err.Error())
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to get availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}
