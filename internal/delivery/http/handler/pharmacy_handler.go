package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/usecase"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/response"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/validator"
)

type PharmacyHandler struct {
	pharmacyUsecase usecase.PharmacyProfileUsecase
	validator       *validator.CustomValidator
}

func NewPharmacyHandler(pharmacyUsecase usecase.PharmacyProfileUsecase, validator *validator.CustomValidator) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacyUsecase: pharmacyUsecase,
		validator:       validator,
	}
}

func (h *PharmacyHandler) SearchPharmacies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	onDuty, _ := strconv.ParseBool(q.Get("on_duty"))
	req := dto.PharmacySearchRequest{
		Wilaya:      q.Get("wilaya"),
		City:        q.Get("city"),
		Query:       q.Get("q"),
		OnDutyOnly:  onDuty,
		PageRequest: pageFromQuery(r),
	}

	pharmacies, err := h.pharmacyUsecase.SearchPharmacies(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to search pharmacies")
		return
	}

	meta := response.NewMeta(req.Page, req.Limit, pharmacies.Total)
	response.SuccessWithMeta(w, http.StatusOK, "Pharmacies retrieved successfully", pharmacies.Pharmacies, meta)
}

func (h *PharmacyHandler) GetPharmacy(w http.ResponseWriter, r *http.Request) {
	pharmacyID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pharmacy ID", nil)
		return
	}

	pharmacy, err := h.pharmacyUsecase.GetPharmacy(r.Context(), pharmacyID)
	if err != nil {
		if err == usecase.ErrPharmacyNotFound {
			response.NotFound(w, "Pharmacy not found")
			return
		}
		response.InternalServerError(w, "Failed to get pharmacy")
		return
	}

	response.Success(w, http.StatusOK, "Pharmacy retrieved successfully", pharmacy)
}

func (h *PharmacyHandler) UpdateSelfProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePharmacySelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pharmacy, err := h.pharmacyUsecase.UpdateSelfProfile(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "Invalid token")
		case usecase.ErrPharmacyNotFound:
			response.NotFound(w, "Pharmacy profile not found")
		default:
			response.InternalServerError(w, "Failed to update profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", pharmacy)
}

func (h *PharmacyHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	pharmacyID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pharmacy ID", nil)
		return
	}

	var req dto.SetVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pharmacy, err := h.pharmacyUsecase.SetVerification(r.Context(), pharmacyID, &req)
	if err != nil {
		if err == usecase.ErrPharmacyNotFound {
			response.NotFound(w, "Pharmacy not found")
			return
		}
		response.InternalServerError(w, "Failed to update verification")
		return
	}

	response.Success(w, http.StatusOK, "Pharmacy verification updated", pharmacy)
}
