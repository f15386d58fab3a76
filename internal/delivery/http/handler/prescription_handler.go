package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/usecase"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/response"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/validator"

	"github.com/gorilla/mux"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PrescriptionHandler) IssuePrescription(w http.ResponseWriter, r *http.Request) {
	var req dto.IssuePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prescription, err := h.prescriptionUsecase.IssuePrescription(r.Context(), &req)
	if err != nil {
		writePrescriptionError(w, err, "Failed to issue prescription")
		return
	}

	response.Success(w, http.StatusCreated, "Prescription issued successfully", prescription)
}

func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	prescription, err := h.prescriptionUsecase.GetPrescription(r.Context(), prescriptionID)
	if err != nil {
		writePrescriptionError(w, err, "Failed to get prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

func (h *PrescriptionHandler) GetPrescriptionByCode(w http.ResponseWriter, r *http.Request) {
	prescription, err := h.prescriptionUsecase.GetPrescriptionByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writePrescriptionError(w, err, "Failed to get prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

func (h *PrescriptionHandler) GetPatientPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptionUsecase.GetPatientPrescriptions(r.Context())
	if err != nil {
		writePrescriptionError(w, err, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) GetDoctorPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptionUsecase.GetDoctorPrescriptions(r.Context())
	if err != nil {
		writePrescriptionError(w, err, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) FillPrescription(w http.ResponseWriter, r *http.Request) {
	prescription, err := h.prescriptionUsecase.FillPrescription(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writePrescriptionError(w, err, "Failed to fill prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription filled successfully", prescription)
}

func (h *PrescriptionHandler) CancelPrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	prescription, err := h.prescriptionUsecase.CancelPrescription(r.Context(), prescriptionID)
	if err != nil {
		writePrescriptionError(w, err, "Failed to cancel prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription cancelled successfully", prescription)
}

func (h *PrescriptionHandler) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	if err := h.prescriptionUsecase.DeletePrescription(r.Context(), prescriptionID); err != nil {
		writePrescriptionError(w, err, "Failed to delete prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription deleted successfully", nil)
}

func writePrescriptionError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrUnauthenticated:
		response.Unauthorized(w, "Invalid token")
	case usecase.ErrPrescriptionNotFound, usecase.ErrPatientNotFound, usecase.ErrBookingNotFound, usecase.ErrPharmacyNotFound:
		response.NotFound(w, err.Error())
	case usecase.ErrPrescriptionNotOwned, usecase.ErrPharmacyNotVerified, usecase.ErrDoctorNotVerified:
		response.Forbidden(w, err.Error())
	case usecase.ErrPrescriptionNotActive, usecase.ErrPrescriptionFilled:
		response.Conflict(w, err.Error())
	case usecase.ErrPrescriptionExpired, usecase.ErrBookingMismatch:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
