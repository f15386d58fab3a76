package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/usecase"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/response"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/validator"

	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetMyBookings(r.Context())
	if err != nil {
		writeBookingError(w, err, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetProviderBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetProviderBookings(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeBookingError(w, err, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeBookingError(w, err, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookingUsecase.ConfirmBooking, "Booking confirmed")
}

func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookingUsecase.CompleteBooking, "Booking completed")
}

func (h *BookingHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookingUsecase.MarkNoShow, "Booking marked as no-show")
}

type bookingTransition func(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, move bookingTransition, message string) {
	bookingID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := move(r.Context(), bookingID)
	if err != nil {
		writeBookingError(w, err, "Failed to update booking")
		return
	}

	response.Success(w, http.StatusOK, message, booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathUUID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req dto.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CancelBooking(r.Context(), bookingID, &req)
	if err != nil {
		writeBookingError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}

func writeBookingError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrUnauthenticated:
		response.Unauthorized(w, "Invalid token")
	case usecase.ErrBookingNotFound, service.ErrProviderNotFound, service.ErrRequesterNotFound:
		response.NotFound(w, err.Error())
	case usecase.ErrBookingNotOwned:
		response.Forbidden(w, err.Error())
	case service.ErrSlotTaken, service.ErrRequesterConflict, usecase.ErrBookingConflict:
		response.Conflict(w, err.Error())
	case service.ErrProviderUnavailable, service.ErrProviderClosed, service.ErrOutsideWorkingHours,
		service.ErrSlotNotOnGrid, usecase.ErrInvalidTransition, usecase.ErrCancellationWindowClosed,
		usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
