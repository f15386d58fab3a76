package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/usecase"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingUsecase struct {
	mock.Mock
}

func (m *mockBookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, req)
	return bookingOrNil(args.Get(0)), args.Error(1)
}

func (m *mockBookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).(*dto.BookingListResponse)
	return list, args.Error(1)
}

func (m *mockBookingUsecase) GetProviderBookings(ctx context.Context, date string) (*dto.BookingListResponse, error) {
	args := m.Called(ctx, date)
	list, _ := args.Get(0).(*dto.BookingListResponse)
	return list, args.Error(1)
}

func (m *mockBookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	return bookingOrNil(args.Get(0)), args.Error(1)
}

func (m *mockBookingUsecase) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	return bookingOrNil(args.Get(0)), args.Error(1)
}

func (m *mockBookingUsecase) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	return bookingOrNil(args.Get(0)), args.Error(1)
}

func (m *mockBookingUsecase) MarkNoShow(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	return bookingOrNil(args.Get(0)), args.Error(1)
}

func (m *mockBookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	return bookingOrNil(args.Get(0)), args.Error(1)
}

func bookingOrNil(v interface{}) *dto.BookingResponse {
	b, _ := v.(*dto.BookingResponse)
	return b
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newBookingHandler() (*BookingHandler, *mockBookingUsecase) {
	uc := new(mockBookingUsecase)
	return NewBookingHandler(uc, validator.NewValidator()), uc
}

func TestCreateBooking(t *testing.T) {
	providerID := uuid.New()
	validBody := `{"provider_id":"` + providerID.String() + `","date":"2025-03-10","time":"09:00"}`

	t.Run("created", func(t *testing.T) {
		h, uc := newBookingHandler()
		uc.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *dto.CreateBookingRequest) bool {
			return req.ProviderID == providerID && req.Date == "2025-03-10" && req.Time == "09:00"
		})).Return(&dto.BookingResponse{ID: uuid.New(), BookingCode: "BK-20250310-ABC123", Status: "pending"}, nil)

		rec := httptest.NewRecorder()
		h.CreateBooking(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.True(t, body.Success)
		var booking dto.BookingResponse
		require.NoError(t, json.Unmarshal(body.Data, &booking))
		assert.Equal(t, "BK-20250310-ABC123", booking.BookingCode)
		uc.AssertExpectations(t)
	})

	t.Run("validation errors never reach the usecase", func(t *testing.T) {
		h, uc := newBookingHandler()

		rec := httptest.NewRecorder()
		h.CreateBooking(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings",
			strings.NewReader(`{"provider_id":"`+providerID.String()+`","date":"10/03/2025","time":"9h"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Contains(t, body.Error, "date")
		assert.Contains(t, body.Error, "time")
		uc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		h, _ := newBookingHandler()

		rec := httptest.NewRecorder()
		h.CreateBooking(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"slot taken", service.ErrSlotTaken, http.StatusConflict},
		{"requester double booked", service.ErrRequesterConflict, http.StatusConflict},
		{"unknown provider", service.ErrProviderNotFound, http.StatusNotFound},
		{"provider closed", service.ErrProviderClosed, http.StatusBadRequest},
		{"off grid", service.ErrSlotNotOnGrid, http.StatusBadRequest},
		{"no token", usecase.ErrUnauthenticated, http.StatusUnauthorized},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, uc := newBookingHandler()
			uc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tc.err)

			rec := httptest.NewRecorder()
			h.CreateBooking(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))

			assert.Equal(t, tc.code, rec.Code)
			assert.False(t, decodeEnvelope(t, rec).Success)
		})
	}
}

func TestBookingTransitionRoutes(t *testing.T) {
	bookingID := uuid.New()

	t.Run("confirm", func(t *testing.T) {
		h, uc := newBookingHandler()
		uc.On("ConfirmBooking", mock.Anything, bookingID).Return(&dto.BookingResponse{ID: bookingID, Status: "confirmed"}, nil)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", nil), map[string]string{"id": bookingID.String()})
		rec := httptest.NewRecorder()
		h.ConfirmBooking(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		uc.AssertExpectations(t)
	})

	t.Run("invalid transition", func(t *testing.T) {
		h, uc := newBookingHandler()
		uc.On("CompleteBooking", mock.Anything, bookingID).Return(nil, usecase.ErrInvalidTransition)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", nil), map[string]string{"id": bookingID.String()})
		rec := httptest.NewRecorder()
		h.CompleteBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("concurrent update", func(t *testing.T) {
		h, uc := newBookingHandler()
		uc.On("MarkNoShow", mock.Anything, bookingID).Return(nil, usecase.ErrBookingConflict)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", nil), map[string]string{"id": bookingID.String()})
		rec := httptest.NewRecorder()
		h.MarkNoShow(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		h, uc := newBookingHandler()

		req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", nil), map[string]string{"id": "nope"})
		rec := httptest.NewRecorder()
		h.ConfirmBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "ConfirmBooking", mock.Anything, mock.Anything)
	})
}

func TestCancelBooking(t *testing.T) {
	bookingID := uuid.New()

	t.Run("empty body is allowed", func(t *testing.T) {
		h, uc := newBookingHandler()
		uc.On("CancelBooking", mock.Anything, bookingID, &dto.CancelBookingRequest{}).
			Return(&dto.BookingResponse{ID: bookingID, Status: "cancelled"}, nil)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", http.NoBody), map[string]string{"id": bookingID.String()})
		rec := httptest.NewRecorder()
		h.CancelBooking(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		uc.AssertExpectations(t)
	})

	t.Run("reason is passed through", func(t *testing.T) {
		h, uc := newBookingHandler()
		uc.On("CancelBooking", mock.Anything, bookingID, &dto.CancelBookingRequest{Reason: "travelling"}).
			Return(&dto.BookingResponse{ID: bookingID, Status: "cancelled", CancelReason: "travelling"}, nil)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"reason":"travelling"}`)),
			map[string]string{"id": bookingID.String()})
		rec := httptest.NewRecorder()
		h.CancelBooking(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		uc.AssertExpectations(t)
	})

	errCases := []struct {
		name string
		err  error
		code int
	}{
		{"inside the 24h window", usecase.ErrCancellationWindowClosed, http.StatusBadRequest},
		{"not a party", usecase.ErrBookingNotOwned, http.StatusForbidden},
		{"missing", usecase.ErrBookingNotFound, http.StatusNotFound},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			h, uc := newBookingHandler()
			uc.On("CancelBooking", mock.Anything, bookingID, mock.Anything).Return(nil, tc.err)

			req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", http.NoBody), map[string]string{"id": bookingID.String()})
			rec := httptest.NewRecorder()
			h.CancelBooking(rec, req)

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestGetProviderBookingsPassesDate(t *testing.T) {
	h, uc := newBookingHandler()
	uc.On("GetProviderBookings", mock.Anything, "2025-03-10").
		Return(&dto.BookingListResponse{Bookings: []dto.BookingResponse{}, Total: 0}, nil)

	rec := httptest.NewRecorder()
	h.GetProviderBookings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/doctor/bookings?date=2025-03-10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}
