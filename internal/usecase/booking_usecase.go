package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/converter"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/middleware"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/scheduling"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/metrics"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound          = errors.New("booking not found")
	ErrBookingNotOwned          = errors.New("booking does not belong to you")
	ErrInvalidTransition        = errors.New("booking status does not allow this change")
	ErrBookingConflict          = errors.New("booking was changed by another request, reload and retry")
	ErrCancellationWindowClosed = errors.New("bookings can only be cancelled more than 24 hours in advance")
)

type BookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error)
	GetProviderBookings(ctx context.Context, date string) (*dto.BookingListResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	MarkNoShow(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)
}

type bookingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	guard        service.BookingGuard
	bookingRepo  repository.BookingRepository
	auditService service.AuditService
	publisher    service.EventPublisher
	metrics      *metrics.Collector
	loc          *time.Location
	now          func() time.Time
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	guard service.BookingGuard,
	bookingRepo repository.BookingRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
	collector *metrics.Collector,
	loc *time.Location,
) BookingUsecase {
	return &bookingUsecase{
		db:           db,
		log:          log,
		guard:        guard,
		bookingRepo:  bookingRepo,
		auditService: auditService,
		publisher:    publisher,
		metrics:      collector,
		loc:          loc,
		now:          time.Now,
	}
}

// CreateBooking runs the booking guard and inserts the booking in one
// transaction. The partial unique indexes on bookings catch any race the row
// locks miss, and map to the same conflicts the guard reports.
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	date, err := wallclock.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	at, err := wallclock.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	bookingType := entity.BookingType(req.Type)
	if bookingType == "" {
		bookingType = entity.BookingTypeConsultation
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	result, err := u.guard.Check(tx, service.GuardRequest{
		ProviderID:  req.ProviderID,
		RequesterID: userID,
		Date:        date,
		Time:        at,
	})
	if err != nil {
		u.metrics.RecordBookingRejection(rejectionReason(err))
		return nil, err
	}

	booking := &entity.Booking{
		BookingCode:     generateCode("BK", date.At(0, u.loc)),
		ProviderID:      req.ProviderID,
		PatientID:       userID,
		AppointmentDate: date,
		AppointmentTime: at,
		DurationMinutes: result.DurationMinutes,
		Type:            bookingType,
		Status:          entity.BookingStatusPending,
		Reason:          req.Reason,
		Notes:           req.Notes,
	}

	if err := u.bookingRepo.Create(tx, booking); err != nil {
		switch {
		case isDuplicateKeyError(err, "provider"):
			err = service.ErrSlotTaken
		case isDuplicateKeyError(err, "patient"):
			err = service.ErrRequesterConflict
		default:
			u.log.Warnf("Failed to create booking: %+v", err)
			return nil, err
		}
		u.metrics.RecordBookingRejection(rejectionReason(err))
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionBookingCreate, "booking", booking.ID.String(), booking); err != nil {
		return nil, err
	}

	created, err := u.bookingRepo.FindByID(tx, booking.ID)
	if err != nil {
		u.log.Warnf("Failed to reload booking %s: %+v", booking.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	response := converter.BookingToResponse(created)
	u.publish(ctx, service.EventBookingCreated, response)
	u.metrics.RecordBooking(string(entity.BookingStatusPending))

	return response, nil
}

// GetMyBookings returns all bookings for the logged-in patient
func (u *bookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	bookings, err := u.bookingRepo.FindByPatientID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetProviderBookings lists the logged-in doctor's bookings, optionally for one date.
func (u *bookingUsecase) GetProviderBookings(ctx context.Context, date string) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	var filter *wallclock.Date
	if date != "" {
		day, err := wallclock.ParseDate(date)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter = &day
	}

	bookings, err := u.bookingRepo.FindByProviderID(u.db.WithContext(ctx), userID, filter)
	if err != nil {
		u.log.Warnf("Failed to find bookings for provider %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.InvolvedParty(userID) {
		return nil, ErrBookingNotOwned
	}

	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return u.transition(ctx, bookingID, entity.BookingStatusConfirmed, entity.AuditActionBookingConfirm, service.EventBookingConfirmed)
}

func (u *bookingUsecase) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return u.transition(ctx, bookingID, entity.BookingStatusCompleted, entity.AuditActionBookingComplete, service.EventBookingCompleted)
}

func (u *bookingUsecase) MarkNoShow(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	return u.transition(ctx, bookingID, entity.BookingStatusNoShow, entity.AuditActionBookingNoShow, service.EventBookingNoShow)
}

// transition moves a booking the provider owns to the next lifecycle status.
func (u *bookingUsecase) transition(ctx context.Context, bookingID uuid.UUID, to entity.BookingStatus, action, eventType string) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindByID(tx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.ProviderID != userID {
		return nil, ErrBookingNotOwned
	}
	if !booking.Status.CanTransitionTo(to) {
		return nil, ErrInvalidTransition
	}

	from := booking.Status
	affected, err := u.bookingRepo.UpdateStatus(tx, bookingID, from, to)
	if err != nil {
		u.log.Warnf("Failed to update booking %s to %s: %+v", bookingID, to, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrBookingConflict
	}
	booking.Status = to

	oldValue := map[string]interface{}{"status": from}
	newValue := map[string]interface{}{"status": to}
	if err := u.auditService.LogUpdate(ctx, tx, &userID, action, "booking", bookingID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	response := converter.BookingToResponse(booking)
	u.publish(ctx, eventType, response)
	u.metrics.RecordBooking(string(to))

	return response, nil
}

// CancelBooking lets either party cancel while more than 24 hours remain
// before the appointment, read in the service timezone.
func (u *bookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.bookingRepo.FindByID(tx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.InvolvedParty(userID) {
		return nil, ErrBookingNotOwned
	}
	if !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		return nil, ErrInvalidTransition
	}

	now := u.now()
	if !scheduling.CanCancel(booking.StartsAt(u.loc), now) {
		return nil, ErrCancellationWindowClosed
	}

	from := booking.Status
	cancelledAt := now.UTC()
	affected, err := u.bookingRepo.Cancel(tx, bookingID, from, userID, cancelledAt, req.Reason)
	if err != nil {
		u.log.Warnf("Failed to cancel booking %s: %+v", bookingID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrBookingConflict
	}

	booking.Status = entity.BookingStatusCancelled
	booking.CancelledBy = &userID
	booking.CancelledAt = &cancelledAt
	booking.CancelReason = req.Reason

	oldValue := map[string]interface{}{"status": from}
	newValue := map[string]interface{}{"status": booking.Status, "cancel_reason": req.Reason}
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionBookingCancel, "booking", bookingID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	response := converter.BookingToResponse(booking)
	u.publish(ctx, service.EventBookingCancelled, response)
	u.metrics.RecordBooking(string(entity.BookingStatusCancelled))

	return response, nil
}

func (u *bookingUsecase) publish(ctx context.Context, eventType string, booking *dto.BookingResponse) {
	event := service.NewEvent(eventType, booking.ID.String(), booking)
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish %s for booking %s: %+v", eventType, booking.ID, err)
	}
}

func rejectionReason(err error) string {
	switch err {
	case service.ErrProviderNotFound:
		return "provider_not_found"
	case service.ErrProviderUnavailable:
		return "provider_unavailable"
	case service.ErrProviderClosed:
		return "provider_closed"
	case service.ErrOutsideWorkingHours:
		return "outside_working_hours"
	case service.ErrSlotNotOnGrid:
		return "slot_not_on_grid"
	case service.ErrRequesterNotFound:
		return "requester_not_found"
	case service.ErrSlotTaken:
		return "slot_taken"
	case service.ErrRequesterConflict:
		return "requester_conflict"
	default:
		return "error"
	}
}
