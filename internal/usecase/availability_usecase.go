package usecase

import (
	"context"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/scheduling"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	ListFreeSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
	workingHoursRepo  repository.WorkingHoursRepository
	bookingRepo       repository.BookingRepository
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	workingHoursRepo repository.WorkingHoursRepository,
	bookingRepo repository.BookingRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
		workingHoursRepo:  workingHoursRepo,
		bookingRepo:       bookingRepo,
	}
}

// ListFreeSlots returns the open slot start times of a doctor on one date.
// A closed day, or a doctor not taking bookings, yields an empty list.
func (u *availabilityUsecase) ListFreeSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := wallclock.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	duration := doctor.SlotDurationMinutes
	if duration <= 0 {
		duration = scheduling.DefaultSlotMinutes
	}
	weekday := entity.WeekdayOf(day.Weekday())
	response := &dto.AvailabilityResponse{
		ProviderID:          doctorID,
		Date:                day.String(),
		Weekday:             string(weekday),
		SlotDurationMinutes: duration,
		Slots:               []string{},
	}
	if !doctor.Bookable() {
		return response, nil
	}

	hours, err := u.workingHoursRepo.FindByProviderAndWeekday(db, doctorID, weekday)
	if err != nil {
		u.log.Warnf("Failed to find working hours for %s: %+v", doctorID, err)
		return nil, err
	}
	if hours == nil || !hours.IsOpen {
		return response, nil
	}

	bookings, err := u.bookingRepo.FindActiveByProviderAndDate(db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to load bookings for %s on %s: %+v", doctorID, day, err)
		return nil, err
	}
	booked := make([]scheduling.Interval, len(bookings))
	for i, b := range bookings {
		booked[i] = scheduling.NewInterval(b.AppointmentTime, b.DurationMinutes)
	}

	window := scheduling.Window{IsOpen: true, Start: hours.StartTime, End: hours.EndTime}
	for _, slot := range scheduling.FreeSlots(window, duration, booked) {
		response.Slots = append(response.Slots, slot.String())
	}
	return response, nil
}
