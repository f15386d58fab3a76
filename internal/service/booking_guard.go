package service

import (
	"errors"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/scheduling"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProviderNotFound    = errors.New("provider not found")
	ErrProviderUnavailable = errors.New("provider is not accepting bookings")
	ErrProviderClosed      = errors.New("provider does not work on this day")
	ErrOutsideWorkingHours = errors.New("requested time is outside working hours")
	ErrSlotNotOnGrid       = errors.New("requested time does not start a consultation slot")
	ErrRequesterNotFound   = errors.New("requester not found")
	ErrSlotTaken           = errors.New("this slot is already booked")
	ErrRequesterConflict   = errors.New("you already have a booking at this time")
)

// GuardRequest is a proposed booking.
type GuardRequest struct {
	ProviderID  uuid.UUID
	RequesterID uuid.UUID
	Date        wallclock.Date
	Time        wallclock.TimeOfDay
}

// GuardResult carries what the guard loaded so the caller does not reload it.
type GuardResult struct {
	Provider        *entity.DoctorProfile
	DurationMinutes int
}

// BookingGuard admits or rejects a proposed booking. Check must run inside
// the transaction that inserts the booking: it locks the provider and the
// requester rows, so concurrent attempts on either side queue behind it.
type BookingGuard interface {
	Check(tx *gorm.DB, req GuardRequest) (*GuardResult, error)
}

type bookingGuard struct {
	log              *logrus.Logger
	userRepo         repository.UserRepository
	doctorRepo       repository.DoctorProfileRepository
	workingHoursRepo repository.WorkingHoursRepository
	bookingRepo      repository.BookingRepository
}

func NewBookingGuard(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorProfileRepository,
	workingHoursRepo repository.WorkingHoursRepository,
	bookingRepo repository.BookingRepository,
) BookingGuard {
	return &bookingGuard{
		log:              log,
		userRepo:         userRepo,
		doctorRepo:       doctorRepo,
		workingHoursRepo: workingHoursRepo,
		bookingRepo:      bookingRepo,
	}
}

func (g *bookingGuard) Check(tx *gorm.DB, req GuardRequest) (*GuardResult, error) {
	// 1. Provider exists and takes bookings
	provider, err := g.doctorRepo.LockByUserID(tx, req.ProviderID)
	if err != nil {
		g.log.Warnf("Failed to lock provider %s: %+v", req.ProviderID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}
	if !provider.Bookable() {
		return nil, ErrProviderUnavailable
	}
	duration := provider.SlotDurationMinutes
	if duration <= 0 {
		duration = scheduling.DefaultSlotMinutes
	}

	// 2-3. Working day, inside working hours, on the slot grid
	hours, err := g.workingHoursRepo.FindByProviderAndWeekday(tx, req.ProviderID, entity.WeekdayOf(req.Date.Weekday()))
	if err != nil {
		g.log.Warnf("Failed to find working hours for provider %s: %+v", req.ProviderID, err)
		return nil, err
	}
	if err := scheduling.CheckSlot(windowOf(hours), req.Time, duration); err != nil {
		switch {
		case errors.Is(err, scheduling.ErrClosed):
			return nil, ErrProviderClosed
		case errors.Is(err, scheduling.ErrOffGrid):
			return nil, ErrSlotNotOnGrid
		default:
			return nil, ErrOutsideWorkingHours
		}
	}

	requester, err := g.userRepo.LockByID(tx, req.RequesterID)
	if err != nil {
		g.log.Warnf("Failed to lock requester %s: %+v", req.RequesterID, err)
		return nil, err
	}
	if requester == nil {
		return nil, ErrRequesterNotFound
	}

	wanted := scheduling.NewInterval(req.Time, duration)

	// 4. Slot free on the provider side
	providerBookings, err := g.bookingRepo.FindActiveByProviderAndDate(tx, req.ProviderID, req.Date)
	if err != nil {
		g.log.Warnf("Failed to load provider bookings: %+v", err)
		return nil, err
	}
	if overlapsBooking(wanted, providerBookings) {
		return nil, ErrSlotTaken
	}

	// 5. Requester not already booked elsewhere at that time
	requesterBookings, err := g.bookingRepo.FindActiveByPatientAndDate(tx, req.RequesterID, req.Date)
	if err != nil {
		g.log.Warnf("Failed to load requester bookings: %+v", err)
		return nil, err
	}
	if overlapsBooking(wanted, requesterBookings) {
		return nil, ErrRequesterConflict
	}

	return &GuardResult{Provider: provider, DurationMinutes: duration}, nil
}

func windowOf(hours *entity.WorkingHours) scheduling.Window {
	if hours == nil {
		return scheduling.Window{}
	}
	return scheduling.Window{IsOpen: hours.IsOpen, Start: hours.StartTime, End: hours.EndTime}
}

func overlapsBooking(wanted scheduling.Interval, bookings []entity.Booking) bool {
	for _, b := range bookings {
		if wanted.Overlaps(scheduling.NewInterval(b.AppointmentTime, b.DurationMinutes)) {
			return true
		}
	}
	return false
}
