package usecase

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type bookingFixture struct {
	db        *gorm.DB
	usecase   *bookingUsecase
	publisher *recordingPublisher
}

func newBookingFixture(t *testing.T, guard service.BookingGuard) *bookingFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()
	bookingRepo := repository.NewBookingRepository()
	if guard == nil {
		guard = service.NewBookingGuard(
			log,
			repository.NewUserRepository(),
			repository.NewDoctorProfileRepository(),
			repository.NewWorkingHoursRepository(),
			bookingRepo,
		)
	}
	publisher := &recordingPublisher{}
	uc := NewBookingUsecase(db, log, guard, bookingRepo, newAuditService(), publisher, nil, algiers(t)).(*bookingUsecase)
	return &bookingFixture{db: db, usecase: uc, publisher: publisher}
}

// admitAll skips the guard so only the storage indexes stand between two
// bookings of the same slot.
type admitAll struct{}

func (admitAll) Check(_ *gorm.DB, _ service.GuardRequest) (*service.GuardResult, error) {
	return &service.GuardResult{DurationMinutes: 30}, nil
}

func bookingRequest(providerID uuid.UUID, at string) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		ProviderID: providerID,
		Date:       monday.String(),
		Time:       at,
		Reason:     "fever",
	}
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t, nil)
	doctor := seedDoctor(t, f.db)
	patient := seedUser(t, f.db, entity.RoleIDPatient)

	resp, err := f.usecase.CreateBooking(asUser(patient), bookingRequest(doctor.ID, "09:00"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.BookingCode, "BK-20250310-"), resp.BookingCode)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "consultation", resp.Type)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "09:00", resp.Time)
	assert.Equal(t, 30, resp.DurationMinutes)
	require.NotNil(t, resp.Provider)
	assert.Equal(t, doctor.FullName, resp.Provider.FullName)
	assert.Equal(t, []string{service.EventBookingCreated}, f.publisher.types())

	var audits int64
	require.NoError(t, f.db.Model(&entity.AuditLog{}).Where("action = ?", entity.AuditActionBookingCreate).Count(&audits).Error)
	assert.EqualValues(t, 1, audits)
}

func TestCreateBookingRejectsConflicts(t *testing.T) {
	f := newBookingFixture(t, nil)
	doctor := seedDoctor(t, f.db)
	colleague := seedDoctor(t, f.db)
	first := seedUser(t, f.db, entity.RoleIDPatient)
	second := seedUser(t, f.db, entity.RoleIDPatient)

	_, err := f.usecase.CreateBooking(asUser(first), bookingRequest(doctor.ID, "09:00"))
	require.NoError(t, err)

	_, err = f.usecase.CreateBooking(asUser(second), bookingRequest(doctor.ID, "09:00"))
	assert.ErrorIs(t, err, service.ErrSlotTaken)

	_, err = f.usecase.CreateBooking(asUser(first), bookingRequest(colleague.ID, "09:00"))
	assert.ErrorIs(t, err, service.ErrRequesterConflict)

	var count int64
	require.NoError(t, f.db.Model(&entity.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Len(t, f.publisher.types(), 1)
}

func TestCreateBookingInvalidInput(t *testing.T) {
	f := newBookingFixture(t, nil)
	doctor := seedDoctor(t, f.db)
	patient := seedUser(t, f.db, entity.RoleIDPatient)

	req := bookingRequest(doctor.ID, "09:00")
	req.Date = "10/03/2025"
	_, err := f.usecase.CreateBooking(asUser(patient), req)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = f.usecase.CreateBooking(asUser(patient), bookingRequest(doctor.ID, "9:00"))
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = f.usecase.CreateBooking(asUser(patient), bookingRequest(doctor.ID, "12:00"))
	assert.ErrorIs(t, err, service.ErrOutsideWorkingHours)
}

func TestCreateBookingReusesCancelledSlot(t *testing.T) {
	f := newBookingFixture(t, nil)
	doctor := seedDoctor(t, f.db)
	patient := seedUser(t, f.db, entity.RoleIDPatient)
	other := seedUser(t, f.db, entity.RoleIDPatient)
	seedBooking(t, f.db, doctor.ID, other.ID, monday, "09:00", entity.BookingStatusCancelled)

	resp, err := f.usecase.CreateBooking(asUser(patient), bookingRequest(doctor.ID, "09:00"))

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestCreateBookingMapsUniqueIndexViolations(t *testing.T) {
	t.Run("provider slot", func(t *testing.T) {
		f := newBookingFixture(t, admitAll{})
		doctor := seedDoctor(t, f.db)
		patient := seedUser(t, f.db, entity.RoleIDPatient)
		other := seedUser(t, f.db, entity.RoleIDPatient)
		seedBooking(t, f.db, doctor.ID, other.ID, monday, "09:00", entity.BookingStatusPending)

		_, err := f.usecase.CreateBooking(asUser(patient), bookingRequest(doctor.ID, "09:00"))
		assert.ErrorIs(t, err, service.ErrSlotTaken)
	})

	t.Run("patient slot", func(t *testing.T) {
		f := newBookingFixture(t, admitAll{})
		doctor := seedDoctor(t, f.db)
		colleague := seedDoctor(t, f.db)
		patient := seedUser(t, f.db, entity.RoleIDPatient)
		seedBooking(t, f.db, colleague.ID, patient.ID, monday, "09:00", entity.BookingStatusConfirmed)

		_, err := f.usecase.CreateBooking(asUser(patient), bookingRequest(doctor.ID, "09:00"))
		assert.ErrorIs(t, err, service.ErrRequesterConflict)
	})
}

func TestConcurrentBookingsOfOneSlot(t *testing.T) {
	tests := []struct {
		name  string
		guard service.BookingGuard
	}{
		{"guarded", nil},
		{"indexes only", admitAll{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t, tt.guard)
			doctor := seedDoctor(t, f.db)
			patients := []*entity.User{
				seedUser(t, f.db, entity.RoleIDPatient),
				seedUser(t, f.db, entity.RoleIDPatient),
			}

			start := make(chan struct{})
			errs := make(chan error, len(patients))
			var wg sync.WaitGroup
			for _, patient := range patients {
				wg.Add(1)
				go func(patient *entity.User) {
					defer wg.Done()
					<-start
					_, err := f.usecase.CreateBooking(asUser(patient), bookingRequest(doctor.ID, "09:00"))
					errs <- err
				}(patient)
			}
			close(start)
			wg.Wait()
			close(errs)

			var admitted, taken int
			for err := range errs {
				switch {
				case err == nil:
					admitted++
				case assert.ErrorIs(t, err, service.ErrSlotTaken):
					taken++
				}
			}
			assert.Equal(t, 1, admitted)
			assert.Equal(t, 1, taken)

			var stored int64
			require.NoError(t, f.db.Model(&entity.Booking{}).Where("provider_id = ?", doctor.ID).Count(&stored).Error)
			assert.EqualValues(t, 1, stored)
			assert.Equal(t, []string{service.EventBookingCreated}, f.publisher.types())
		})
	}
}

func TestBookingTransitions(t *testing.T) {
	f := newBookingFixture(t, nil)
	doctor := seedDoctor(t, f.db)
	patient := seedUser(t, f.db, entity.RoleIDPatient)
	booking := seedBooking(t, f.db, doctor.ID, patient.ID, monday, "09:00", entity.BookingStatusPending)

	_, err := f.usecase.ConfirmBooking(asUser(patient), booking.ID)
	assert.ErrorIs(t, err, ErrBookingNotOwned)

	_, err = f.usecase.CompleteBooking(asUser(doctor), booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resp, err := f.usecase.ConfirmBooking(asUser(doctor), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	resp, err = f.usecase.CompleteBooking(asUser(doctor), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	_, err = f.usecase.MarkNoShow(asUser(doctor), booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.usecase.ConfirmBooking(asUser(doctor), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)

	assert.Equal(t, []string{service.EventBookingConfirmed, service.EventBookingCompleted}, f.publisher.types())
}

func TestMarkNoShowFromPending(t *testing.T) {
	f := newBookingFixture(t, nil)
	doctor := seedDoctor(t, f.db)
	patient := seedUser(t, f.db, entity.RoleIDPatient)
	booking := seedBooking(t, f.db, doctor.ID, patient.ID, monday, "10:00", entity.BookingStatusPending)

	resp, err := f.usecase.MarkNoShow(asUser(doctor), booking.ID)

	require.NoError(t, err)
	assert.Equal(t, "no-show", resp.Status)
}

func TestCancelBookingWindow(t *testing.T) {
	loc := algiers(t)
	start := monday.At(wallclock.MustTimeOfDay("09:00"), loc)

	tests := []struct {
		name   string
		before time.Duration
		want   error
	}{
		{"25 hours ahead", 25 * time.Hour, nil},
		{"just over 24 hours", 24*time.Hour + time.Minute, nil},
		{"exactly 24 hours", 24 * time.Hour, ErrCancellationWindowClosed},
		{"23 hours ahead", 23 * time.Hour, ErrCancellationWindowClosed},
		{"already started", -time.Hour, ErrCancellationWindowClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t, nil)
			f.usecase.now = fixedClock(start.Add(-tt.before))
			doctor := seedDoctor(t, f.db)
			patient := seedUser(t, f.db, entity.RoleIDPatient)
			booking := seedBooking(t, f.db, doctor.ID, patient.ID, monday, "09:00", entity.BookingStatusConfirmed)

			resp, err := f.usecase.CancelBooking(asUser(patient), booking.ID, &dto.CancelBookingRequest{Reason: "travel"})

			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "cancelled", resp.Status)
			require.NotNil(t, resp.CancelledBy)
			assert.Equal(t, patient.ID, *resp.CancelledBy)
			assert.Equal(t, "travel", resp.CancelReason)
		})
	}
}

func TestCancelBookingParties(t *testing.T) {
	f := newBookingFixture(t, nil)
	f.usecase.now = fixedClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	doctor := seedDoctor(t, f.db)
	patient := seedUser(t, f.db, entity.RoleIDPatient)
	stranger := seedUser(t, f.db, entity.RoleIDPatient)
	booking := seedBooking(t, f.db, doctor.ID, patient.ID, monday, "09:00", entity.BookingStatusPending)

	_, err := f.usecase.CancelBooking(asUser(stranger), booking.ID, &dto.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrBookingNotOwned)

	resp, err := f.usecase.CancelBooking(asUser(doctor), booking.ID, &dto.CancelBookingRequest{Reason: "conference"})
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, *resp.CancelledBy)

	_, err = f.usecase.CancelBooking(asUser(patient), booking.ID, &dto.CancelBookingRequest{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := repository.NewBookingRepository().FindByID(f.db, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)
}

func TestGetBookingAndLists(t *testing.T) {
	f := newBookingFixture(t, nil)
	doctor := seedDoctor(t, f.db)
	patient := seedUser(t, f.db, entity.RoleIDPatient)
	stranger := seedUser(t, f.db, entity.RoleIDPatient)
	booking := seedBooking(t, f.db, doctor.ID, patient.ID, monday, "09:00", entity.BookingStatusPending)
	seedBooking(t, f.db, doctor.ID, stranger.ID, monday.AddDays(7), "09:00", entity.BookingStatusPending)

	resp, err := f.usecase.GetBooking(asUser(doctor), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingCode, resp.BookingCode)

	_, err = f.usecase.GetBooking(asUser(stranger), booking.ID)
	assert.ErrorIs(t, err, ErrBookingNotOwned)

	mine, err := f.usecase.GetMyBookings(asUser(patient))
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	all, err := f.usecase.GetProviderBookings(asUser(doctor), "")
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	day, err := f.usecase.GetProviderBookings(asUser(doctor), monday.String())
	require.NoError(t, err)
	assert.Equal(t, 1, day.Total)

	_, err = f.usecase.GetProviderBookings(asUser(doctor), "tomorrow")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
