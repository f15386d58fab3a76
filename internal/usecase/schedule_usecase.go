package usecase

import (
	"context"
	"errors"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/converter"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/dto"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/middleware"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDuplicateWeekday     = errors.New("each weekday may appear only once")
	ErrInvalidWorkingHours  = errors.New("open days need a start time at or before the end time")
	ErrInvalidTimeFormat    = errors.New("invalid time format, use HH:MM")
	ErrScheduleOwnerMissing = errors.New("no provider profile for this account")
)

type ScheduleUsecase interface {
	GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleResponse, error)
	GetPharmacySchedule(ctx context.Context, pharmacyID uuid.UUID) (*dto.ScheduleResponse, error)
	SetSelfSchedule(ctx context.Context, req *dto.SetScheduleRequest) (*dto.ScheduleResponse, error)
}

type scheduleUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	doctorProfileRepo   repository.DoctorProfileRepository
	pharmacyProfileRepo repository.PharmacyProfileRepository
	workingHoursRepo    repository.WorkingHoursRepository
	auditService        service.AuditService
}

func NewScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	pharmacyProfileRepo repository.PharmacyProfileRepository,
	workingHoursRepo repository.WorkingHoursRepository,
	auditService service.AuditService,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:                  db,
		log:                 log,
		doctorProfileRepo:   doctorProfileRepo,
		pharmacyProfileRepo: pharmacyProfileRepo,
		workingHoursRepo:    workingHoursRepo,
		auditService:        auditService,
	}
}

func (u *scheduleUsecase) GetDoctorSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleResponse, error) {
	db := u.db.WithContext(ctx)
	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return u.week(db, doctorID)
}

func (u *scheduleUsecase) GetPharmacySchedule(ctx context.Context, pharmacyID uuid.UUID) (*dto.ScheduleResponse, error) {
	db := u.db.WithContext(ctx)
	pharmacy, err := u.pharmacyProfileRepo.FindByUserID(db, pharmacyID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacy %s: %+v", pharmacyID, err)
		return nil, err
	}
	if pharmacy == nil {
		return nil, ErrPharmacyNotFound
	}
	return u.week(db, pharmacyID)
}

func (u *scheduleUsecase) week(db *gorm.DB, providerID uuid.UUID) (*dto.ScheduleResponse, error) {
	hours, err := u.workingHoursRepo.FindByProvider(db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find working hours for %s: %+v", providerID, err)
		return nil, err
	}
	return converter.WeekToResponse(providerID, hours), nil
}

// SetSelfSchedule replaces the caller's whole weekly table. Doctors and
// pharmacies share the table, keyed by user id.
func (u *scheduleUsecase) SetSelfSchedule(ctx context.Context, req *dto.SetScheduleRequest) (*dto.ScheduleResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)

	hours, err := workingHoursFromRequest(req)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.ensureProvider(tx, userID, roleID); err != nil {
		return nil, err
	}

	previous, err := u.workingHoursRepo.FindByProvider(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find working hours for %s: %+v", userID, err)
		return nil, err
	}

	if err := u.workingHoursRepo.ReplaceForProvider(tx, userID, hours); err != nil {
		u.log.Warnf("Failed to replace working hours for %s: %+v", userID, err)
		return nil, err
	}

	oldValue := converter.WeekToResponse(userID, previous)
	newValue := converter.WeekToResponse(userID, hours)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionScheduleUpdate, "working_hours", userID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *scheduleUsecase) ensureProvider(tx *gorm.DB, userID uuid.UUID, roleID int) error {
	switch roleID {
	case entity.RoleIDDoctor:
		profile, err := u.doctorProfileRepo.FindByUserID(tx, userID)
		if err != nil {
			u.log.Warnf("Failed to find doctor profile: %+v", err)
			return err
		}
		if profile == nil {
			return ErrScheduleOwnerMissing
		}
	case entity.RoleIDPharmacy:
		profile, err := u.pharmacyProfileRepo.FindByUserID(tx, userID)
		if err != nil {
			u.log.Warnf("Failed to find pharmacy profile: %+v", err)
			return err
		}
		if profile == nil {
			return ErrScheduleOwnerMissing
		}
	default:
		return ErrScheduleOwnerMissing
	}
	return nil
}

func workingHoursFromRequest(req *dto.SetScheduleRequest) ([]entity.WorkingHours, error) {
	seen := make(map[entity.Weekday]bool, len(req.Days))
	hours := make([]entity.WorkingHours, 0, len(req.Days))

	for _, day := range req.Days {
		weekday := entity.Weekday(day.Weekday)
		if !weekday.Valid() {
			return nil, ErrInvalidWorkingHours
		}
		if seen[weekday] {
			return nil, ErrDuplicateWeekday
		}
		seen[weekday] = true

		row := entity.WorkingHours{Weekday: weekday, IsOpen: day.IsOpen}
		if day.IsOpen {
			start, err := wallclock.ParseTimeOfDay(day.StartTime)
			if err != nil {
				return nil, ErrInvalidTimeFormat
			}
			end, err := wallclock.ParseTimeOfDay(day.EndTime)
			if err != nil {
				return nil, ErrInvalidTimeFormat
			}
			row.StartTime = start
			row.EndTime = end
		}
		if !row.Valid() {
			return nil, ErrInvalidWorkingHours
		}
		hours = append(hours, row)
	}
	return hours, nil
}
