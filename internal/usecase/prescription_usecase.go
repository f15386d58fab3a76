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
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound  = errors.New("prescription not found")
	ErrPrescriptionNotOwned  = errors.New("prescription does not belong to you")
	ErrPrescriptionExpired   = errors.New("prescription has expired")
	ErrPrescriptionNotActive = errors.New("prescription is no longer active")
	ErrPrescriptionFilled    = errors.New("a filled prescription cannot be deleted")
	ErrPharmacyNotVerified   = errors.New("pharmacy is not verified")
	ErrDoctorNotVerified     = errors.New("only verified doctors can issue prescriptions")
	ErrBookingMismatch       = errors.New("booking does not link this doctor and patient")
)

type PrescriptionUsecase interface {
	IssuePrescription(ctx context.Context, req *dto.IssuePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetPrescription(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error)
	GetPrescriptionByCode(ctx context.Context, code string) (*dto.PrescriptionResponse, error)
	GetPatientPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error)
	GetDoctorPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error)
	FillPrescription(ctx context.Context, code string) (*dto.PrescriptionResponse, error)
	CancelPrescription(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error)
	DeletePrescription(ctx context.Context, id uuid.UUID) error
}

type prescriptionUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	userRepo            repository.UserRepository
	doctorProfileRepo   repository.DoctorProfileRepository
	bookingRepo         repository.BookingRepository
	pharmacyProfileRepo repository.PharmacyProfileRepository
	prescriptionRepo    repository.PrescriptionRepository
	auditService        service.AuditService
	publisher           service.EventPublisher
	metrics             *metrics.Collector
	validity            time.Duration
	now                 func() time.Time
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	bookingRepo repository.BookingRepository,
	pharmacyProfileRepo repository.PharmacyProfileRepository,
	prescriptionRepo repository.PrescriptionRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
	collector *metrics.Collector,
	validity time.Duration,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:                  db,
		log:                 log,
		userRepo:            userRepo,
		doctorProfileRepo:   doctorProfileRepo,
		bookingRepo:         bookingRepo,
		pharmacyProfileRepo: pharmacyProfileRepo,
		prescriptionRepo:    prescriptionRepo,
		auditService:        auditService,
		publisher:           publisher,
		metrics:             collector,
		validity:            validity,
		now:                 time.Now,
	}
}

func (u *prescriptionUsecase) IssuePrescription(ctx context.Context, req *dto.IssuePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil || !doctor.IsVerified {
		return nil, ErrDoctorNotVerified
	}

	patient, err := u.userRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil || patient.RoleID != entity.RoleIDPatient {
		return nil, ErrPatientNotFound
	}

	if req.BookingID != nil {
		booking, err := u.bookingRepo.FindByID(tx, *req.BookingID)
		if err != nil {
			u.log.Warnf("Failed to find booking %s: %+v", *req.BookingID, err)
			return nil, err
		}
		if booking == nil {
			return nil, ErrBookingNotFound
		}
		if booking.ProviderID != doctorID || booking.PatientID != req.PatientID {
			return nil, ErrBookingMismatch
		}
	}

	issuedAt := u.now().UTC()
	prescription := &entity.Prescription{
		Code:      generateCode("RX", issuedAt),
		DoctorID:  doctorID,
		PatientID: req.PatientID,
		BookingID: req.BookingID,
		Diagnosis: req.Diagnosis,
		Notes:     req.Notes,
		Items:     converter.MedicationItemsFromRequest(req.Items),
		Status:    entity.PrescriptionStatusActive,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(u.validity),
	}

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &doctorID, entity.AuditActionPrescriptionIssue, "prescription", prescription.ID.String(), prescription); err != nil {
		return nil, err
	}

	created, err := u.prescriptionRepo.FindByID(tx, prescription.ID)
	if err != nil {
		u.log.Warnf("Failed to reload prescription %s: %+v", prescription.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	response := converter.PrescriptionToResponse(created)
	u.publish(ctx, service.EventPrescriptionIssued, response)
	u.metrics.RecordPrescription(string(entity.PrescriptionStatusActive))

	return response, nil
}

// GetPrescription is visible to the issuing doctor, the patient and the
// pharmacy that filled it.
func (u *prescriptionUsecase) GetPrescription(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	prescription, err := u.find(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	filledBy := prescription.PharmacyID != nil && *prescription.PharmacyID == userID
	if prescription.DoctorID != userID && prescription.PatientID != userID && !filledBy {
		return nil, ErrPrescriptionNotOwned
	}

	return u.toResponse(prescription), nil
}

// GetPrescriptionByCode serves pharmacies looking up the code a patient hands them.
func (u *prescriptionUsecase) GetPrescriptionByCode(ctx context.Context, code string) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByCode(u.db.WithContext(ctx), code)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", code, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	return u.toResponse(prescription), nil
}

func (u *prescriptionUsecase) GetPatientPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	prescriptions, err := u.prescriptionRepo.FindByPatientID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for patient %s: %+v", userID, err)
		return nil, err
	}
	return u.toListResponse(prescriptions), nil
}

func (u *prescriptionUsecase) GetDoctorPrescriptions(ctx context.Context) (*dto.PrescriptionListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	prescriptions, err := u.prescriptionRepo.FindByDoctorID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for doctor %s: %+v", userID, err)
		return nil, err
	}
	return u.toListResponse(prescriptions), nil
}

// FillPrescription claims a prescription for the calling pharmacy. The claim
// is a conditional update, so only one pharmacy can ever fill it.
func (u *prescriptionUsecase) FillPrescription(ctx context.Context, code string) (*dto.PrescriptionResponse, error) {
	pharmacyID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pharmacy, err := u.pharmacyProfileRepo.FindByUserID(tx, pharmacyID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacy %s: %+v", pharmacyID, err)
		return nil, err
	}
	if pharmacy == nil {
		return nil, ErrPharmacyNotFound
	}
	if !pharmacy.IsVerified {
		return nil, ErrPharmacyNotVerified
	}

	prescription, err := u.prescriptionRepo.FindByCode(tx, code)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", code, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	now := u.now().UTC()
	switch {
	case prescription.Status == entity.PrescriptionStatusFilled, prescription.Status == entity.PrescriptionStatusCancelled:
		return nil, ErrPrescriptionNotActive
	case prescription.Status == entity.PrescriptionStatusExpired, prescription.IsExpiredAt(now):
		return nil, ErrPrescriptionExpired
	}

	affected, err := u.prescriptionRepo.MarkFilled(tx, prescription.ID, pharmacyID, now)
	if err != nil {
		u.log.Warnf("Failed to fill prescription %s: %+v", prescription.ID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPrescriptionNotActive
	}

	oldValue := map[string]interface{}{"status": prescription.Status}
	newValue := map[string]interface{}{"status": entity.PrescriptionStatusFilled, "pharmacy_id": pharmacyID}
	if err := u.auditService.LogUpdate(ctx, tx, &pharmacyID, entity.AuditActionPrescriptionFill, "prescription", prescription.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	filled, err := u.prescriptionRepo.FindByID(tx, prescription.ID)
	if err != nil {
		u.log.Warnf("Failed to reload prescription %s: %+v", prescription.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	response := converter.PrescriptionToResponse(filled)
	u.publish(ctx, service.EventPrescriptionFilled, response)
	u.metrics.RecordPrescription(string(entity.PrescriptionStatusFilled))

	return response, nil
}

func (u *prescriptionUsecase) CancelPrescription(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.find(tx, id)
	if err != nil {
		return nil, err
	}
	if prescription.DoctorID != doctorID {
		return nil, ErrPrescriptionNotOwned
	}
	if prescription.Status != entity.PrescriptionStatusActive {
		return nil, ErrPrescriptionNotActive
	}
	if prescription.IsExpiredAt(u.now()) {
		return nil, ErrPrescriptionExpired
	}

	affected, err := u.prescriptionRepo.UpdateStatus(tx, id, entity.PrescriptionStatusActive, entity.PrescriptionStatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to cancel prescription %s: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPrescriptionNotActive
	}
	prescription.Status = entity.PrescriptionStatusCancelled

	oldValue := map[string]interface{}{"status": entity.PrescriptionStatusActive}
	newValue := map[string]interface{}{"status": entity.PrescriptionStatusCancelled}
	if err := u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionPrescriptionCancel, "prescription", id.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	response := converter.PrescriptionToResponse(prescription)
	u.publish(ctx, service.EventPrescriptionCancelled, response)
	u.metrics.RecordPrescription(string(entity.PrescriptionStatusCancelled))

	return response, nil
}

// DeletePrescription physically removes a prescription no pharmacy has filled.
func (u *prescriptionUsecase) DeletePrescription(ctx context.Context, id uuid.UUID) error {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	prescription, err := u.find(tx, id)
	if err != nil {
		return err
	}
	if prescription.DoctorID != doctorID {
		return ErrPrescriptionNotOwned
	}
	if !prescription.Unfilled() {
		return ErrPrescriptionFilled
	}

	affected, err := u.prescriptionRepo.DeleteUnfilled(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete prescription %s: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrPrescriptionFilled
	}

	if err := u.auditService.LogDelete(ctx, tx, &doctorID, entity.AuditActionPrescriptionDelete, "prescription", id.String(), converter.PrescriptionToResponse(prescription)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *prescriptionUsecase) find(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	prescription, err := u.prescriptionRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", id, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	return prescription, nil
}

// markLapsed reports a lapsed prescription as expired even before the
// expiry worker has flipped its row.
func (u *prescriptionUsecase) markLapsed(p *entity.Prescription) {
	if p.Status == entity.PrescriptionStatusActive && p.IsExpiredAt(u.now()) {
		p.Status = entity.PrescriptionStatusExpired
	}
}

func (u *prescriptionUsecase) toResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	u.markLapsed(p)
	return converter.PrescriptionToResponse(p)
}

func (u *prescriptionUsecase) toListResponse(prescriptions []entity.Prescription) *dto.PrescriptionListResponse {
	for i := range prescriptions {
		u.markLapsed(&prescriptions[i])
	}
	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}
}

func (u *prescriptionUsecase) publish(ctx context.Context, eventType string, prescription *dto.PrescriptionResponse) {
	event := service.NewEvent(eventType, prescription.ID.String(), prescription)
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish %s for prescription %s: %+v", eventType, prescription.ID, err)
	}
}
