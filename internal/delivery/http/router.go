package http

import (
	"net/http"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/handler"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/middleware"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/metrics"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	pharmacyHandler     *handler.PharmacyHandler
	patientHandler      *handler.PatientHandler
	scheduleHandler     *handler.ScheduleHandler
	bookingHandler      *handler.BookingHandler
	prescriptionHandler *handler.PrescriptionHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	rateLimiter         *middleware.RateLimiter
	accessLog           func(http.Handler) http.Handler
	metrics             *metrics.Collector
}

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Doctor       *handler.DoctorHandler
	Pharmacy     *handler.PharmacyHandler
	Patient      *handler.PatientHandler
	Schedule     *handler.ScheduleHandler
	Booking      *handler.BookingHandler
	Prescription *handler.PrescriptionHandler
	AuditLog     *handler.AuditLogHandler
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter *middleware.RateLimiter,
	accessLog func(http.Handler) http.Handler,
	collector *metrics.Collector,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         handlers.Auth,
		doctorHandler:       handlers.Doctor,
		pharmacyHandler:     handlers.Pharmacy,
		patientHandler:      handlers.Patient,
		scheduleHandler:     handlers.Schedule,
		bookingHandler:      handlers.Booking,
		prescriptionHandler: handlers.Prescription,
		auditLogHandler:     handlers.AuditLog,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		rateLimiter:         rateLimiter,
		accessLog:           accessLog,
		metrics:             collector,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(middleware.RequestID)
	r.router.Use(r.accessLog)
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.metrics.HTTPMiddleware)

	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public routes are limited per client address
	public := api.NewRoute().Subrouter()
	public.Use(r.rateLimiter.Limit)

	// Auth routes (public)
	public.HandleFunc("/auth/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	public.HandleFunc("/auth/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	public.HandleFunc("/auth/register/pharmacy", r.authHandler.RegisterPharmacy).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/auth/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Directory (public)
	public.HandleFunc("/doctors", r.doctorHandler.SearchDoctors).Methods(http.MethodGet)
	public.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	public.HandleFunc("/doctors/{id}/schedule", r.scheduleHandler.GetDoctorSchedule).Methods(http.MethodGet)
	public.HandleFunc("/doctors/{id}/availability", r.scheduleHandler.GetDoctorAvailability).Methods(http.MethodGet)
	public.HandleFunc("/pharmacies", r.pharmacyHandler.SearchPharmacies).Methods(http.MethodGet)
	public.HandleFunc("/pharmacies/{id}", r.pharmacyHandler.GetPharmacy).Methods(http.MethodGet)
	public.HandleFunc("/pharmacies/{id}/schedule", r.scheduleHandler.GetPharmacySchedule).Methods(http.MethodGet)

	// Everything below needs a valid access token and is limited per user
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.Use(r.rateLimiter.Limit)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Patient
	protected.Handle("/patient/profile", patientOnly(r.patientHandler.GetSelfProfile)).Methods(http.MethodGet)
	protected.Handle("/patient/profile", patientOnly(r.patientHandler.UpdateSelfProfile)).Methods(http.MethodPut)
	protected.Handle("/patient/bookings", patientOnly(r.bookingHandler.GetMyBookings)).Methods(http.MethodGet)
	protected.Handle("/patient/prescriptions", patientOnly(r.prescriptionHandler.GetPatientPrescriptions)).Methods(http.MethodGet)
	protected.Handle("/bookings", patientOnly(r.bookingHandler.CreateBooking)).Methods(http.MethodPost)

	// Doctor
	protected.Handle("/doctor/profile", doctorOnly(r.doctorHandler.UpdateSelfProfile)).Methods(http.MethodPut)
	protected.Handle("/doctor/schedule", doctorOnly(r.scheduleHandler.SetSelfSchedule)).Methods(http.MethodPut)
	protected.Handle("/doctor/bookings", doctorOnly(r.bookingHandler.GetProviderBookings)).Methods(http.MethodGet)
	protected.Handle("/doctor/prescriptions", doctorOnly(r.prescriptionHandler.GetDoctorPrescriptions)).Methods(http.MethodGet)
	protected.Handle("/bookings/{id}/confirm", doctorOnly(r.bookingHandler.ConfirmBooking)).Methods(http.MethodPut)
	protected.Handle("/bookings/{id}/complete", doctorOnly(r.bookingHandler.CompleteBooking)).Methods(http.MethodPut)
	protected.Handle("/bookings/{id}/no-show", doctorOnly(r.bookingHandler.MarkNoShow)).Methods(http.MethodPut)
	protected.Handle("/prescriptions", doctorOnly(r.prescriptionHandler.IssuePrescription)).Methods(http.MethodPost)

	// Pharmacy; the code routes are registered before /prescriptions/{id}
	protected.Handle("/pharmacy/profile", pharmacyOnly(r.pharmacyHandler.UpdateSelfProfile)).Methods(http.MethodPut)
	protected.Handle("/pharmacy/schedule", pharmacyOnly(r.scheduleHandler.SetSelfSchedule)).Methods(http.MethodPut)
	protected.Handle("/prescriptions/code/{code}", pharmacyOnly(r.prescriptionHandler.GetPrescriptionByCode)).Methods(http.MethodGet)
	protected.Handle("/prescriptions/code/{code}/fill", pharmacyOnly(r.prescriptionHandler.FillPrescription)).Methods(http.MethodPut)

	// Any party; ownership is checked by the usecase
	protected.HandleFunc("/bookings/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}/cancel", r.bookingHandler.CancelBooking).Methods(http.MethodPut)
	protected.HandleFunc("/prescriptions/{id}", r.prescriptionHandler.GetPrescription).Methods(http.MethodGet)
	protected.Handle("/prescriptions/{id}/cancel", doctorOnly(r.prescriptionHandler.CancelPrescription)).Methods(http.MethodPut)
	protected.Handle("/prescriptions/{id}", doctorOnly(r.prescriptionHandler.DeletePrescription)).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(r.rateLimiter.Limit)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/doctors/{id}/verification", r.doctorHandler.SetVerification).Methods(http.MethodPut)
	admin.HandleFunc("/pharmacies/{id}/verification", r.pharmacyHandler.SetVerification).Methods(http.MethodPut)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	return r.router
}

func patientOnly(h http.HandlerFunc) http.Handler  { return middleware.RequirePatient(h) }
func doctorOnly(h http.HandlerFunc) http.Handler   { return middleware.RequireDoctor(h) }
func pharmacyOnly(h http.HandlerFunc) http.Handler { return middleware.RequirePharmacy(h) }

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
