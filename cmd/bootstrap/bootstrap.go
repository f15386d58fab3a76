package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/config"
	deliveryHttp "github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/handler"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/delivery/http/middleware"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/infrastructure/cache"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/infrastructure/database"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/infrastructure/messaging"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/repository"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/usecase"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/jwt"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/metrics"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	DB           *gorm.DB
	RedisClient  *redis.Client
	Publisher    service.EventPublisher
	ExpiryWorker *service.PrescriptionExpiryWorker
	Server       *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	loc, err := cfg.App.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.App.Timezone, err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if cfg.DB.Migrate {
		if err := database.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize event publisher
	log := logrus.StandardLogger()
	if len(cfg.Kafka.Brokers) > 0 {
		app.Publisher = messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		logrus.Infof("Publishing domain events to Kafka topic %s", cfg.Kafka.Topic)
	} else {
		app.Publisher = service.NewNopPublisher()
		logrus.Warn("KAFKA_BROKERS not set, domain events are discarded")
	}

	// Initialize all layers
	app.Server, app.ExpiryWorker = initializeServer(cfg, db, redisClient, app.Publisher, loc, log)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	publisher service.EventPublisher,
	loc *time.Location,
	log *logrus.Logger,
) (*http.Server, *service.PrescriptionExpiryWorker) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	collector := metrics.NewCollector("dawini")

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	pharmacyProfileRepo := repository.NewPharmacyProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	workingHoursRepo := repository.NewWorkingHoursRepository()
	bookingRepo := repository.NewBookingRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	tokenStore := service.NewRedisTokenStore(redisClient)
	auditService := service.NewAuditService(log, auditLogRepo)
	bookingGuard := service.NewBookingGuard(log, userRepo, doctorProfileRepo, workingHoursRepo, bookingRepo)
	expiryWorker := service.NewPrescriptionExpiryWorker(db, log, prescriptionRepo, collector, cfg.Prescription.ExpiryInterval)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorProfileRepo, pharmacyProfileRepo, patientProfileRepo, auditService, jwtService, tokenStore)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, userRepo, doctorProfileRepo, auditService)
	pharmacyProfileUsecase := usecase.NewPharmacyProfileUsecase(db, log, pharmacyProfileRepo, auditService)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, log, userRepo, patientProfileRepo, auditService)
	scheduleUsecase := usecase.NewScheduleUsecase(db, log, doctorProfileRepo, pharmacyProfileRepo, workingHoursRepo, auditService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, doctorProfileRepo, workingHoursRepo, bookingRepo)
	bookingUsecase := usecase.NewBookingUsecase(db, log, bookingGuard, bookingRepo, auditService, publisher, collector, loc)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, userRepo, doctorProfileRepo, bookingRepo, pharmacyProfileRepo, prescriptionRepo, auditService, publisher, collector, cfg.Prescription.Validity)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, customValidator),
		Doctor:       handler.NewDoctorHandler(doctorProfileUsecase, customValidator),
		Pharmacy:     handler.NewPharmacyHandler(pharmacyProfileUsecase, customValidator),
		Patient:      handler.NewPatientHandler(patientProfileUsecase, customValidator),
		Schedule:     handler.NewScheduleHandler(scheduleUsecase, availabilityUsecase, customValidator),
		Booking:      handler.NewBookingHandler(bookingUsecase, customValidator),
		Prescription: handler.NewPrescriptionHandler(prescriptionUsecase, customValidator),
		AuditLog:     handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	rateLimiter := middleware.NewRateLimiter(redisClient, log, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, rateLimiter, middleware.AccessLog(log), collector)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, expiryWorker
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.ExpiryWorker.Start()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background work and closes all connections
func (app *App) Close() {
	if app.ExpiryWorker != nil {
		app.ExpiryWorker.Stop()
	}

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			logrus.Warnf("Failed to close event publisher: %v", err)
		}
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
