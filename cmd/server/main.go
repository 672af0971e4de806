package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hadfi53/rakb-sub000/internal/application"
	"github.com/hadfi53/rakb-sub000/internal/cache"
	"github.com/hadfi53/rakb-sub000/internal/consumers"
	bookingDomain "github.com/hadfi53/rakb-sub000/internal/domain/booking"
	"github.com/hadfi53/rakb-sub000/internal/handler"
	"github.com/hadfi53/rakb-sub000/internal/platform/auth"
	"github.com/hadfi53/rakb-sub000/internal/platform/config"
	"github.com/hadfi53/rakb-sub000/internal/platform/database"
	"github.com/hadfi53/rakb-sub000/internal/platform/health"
	"github.com/hadfi53/rakb-sub000/internal/platform/kafka"
	"github.com/hadfi53/rakb-sub000/internal/platform/logger"
	"github.com/hadfi53/rakb-sub000/internal/platform/middleware"
	"github.com/hadfi53/rakb-sub000/internal/repository"
)

// devConstraints is applied after dev auto-migrate. Production relies on the
// versioned migrations instead.
const devConstraints = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap;
ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
    EXCLUDE USING gist (
        vehicle_id WITH =,
        daterange(start_date, end_date) WITH &&
    ) WHERE (status IN ('confirmed', 'active'));

ALTER TABLE calendar_blocks DROP CONSTRAINT IF EXISTS calendar_blocks_no_overlap;
ALTER TABLE calendar_blocks ADD CONSTRAINT calendar_blocks_no_overlap
    EXCLUDE USING gist (
        vehicle_id WITH =,
        daterange(start_date, end_date) WITH &&
    );
`

func main() {
	// Load configuration
	v, err := config.Load("RAKB")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	appEnv := config.GetAppEnv(v)
	port := config.GetServicePort(v, "booking.port")
	dbConfig := config.LoadDatabaseConfig(v, "booking.db.name")
	kafkaConfig := config.LoadKafkaConfig(v)
	redisConfig := config.LoadRedisConfig(v)
	jwtConfig := config.LoadJWTConfig(v)

	// Initialize logger
	log, err := logger.NewNamed(appEnv, "rakb-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting rakb-booking",
		zap.String("port", port),
	)

	// Connect to database
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if appEnv == "development" {
		if err := db.AutoMigrate(
			&repository.VehicleModel{},
			&repository.BookingModel{},
			&repository.CalendarBlockModel{},
			&repository.ProfileModel{},
			&repository.ApprovedDocumentModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		if err := db.Exec(devConstraints).Error; err != nil {
			log.Fatal("failed to apply exclusion constraints", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		jwtConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(kafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize Redis-backed availability cache
	redisClient := cache.NewClient(redisConfig)
	defer func() { _ = redisClient.Close() }()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	var rangeCache application.RangeCache
	if err := cache.Ping(pingCtx, redisClient); err != nil {
		log.Warn("redis unreachable, availability cache disabled", zap.Error(err))
	} else {
		rangeCache = cache.NewAvailabilityCache(redisClient, log)
	}
	pingCancel()

	// Initialize repositories
	vehicleRepo := repository.NewGormVehicleRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	calendarRepo := repository.NewGormCalendarRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)

	// Initialize pricing strategy
	pricingStrategy := bookingDomain.NewStandardPricingStrategy()

	// Initialize application services
	availabilityService := application.NewAvailabilityService(calendarRepo, rangeCache, log)
	verificationService := application.NewVerificationService(profileRepo, log)
	vehicleService := application.NewVehicleService(vehicleRepo, verificationService, kafkaProducer, log)
	reservationService := application.NewReservationService(
		vehicleRepo,
		bookingRepo,
		availabilityService,
		pricingStrategy,
		kafkaProducer,
		log,
	)
	bookingService := application.NewBookingService(
		bookingRepo,
		availabilityService,
		kafkaProducer,
		log,
	)
	calendarService := application.NewCalendarService(
		vehicleRepo,
		calendarRepo,
		availabilityService,
		kafkaProducer,
		log,
	)

	// Initialize and start event consumers in goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := kafkaConfig.GroupPrefix + "booking-service"
	paymentConsumer := consumers.NewPaymentEventConsumer(
		kafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	documentConsumer := consumers.NewDocumentEventConsumer(
		kafkaConfig.Brokers,
		groupID,
		verificationService,
		log,
	)
	defer func() { _ = documentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	go func() {
		log.Info("starting document event consumer")
		if err := documentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("document event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	vehicleHandler := handler.NewVehicleHandler(vehicleService, reservationService)
	bookingHandler := handler.NewBookingHandler(reservationService, bookingService)
	calendarHandler := handler.NewCalendarHandler(calendarService)
	adminHandler := handler.NewAdminHandler(vehicleService, bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "rakb-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	vehicleHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	calendarHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down rakb-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("rakb-booking stopped")
}
