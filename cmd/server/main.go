package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/sport-court-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/sport-court-booking/internal/database"   // MySQL connection pool
	"github.com/iliyamo/sport-court-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/sport-court-booking/internal/middleware" // rate limiting and response cache
	"github.com/iliyamo/sport-court-booking/internal/queue"      // email dispatch queue
	"github.com/iliyamo/sport-court-booking/internal/repository" // data access layer
	"github.com/iliyamo/sport-court-booking/internal/router"     // Internal router setup
)

func main() {
	// Load .env when present; in production the variables come from the
	// environment and a missing file is not an error.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	// Open the MySQL pool.  The process cannot serve anything without it.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter, the response cache and the email job
	// records.  NewRedisClient returns nil when Redis is unreachable and
	// every consumer of the client degrades to a no-op.
	rdb := config.NewRedisClient()

	// Connect the email dispatch queue.  A dead broker does not prevent
	// the booking platform from starting; email routes are simply not
	// registered and owner notifications are skipped.
	emailQueue, err := queue.NewEmailQueue(queue.BrokerURL(), rdb)
	if err != nil {
		log.Printf("email queue unavailable: %v", err)
		emailQueue = nil
	} else {
		defer emailQueue.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	facilityRepo := repository.NewFacilityRepo(db)
	courtRepo := repository.NewCourtRepo(db)
	blockedSlotRepo := repository.NewBlockedSlotRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo, emailQueue)
	ownerHandler := handler.NewOwnerHandler(facilityRepo, courtRepo, blockedSlotRepo, bookingRepo, emailQueue)
	customerHandler := handler.NewCustomerHandler(bookingRepo, courtRepo, facilityRepo)
	publicHandler := &handler.PublicHandler{
		FacilityRepo: facilityRepo,
		CourtRepo:    courtRepo,
		BookingRepo:  bookingRepo,
	}

	e := echo.New() // Create Echo instance

	// Global token-bucket rate limiting; disabled automatically when the
	// Redis client is nil.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	// Response cache for public GET browse endpoints.
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e) // healthz
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler)
	router.RegisterOwner(e, ownerHandler, cfg.JWTSecret)
	router.RegisterCustomer(e, customerHandler, cfg.JWTSecret)

	if emailQueue != nil {
		router.RegisterEmail(e, handler.NewEmailHandler(emailQueue), cfg.JWTSecret)
		// The delivery worker reconnects on its own; run it for the
		// lifetime of the process.
		go func() {
			if err := queue.StartEmailConsumer(rdb); err != nil {
				log.Printf("email consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
