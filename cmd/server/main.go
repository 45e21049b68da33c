package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/config"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/database"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/handler"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/queue"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/repository"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)
	engine := booking.NewEngine(store, booking.Options{
		HoldTTL:              cfg.HoldTTL,
		CancelLead:           cfg.CancelLead,
		ReleaseSeatsOnCancel: cfg.ReleaseSeatsOnCancel,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reclaims expired seat locks left behind by clients that never
	// confirmed or released.
	go booking.NewSweeper(engine, cfg.SweepInterval).Run(ctx)

	// Tails booking.events and writes the audit log.  Runs its own
	// reconnect loop, so a broker outage never takes the API down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer: %v", err)
		}
	}()

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Deps{
		Reservations: handler.NewReservationHandler(engine),
		Bookings:     handler.NewBookingHandler(engine),
		Status:       handler.NewStatusHandler(engine),
		JWTSecret:    cfg.JWTSecret,
		Redis:        rdb,
		RateLimit:    config.LoadRateLimitConfig(),
		Cache:        config.LoadCacheConfig(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
