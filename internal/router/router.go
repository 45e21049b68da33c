// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/config"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/handler"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/middleware"
)

// Deps collects everything route registration needs.  The Redis client may
// be nil; the rate limiter and response cache then pass requests through.
type Deps struct {
	Reservations *handler.ReservationHandler
	Bookings     *handler.BookingHandler
	Status       *handler.StatusHandler
	JWTSecret    string
	Redis        *redis.Client
	RateLimit    config.RateLimitConfig
	Cache        config.CacheConfig
}

// RegisterRoutes wires all endpoints onto the provided Echo instance.
//
// Public routes:
//
//	GET  /healthz                liveness probe
//	GET  /v1/shows/:id/seats     seat map (booked and held seats), cached briefly
//
// Authenticated routes (JWT bearer token required):
//
//	POST   /v1/shows/:id/hold        lock seats for the holder
//	DELETE /v1/shows/:id/hold        release the holder's locks on the show
//	POST   /v1/shows/:id/confirm     convert locks into a booking
//	GET    /v1/bookings              list the holder's bookings
//	GET    /v1/bookings/:id          booking detail
//	POST   /v1/bookings/:id/cancel   cancel inside the permitted window
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Seat maps are public so guests can browse before authenticating.
	e.GET("/v1/shows/:id/seats", d.Status.SeatStatus,
		middleware.CacheSeatStatus(d.Cache, d.Redis))

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(d.JWTSecret))
	auth.Use(middleware.RateLimit(d.RateLimit, d.Redis))

	auth.POST("/shows/:id/hold", d.Reservations.HoldSeats)
	auth.DELETE("/shows/:id/hold", d.Reservations.ReleaseHolds)
	auth.POST("/shows/:id/confirm", d.Reservations.ConfirmBooking)

	auth.GET("/bookings", d.Bookings.ListBookings)
	auth.GET("/bookings/:id", d.Bookings.GetBooking)
	auth.POST("/bookings/:id/cancel", d.Bookings.CancelBooking)
}
