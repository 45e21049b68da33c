package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
)

// writeEngineError maps engine sentinel errors onto HTTP responses.  Every
// handler funnels engine failures through here so the error vocabulary
// stays consistent across routes.  Unknown errors become an opaque 500.
func writeEngineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrShowNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrSeatAlreadyBooked):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
	case errors.Is(err, booking.ErrSeatAlreadyLocked):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already locked by another user"})
	case errors.Is(err, booking.ErrLockExpiredOrInvalid):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat lock expired or invalid"})
	case errors.Is(err, booking.ErrBookingAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
	case errors.Is(err, booking.ErrCancellationWindow):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bookings can only be cancelled at least 2 hours before showtime"})
	case errors.Is(err, booking.ErrNoSeatsRequested):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats requested"})
	case errors.Is(err, booking.ErrCapacityExceeded):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "requested seats exceed show capacity"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
