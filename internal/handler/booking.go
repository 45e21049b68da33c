package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/middleware"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/queue"
	queuepub "github.com/HeyBoY-ops/movie-ticket-backend/internal/service"
)

// BookingHandler serves booking listing, receipt display and cancellation.
type BookingHandler struct {
	Engine *booking.Engine
}

// NewBookingHandler constructs a BookingHandler.  The engine must be
// non-nil.
func NewBookingHandler(engine *booking.Engine) *BookingHandler {
	if engine == nil {
		panic("nil engine passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine}
}

// publishContext gives fire-and-forget event publishes a bounded lifetime
// independent of the originating request, which has usually completed by
// the time the publish runs.
func publishContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// ListBookings handles GET /v1/bookings.  It returns every booking made by
// the current holder, newest first.  An empty list is a 200, not a 404.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	holder := middleware.HolderID(c)
	if holder == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Engine.BookingsByHolder(c.Request().Context(), holder)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  A booking owned by a different
// holder is reported as 404 rather than 403 so ids cannot be probed.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	holder := middleware.HolderID(c)
	if holder == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Engine.BookingByID(c.Request().Context(), id)
	if err != nil {
		return writeEngineError(c, err)
	}
	if b.HolderID != holder {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": b})
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  Cancellation is
// only permitted while the show's start is still at least the configured
// lead time away; the start instant is derived from the show's date and
// its stored time-of-day string.  The booking keeps its record with a
// cancelled status rather than being deleted.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	holder := middleware.HolderID(c)
	if holder == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	existing, err := h.Engine.BookingByID(ctx, id)
	if err != nil {
		return writeEngineError(c, err)
	}
	if existing.HolderID != holder {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	b, err := h.Engine.CancelBooking(ctx, id)
	if err != nil {
		return writeEngineError(c, err)
	}

	go func(ev queue.BookingCancelledEvent) {
		pctx, cancel := publishContext()
		defer cancel()
		_ = queuepub.PublishBookingCancelled(pctx, ev)
	}(queue.BookingCancelledEvent{
		BookingID:        b.ID,
		Reference:        b.Reference,
		HolderID:         b.HolderID,
		ShowID:           b.ShowID,
		SeatLabels:       b.Seats,
		TotalAmountCents: b.TotalAmountCents,
		OccurredAt:       time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": b.ID,
		"status":     b.Status,
	})
}
