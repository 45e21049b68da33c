package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/middleware"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/queue"
	queuepub "github.com/HeyBoY-ops/movie-ticket-backend/internal/service"
)

// ReservationHandler serves the hold, release and confirm endpoints.  All
// methods assume JWT authentication has already run; they return 401 when
// no holder identity is present in the context.  Seat availability is
// decided entirely inside the engine's storage transactions, so handlers
// only translate HTTP to engine calls and sentinel errors to statuses.
type ReservationHandler struct {
	Engine *booking.Engine
}

// NewReservationHandler constructs a ReservationHandler.  The engine must
// be non-nil.
func NewReservationHandler(engine *booking.Engine) *ReservationHandler {
	if engine == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine}
}

// showIDParam parses the :id path parameter as a positive show id.
func showIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// HoldSeats handles POST /v1/shows/:id/hold.  The body carries a "seats"
// array of seat labels.  All requested seats are locked atomically; if any
// one of them is sold or held by someone else the whole request fails and
// no lock is written.  On success it returns 201 with the lock ids the
// client must present to confirm, plus the hold expiry.
func (h *ReservationHandler) HoldSeats(c echo.Context) error {
	holder := middleware.HolderID(c)
	if holder == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := showIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		Seats []string `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Engine.HoldSeats(c.Request().Context(), showID, body.Seats, holder)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"lock_ids":           res.LockIDs,
		"expires_at":         res.ExpiresAt.Format(time.RFC3339),
		"expires_in_seconds": res.ExpiresInSeconds,
	})
}

// ReleaseHolds handles DELETE /v1/shows/:id/hold.  It drops every lock the
// caller currently owns on the show and reports how many were removed.
// Releasing when no locks exist is not an error.
func (h *ReservationHandler) ReleaseHolds(c echo.Context) error {
	holder := middleware.HolderID(c)
	if holder == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := showIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	released, err := h.Engine.ReleaseHolds(c.Request().Context(), showID, holder)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// ConfirmBooking handles POST /v1/shows/:id/confirm.  The body names the
// lock ids obtained from a prior hold.  The engine validates that every
// lock exists, belongs to the caller and has not expired, then converts
// the held seats into sold seats and a booking record in one transaction.
// Returns 201 with the booking on success.
func (h *ReservationHandler) ConfirmBooking(c echo.Context) error {
	holder := middleware.HolderID(c)
	if holder == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := showIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		LockIDs          []uint64 `json:"lock_ids"`
		PaymentMethod    string   `json:"payment_method"`
		TotalAmountCents uint32   `json:"total_amount_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.LockIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lock_ids is required"})
	}
	b, err := h.Engine.ConfirmBooking(c.Request().Context(), booking.ConfirmInput{
		ShowID:           showID,
		LockIDs:          body.LockIDs,
		HolderID:         holder,
		PaymentMethod:    body.PaymentMethod,
		TotalAmountCents: body.TotalAmountCents,
	})
	if err != nil {
		return writeEngineError(c, err)
	}

	// Notify downstream consumers; a broker outage must not fail the booking.
	go func(ev queue.BookingConfirmedEvent) {
		ctx, cancel := publishContext()
		defer cancel()
		_ = queuepub.PublishBookingConfirmed(ctx, ev)
	}(queue.BookingConfirmedEvent{
		BookingID:        b.ID,
		Reference:        b.Reference,
		HolderID:         b.HolderID,
		ShowID:           b.ShowID,
		SeatLabels:       b.Seats,
		TotalAmountCents: b.TotalAmountCents,
		Status:           b.Status,
		OccurredAt:       time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":         b.ID,
		"reference":          b.Reference,
		"seats":              b.Seats,
		"total_amount_cents": b.TotalAmountCents,
		"status":             b.Status,
	})
}
