package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
)

// StatusHandler serves the public seat map view.
type StatusHandler struct {
	Engine *booking.Engine
}

// NewStatusHandler constructs a StatusHandler.  The engine must be non-nil.
func NewStatusHandler(engine *booking.Engine) *StatusHandler {
	if engine == nil {
		panic("nil engine passed to NewStatusHandler")
	}
	return &StatusHandler{Engine: engine}
}

// SeatStatus handles GET /v1/shows/:id/seats.  The response lists sold
// seats and currently held seats separately; the client renders everything
// else as free.  The view may run slightly behind writes when the response
// cache is enabled, but a hold attempt is always adjudicated against the
// live state.
func (h *StatusHandler) SeatStatus(c echo.Context) error {
	showID, ok := showIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	st, err := h.Engine.SeatStatus(c.Request().Context(), showID)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
