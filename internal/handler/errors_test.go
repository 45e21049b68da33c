package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
)

func TestWriteEngineError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{booking.ErrShowNotFound, http.StatusNotFound},
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{booking.ErrSeatAlreadyBooked, http.StatusConflict},
		{booking.ErrSeatAlreadyLocked, http.StatusConflict},
		{booking.ErrLockExpiredOrInvalid, http.StatusConflict},
		{booking.ErrBookingAlreadyCancelled, http.StatusConflict},
		{booking.ErrCancellationWindow, http.StatusBadRequest},
		{booking.ErrNoSeatsRequested, http.StatusBadRequest},
		{booking.ErrCapacityExceeded, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
		// Wrapped sentinels map the same as bare ones.
		{fmt.Errorf("tx failed: %w", booking.ErrSeatAlreadyLocked), http.StatusConflict},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			require.NoError(t, writeEngineError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}
