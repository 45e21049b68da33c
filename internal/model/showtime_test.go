package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowStart(t *testing.T) {
	date := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		showTime string
		wantH    int
		wantM    int
	}{
		{"afternoon 12 hour", "02:30 PM", 14, 30},
		{"morning 12 hour", "09:15 AM", 9, 15},
		{"noon", "12:00 PM", 12, 0},
		{"midnight 12 hour", "12:00 AM", 0, 0},
		{"24 hour no modifier", "14:30", 14, 30},
		{"single digit hour", "4:00 PM", 16, 0},
		{"lowercase modifier", "4:00 pm", 16, 0},
		{"empty falls back to midnight", "", 0, 0},
		{"garbage falls back to midnight", "half past eight", 0, 0},
		{"bad modifier falls back to midnight", "10:00 XY", 0, 0},
		{"out of range minutes fall back", "10:75 AM", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ShowStart(date, tc.showTime)
			want := time.Date(2025, time.March, 14, tc.wantH, tc.wantM, 0, 0, time.UTC)
			assert.Equal(t, want, got)
		})
	}
}

func TestSeatLockExpired(t *testing.T) {
	now := time.Now().UTC()
	l := SeatLock{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, l.Expired(now))
	assert.True(t, l.Expired(now.Add(time.Minute)))     // boundary counts as expired
	assert.True(t, l.Expired(now.Add(2*time.Minute)))
}
