package model

import "time"

// SeatLock is a short-lived exclusive claim on a single seat of a show,
// taken while a customer enters payment details.  The storage layer
// enforces at most one row per (show_id, seat_label) pair; expired rows
// are purged lazily inside the hold/confirm transactions and in bulk by
// the sweeper, so an unexpired lock is always the only lock for its seat.
//
// Fields:
//  ID        – primary key identifier, returned to the client as the lock id.
//  ShowID    – show to which the seat belongs.
//  SeatLabel – seat being held, e.g. "A1".
//  HolderID  – opaque principal id of the user holding the seat.
//  CreatedAt – when the hold was taken.
//  ExpiresAt – CreatedAt plus the hold TTL; the lock is dead afterwards.
type SeatLock struct {
	ID        uint64    // seat_locks.id
	ShowID    uint64    // seat_locks.show_id
	SeatLabel string    // seat_locks.seat_label
	HolderID  string    // seat_locks.holder_id
	CreatedAt time.Time // seat_locks.created_at
	ExpiresAt time.Time // seat_locks.expires_at
}

// Expired reports whether the lock is dead at the given instant.  A lock
// expiring exactly at now is treated as expired.
func (l *SeatLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
