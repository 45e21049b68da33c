// Package booking implements the seat reservation protocol: timed holds on
// individual seats, conversion of holds into permanent bookings, explicit
// release, cancellation and expiry sweeping.  Correctness does not rely on
// any in-process lock; it comes from the storage layer's transactions plus
// the uniqueness constraint on (show, seat) lock rows.
package booking

import "errors"

// Sentinel errors returned by the engine.  Handlers translate these into
// HTTP responses with errors.Is; everything not listed here is treated as
// an internal failure.
var (
	// ErrShowNotFound indicates the referenced show does not exist.
	ErrShowNotFound = errors.New("show not found")

	// ErrBookingNotFound indicates the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrSeatAlreadyBooked is the expected contention outcome when a
	// requested seat is already in the show's sold-seat set.  The caller
	// should pick different seats; nothing is retried.
	ErrSeatAlreadyBooked = errors.New("one or more seats are already booked")

	// ErrSeatAlreadyLocked is the expected contention outcome when a live
	// hold exists for a requested seat, regardless of who holds it.
	ErrSeatAlreadyLocked = errors.New("one or more seats are already locked")

	// ErrLockExpiredOrInvalid is returned by confirm when any requested
	// lock is missing, expired, consumed, or owned by a different holder
	// or show.  The hold window has lawfully elapsed; no retry.
	ErrLockExpiredOrInvalid = errors.New("locks expired or invalid")

	// ErrBookingAlreadyCancelled rejects a second cancellation.
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrCancellationWindow rejects cancellation inside the minimum lead
	// time before the show starts.
	ErrCancellationWindow = errors.New("cannot cancel this close to the show start")

	// ErrCapacityExceeded rejects a hold that would claim more seats than
	// the show has left.
	ErrCapacityExceeded = errors.New("not enough seats remaining")

	// ErrNoSeatsRequested rejects a hold with an empty seat list.
	ErrNoSeatsRequested = errors.New("no seats requested")

	// ErrTransientStorage wraps storage failures that are safe to retry
	// as a whole step (deadlock, lock wait timeout, dropped connection).
	// The engine retries the entire transaction a bounded number of times.
	ErrTransientStorage = errors.New("transient storage failure")
)
