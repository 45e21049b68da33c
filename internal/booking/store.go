package booking

import (
	"context"
	"time"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/model"
)

// Store is the persistence port the engine runs against.  The MySQL
// implementation lives in internal/repository; tests use an in-memory
// fake.  Every method that mutates contended state is reached through
// WithinTx so the whole hold or confirm step commits or rolls back as
// one unit.
type Store interface {
	// WithinTx runs fn inside a single durable transaction.  When fn
	// returns an error the transaction is rolled back and the error is
	// returned unchanged.  Implementations wrap retryable failures
	// (deadlocks, lock waits) with ErrTransientStorage.
	WithinTx(ctx context.Context, fn func(tx StoreTx) error) error

	// ShowByID reads a show outside any transaction.  Returns
	// ErrShowNotFound when absent.
	ShowByID(ctx context.Context, showID uint64) (*model.Show, error)

	// ActiveLocksByShow lists every lock for the show whose expiry is
	// after now.  Used by the seat-status view.
	ActiveLocksByShow(ctx context.Context, showID uint64, now time.Time) ([]model.SeatLock, error)

	// BookingByID reads a booking.  Returns ErrBookingNotFound when absent.
	BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error)

	// BookingsByHolder lists a holder's bookings, newest first.
	BookingsByHolder(ctx context.Context, holderID string) ([]model.Booking, error)

	// DeleteExpiredLocks removes every lock, across all shows, whose
	// expiry is at or before now.  Returns the number removed.  This is
	// the sweeper's single operation.
	DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error)
}

// StoreTx is the transactional surface available inside WithinTx.
type StoreTx interface {
	// ShowForUpdate reads a show and takes a row lock on it so the
	// sold-seat set cannot be read-modify-written concurrently.
	// Returns ErrShowNotFound when absent.
	ShowForUpdate(ctx context.Context, showID uint64) (*model.Show, error)

	// PurgeExpiredLocks deletes the show's locks whose expiry is at or
	// before now, so dead holds never block a fresh acquisition against
	// the uniqueness constraint.
	PurgeExpiredLocks(ctx context.Context, showID uint64, now time.Time) (int64, error)

	// CreateLock inserts one seat lock, assigning lock.ID.  When a row
	// for the same (show, seat) pair already exists the storage engine's
	// uniqueness constraint rejects the insert and ErrSeatAlreadyLocked
	// is returned.
	CreateLock(ctx context.Context, lock *model.SeatLock) error

	// LocksByIDs fetches locks by primary key; missing ids are simply
	// absent from the result.
	LocksByIDs(ctx context.Context, lockIDs []uint64) ([]model.SeatLock, error)

	// DeleteLocks removes locks by primary key.
	DeleteLocks(ctx context.Context, lockIDs []uint64) (int64, error)

	// DeleteLocksByHolder removes every lock the holder has on the show
	// and returns how many were removed.
	DeleteLocksByHolder(ctx context.Context, showID uint64, holderID string) (int64, error)

	// SetBookedSeats overwrites the show's sold-seat set in its
	// canonical stored form.
	SetBookedSeats(ctx context.Context, showID uint64, seats []string) error

	// CreateBooking inserts a booking row, assigning booking.ID and the
	// DB-side timestamps.
	CreateBooking(ctx context.Context, b *model.Booking) error

	// BookingForUpdate reads a booking with a row lock.  Returns
	// ErrBookingNotFound when absent.
	BookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error)

	// MarkBookingCancelled transitions the booking status to cancelled.
	MarkBookingCancelled(ctx context.Context, bookingID uint64) error
}
