package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/model"
)

// MySQL error numbers that indicate the transaction lost a race rather
// than hit a real fault.  The engine retries the whole step on these.
const (
	mysqlLockWaitTimeout = 1205 // ER_LOCK_WAIT_TIMEOUT
	mysqlDeadlock        = 1213 // ER_LOCK_DEADLOCK
)

// Store implements the booking.Store port over MySQL, tying the three
// table repositories into single transactions.
type Store struct {
	db       *sql.DB
	shows    *ShowRepo
	locks    *SeatLockRepo
	bookings *BookingRepo
}

// NewStore builds a Store and its repositories over one database handle.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		panic("nil db passed to NewStore")
	}
	return &Store{
		db:       db,
		shows:    NewShowRepo(db),
		locks:    NewSeatLockRepo(db),
		bookings: NewBookingRepo(db),
	}
}

// WithinTx runs fn inside one database transaction, rolling back when fn
// fails and wrapping retryable failures with booking.ErrTransientStorage.
func (s *Store) WithinTx(ctx context.Context, fn func(tx booking.StoreTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapTransient(fmt.Errorf("begin tx: %w", err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{tx: tx, s: s}); err != nil {
		return wrapTransient(err)
	}
	if err := tx.Commit(); err != nil {
		return wrapTransient(fmt.Errorf("commit tx: %w", err))
	}
	committed = true
	return nil
}

func (s *Store) ShowByID(ctx context.Context, showID uint64) (*model.Show, error) {
	return s.shows.GetByID(ctx, showID)
}

func (s *Store) ActiveLocksByShow(ctx context.Context, showID uint64, now time.Time) ([]model.SeatLock, error) {
	return s.locks.ListActiveByShow(ctx, showID, now)
}

func (s *Store) BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Store) BookingsByHolder(ctx context.Context, holderID string) ([]model.Booking, error) {
	return s.bookings.ListByHolder(ctx, holderID)
}

func (s *Store) DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	return s.locks.DeleteAllExpired(ctx, now)
}

// storeTx is the transactional view handed to the engine inside WithinTx.
type storeTx struct {
	tx *sql.Tx
	s  *Store
}

func (t *storeTx) ShowForUpdate(ctx context.Context, showID uint64) (*model.Show, error) {
	return t.s.shows.GetForUpdateTx(ctx, t.tx, showID)
}

func (t *storeTx) PurgeExpiredLocks(ctx context.Context, showID uint64, now time.Time) (int64, error) {
	return t.s.locks.DeleteExpiredForShowTx(ctx, t.tx, showID, now)
}

func (t *storeTx) CreateLock(ctx context.Context, lock *model.SeatLock) error {
	return t.s.locks.CreateTx(ctx, t.tx, lock)
}

func (t *storeTx) LocksByIDs(ctx context.Context, lockIDs []uint64) ([]model.SeatLock, error) {
	return t.s.locks.GetByIDsTx(ctx, t.tx, lockIDs)
}

func (t *storeTx) DeleteLocks(ctx context.Context, lockIDs []uint64) (int64, error) {
	return t.s.locks.DeleteByIDsTx(ctx, t.tx, lockIDs)
}

func (t *storeTx) DeleteLocksByHolder(ctx context.Context, showID uint64, holderID string) (int64, error) {
	return t.s.locks.DeleteByHolderTx(ctx, t.tx, showID, holderID)
}

func (t *storeTx) SetBookedSeats(ctx context.Context, showID uint64, seats []string) error {
	return t.s.shows.SetBookedSeatsTx(ctx, t.tx, showID, seats)
}

func (t *storeTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	return t.s.bookings.CreateTx(ctx, t.tx, b)
}

func (t *storeTx) BookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return t.s.bookings.GetForUpdateTx(ctx, t.tx, bookingID)
}

func (t *storeTx) MarkBookingCancelled(ctx context.Context, bookingID uint64) error {
	return t.s.bookings.MarkCancelledTx(ctx, t.tx, bookingID)
}

// wrapTransient tags deadlocks, lock wait timeouts and dropped
// connections as retryable; everything else passes through unchanged so
// sentinel errors keep their identity.
func wrapTransient(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlDeadlock || me.Number == mysqlLockWaitTimeout) {
		return fmt.Errorf("%w: %v", booking.ErrTransientStorage, err)
	}
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", booking.ErrTransientStorage, err)
	}
	return err
}
