package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY, raised when an insert violates a
// unique key.
const mysqlDuplicateEntry = 1062

// SeatLockRepo provides data access to the seat_locks table.  The unique
// key on (show_id, seat_label) is the linchpin of the whole reservation
// design: concurrent inserts for the same seat cannot both succeed, and
// the loser fails synchronously with a duplicate-entry error rather than
// via any application-level check.  All timestamps are UTC.
//
// Expected schema:
//
//	CREATE TABLE seat_locks (
//	    id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	    show_id    BIGINT UNSIGNED NOT NULL,
//	    seat_label VARCHAR(32) NOT NULL,
//	    holder_id  VARCHAR(64) NOT NULL,
//	    created_at DATETIME NOT NULL,
//	    expires_at DATETIME NOT NULL,
//	    UNIQUE KEY uq_seat_locks_show_seat (show_id, seat_label),
//	    KEY idx_seat_locks_expires (expires_at)
//	)
type SeatLockRepo struct {
	db *sql.DB
}

// NewSeatLockRepo returns a new SeatLockRepo bound to the provided database.
func NewSeatLockRepo(db *sql.DB) *SeatLockRepo { return &SeatLockRepo{db: db} }

// CreateTx inserts a single seat lock within the provided transaction and
// assigns the generated id.  When a row for the same (show, seat) pair
// already exists the unique key rejects the insert and
// booking.ErrSeatAlreadyLocked is returned; the caller's rollback then
// discards any locks created earlier in the same attempt.
func (r *SeatLockRepo) CreateTx(ctx context.Context, tx *sql.Tx, lock *model.SeatLock) error {
	const q = `INSERT INTO seat_locks (show_id, seat_label, holder_id, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, lock.ShowID, lock.SeatLabel, lock.HolderID, lock.CreatedAt.UTC(), lock.ExpiresAt.UTC())
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return booking.ErrSeatAlreadyLocked
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	lock.ID = uint64(id)
	return nil
}

// GetByIDsTx fetches locks by primary key.  Ids with no row are simply
// absent from the result; the engine compares counts to detect that.
func (r *SeatLockRepo) GetByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.SeatLock, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT id, show_id, seat_label, holder_id, created_at, expires_at FROM seat_locks WHERE id IN (` +
		placeholders(len(ids)) + `) FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var locks []model.SeatLock
	for rows.Next() {
		var l model.SeatLock
		if err := rows.Scan(&l.ID, &l.ShowID, &l.SeatLabel, &l.HolderID, &l.CreatedAt, &l.ExpiresAt); err != nil {
			return nil, err
		}
		locks = append(locks, l)
	}
	return locks, rows.Err()
}

// DeleteByIDsTx removes consumed locks after a successful confirm.
func (r *SeatLockRepo) DeleteByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `DELETE FROM seat_locks WHERE id IN (` + placeholders(len(ids)) + `)`
	res, err := tx.ExecContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByHolderTx removes every lock the holder has on the show.
func (r *SeatLockRepo) DeleteByHolderTx(ctx context.Context, tx *sql.Tx, showID uint64, holderID string) (int64, error) {
	const q = `DELETE FROM seat_locks WHERE show_id = ? AND holder_id = ?`
	res, err := tx.ExecContext(ctx, q, showID, holderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpiredForShowTx purges the show's dead locks inside a hold or
// confirm transaction, so an abandoned hold can never block a fresh
// acquisition against the unique key.
func (r *SeatLockRepo) DeleteExpiredForShowTx(ctx context.Context, tx *sql.Tx, showID uint64, now time.Time) (int64, error) {
	const q = `DELETE FROM seat_locks WHERE show_id = ? AND expires_at <= ?`
	res, err := tx.ExecContext(ctx, q, showID, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAllExpired is the sweeper's operation: one statement reclaiming
// every dead lock across all shows.
func (r *SeatLockRepo) DeleteAllExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM seat_locks WHERE expires_at <= ?`
	res, err := r.db.ExecContext(ctx, q, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListActiveByShow returns the show's unexpired locks for the seat-status
// view.  Expired rows may still exist until swept; the predicate keeps
// them out of the result.
func (r *SeatLockRepo) ListActiveByShow(ctx context.Context, showID uint64, now time.Time) ([]model.SeatLock, error) {
	const q = `SELECT id, show_id, seat_label, holder_id, created_at, expires_at
	           FROM seat_locks WHERE show_id = ? AND expires_at > ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, showID, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var locks []model.SeatLock
	for rows.Next() {
		var l model.SeatLock
		if err := rows.Scan(&l.ID, &l.ShowID, &l.SeatLabel, &l.HolderID, &l.CreatedAt, &l.ExpiresAt); err != nil {
			return nil, err
		}
		locks = append(locks, l)
	}
	return locks, rows.Err()
}

// placeholders renders "?, ?, ?" for n parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []uint64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
