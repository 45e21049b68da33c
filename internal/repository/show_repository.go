// Package repository is the MySQL persistence layer.  Each repository
// wraps one table and exposes plain methods plus ...Tx variants that
// participate in a caller-owned transaction.  Store ties them together
// behind the booking.Store port.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/model"
)

// ShowRepo reads shows and writes their sold-seat sets.  Shows are
// created by the catalog side of the application; this service never
// inserts or deletes them.
//
// Expected schema:
//
//	CREATE TABLE shows (
//	    id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	    movie_title   VARCHAR(255) NOT NULL,
//	    screen_number INT UNSIGNED NOT NULL DEFAULT 1,
//	    show_date     DATE NOT NULL,
//	    show_time     VARCHAR(16) NOT NULL DEFAULT '',
//	    total_seats   INT UNSIGNED NOT NULL,
//	    price_cents   INT UNSIGNED NOT NULL DEFAULT 0,
//	    booked_seats  TEXT,
//	    created_at    DATETIME NOT NULL DEFAULT UTC_TIMESTAMP(),
//	    updated_at    DATETIME NOT NULL DEFAULT UTC_TIMESTAMP()
//	)
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo bound to the provided database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

const showColumns = `id, movie_title, screen_number, show_date, show_time, total_seats, price_cents, booked_seats, created_at, updated_at`

// scanShow reads one show row.  The booked_seats column is normalized
// through model.ParseSeatSet so legacy shapes never surface past here.
func scanShow(row *sql.Row) (*model.Show, error) {
	var s model.Show
	var showTime sql.NullString
	var bookedRaw []byte
	err := row.Scan(
		&s.ID,
		&s.MovieTitle,
		&s.ScreenNumber,
		&s.ShowDate,
		&showTime,
		&s.TotalSeats,
		&s.PriceCents,
		&bookedRaw,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrShowNotFound
		}
		return nil, err
	}
	s.ShowTime = showTime.String
	s.BookedSeats = model.ParseSeatSet(bookedRaw)
	return &s, nil
}

// GetByID retrieves a show outside any transaction.  Returns
// booking.ErrShowNotFound when there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ?`
	return scanShow(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx retrieves a show inside the given transaction and takes
// a row lock on it.  The sold-seat set must only ever be modified after
// reading it through this method, which is what prevents lost updates
// when two confirms race on different seats of the same show.
func (r *ShowRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + ` FROM shows WHERE id = ? FOR UPDATE`
	return scanShow(tx.QueryRowContext(ctx, q, id))
}

// SetBookedSeatsTx overwrites the show's sold-seat set in canonical form.
func (r *ShowRepo) SetBookedSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, seats []string) error {
	const q = `UPDATE shows SET booked_seats = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, model.MarshalSeatSet(seats), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	// RowsAffected is 0 both when the row is missing and when the value
	// is unchanged, so only treat it as missing after a lookup.
	if n == 0 {
		var exists uint64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM shows WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return booking.ErrShowNotFound
			}
			return err
		}
	}
	return nil
}
