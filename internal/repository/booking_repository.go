package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/booking"
	"github.com/HeyBoY-ops/movie-ticket-backend/internal/model"
)

// BookingRepo persists completed purchases.  Rows are append-only except
// for the status column, which the cancellation path may flip to
// cancelled exactly once.
//
// Expected schema:
//
//	CREATE TABLE bookings (
//	    id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	    reference          CHAR(36) NOT NULL,
//	    show_id            BIGINT UNSIGNED NOT NULL,
//	    holder_id          VARCHAR(64) NOT NULL,
//	    seats              TEXT NOT NULL,
//	    total_amount_cents INT UNSIGNED NOT NULL,
//	    payment_method     VARCHAR(32) NOT NULL DEFAULT '',
//	    status             ENUM('confirmed','cancelled') NOT NULL DEFAULT 'confirmed',
//	    created_at         DATETIME NOT NULL,
//	    updated_at         DATETIME NOT NULL,
//	    KEY idx_bookings_holder (holder_id),
//	    UNIQUE KEY uq_bookings_reference (reference)
//	)
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the provided database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, reference, show_id, holder_id, seats, total_amount_cents, payment_method, status, created_at, updated_at`

func scanBooking(scan func(dest ...interface{}) error) (*model.Booking, error) {
	var b model.Booking
	var seatsRaw []byte
	err := scan(
		&b.ID,
		&b.Reference,
		&b.ShowID,
		&b.HolderID,
		&seatsRaw,
		&b.TotalAmountCents,
		&b.PaymentMethod,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Seats = model.ParseSeatSet(seatsRaw)
	return &b, nil
}

// CreateTx inserts a booking within the provided transaction and assigns
// the generated id.  Seats are stored in canonical JSON array form.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (reference, show_id, holder_id, seats, total_amount_cents, payment_method, status, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.Reference, b.ShowID, b.HolderID, model.MarshalSeatSet(b.Seats),
		b.TotalAmountCents, b.PaymentMethod, b.Status, b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID retrieves a booking.  Returns booking.ErrBookingNotFound when
// there is no matching row.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetForUpdateTx retrieves a booking with a row lock so the cancellation
// check-and-transition cannot race with itself.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// MarkCancelledTx flips the booking status to cancelled.
func (r *BookingRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE bookings SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, model.BookingCancelled, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// ListByHolder returns the holder's bookings, newest first.  When no
// bookings exist it returns an empty slice and nil error.
func (r *BookingRepo) ListByHolder(ctx context.Context, holderID string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE holder_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, holderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
