package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/model"
)

const (
	// DefaultHoldTTL is how long a hold stays alive without confirmation.
	DefaultHoldTTL = 600 * time.Second
	// DefaultCancelLead is the minimum time before the show start at
	// which a booking may still be cancelled.
	DefaultCancelLead = 2 * time.Hour

	maxTxAttempts  = 3
	txRetryBackoff = 50 * time.Millisecond
)

// Options tunes the engine.  Zero values fall back to the defaults above.
type Options struct {
	HoldTTL    time.Duration // lifetime of a seat lock
	CancelLead time.Duration // cancellation cutoff before show start
	// ReleaseSeatsOnCancel controls whether cancelling a booking returns
	// its seats to the show's available inventory.  Off by default, which
	// matches the historical behavior of keeping cancelled seats sold.
	ReleaseSeatsOnCancel bool
	// Now overrides the engine clock; tests use it to age holds.
	Now func() time.Time
}

// Engine owns all writes to seat locks and to the shows' sold-seat sets.
// Each public method is one atomic protocol step: it either completes
// fully or leaves storage untouched.
type Engine struct {
	store                Store
	holdTTL              time.Duration
	cancelLead           time.Duration
	releaseSeatsOnCancel bool
	now                  func() time.Time
}

// NewEngine constructs an Engine over the given store.
func NewEngine(store Store, opts Options) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	e := &Engine{
		store:                store,
		holdTTL:              opts.HoldTTL,
		cancelLead:           opts.CancelLead,
		releaseSeatsOnCancel: opts.ReleaseSeatsOnCancel,
		now:                  opts.Now,
	}
	if e.holdTTL <= 0 {
		e.holdTTL = DefaultHoldTTL
	}
	if e.cancelLead <= 0 {
		e.cancelLead = DefaultCancelLead
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	return e
}

// HoldTTL reports the configured hold lifetime.
func (e *Engine) HoldTTL() time.Duration { return e.holdTTL }

// HoldResult is returned to the client after a successful hold.
type HoldResult struct {
	LockIDs          []uint64  `json:"lock_ids"`
	ExpiresAt        time.Time `json:"expires_at"`
	ExpiresInSeconds int       `json:"expires_in_seconds"`
}

// HoldSeats acquires a lock on every requested seat or on none of them.
// Duplicate and empty labels are dropped before acquisition.  Returns
// ErrSeatAlreadyBooked when any seat is already sold, ErrSeatAlreadyLocked
// when any seat has a live hold (whoever owns it), and the lock ids plus
// expiry countdown on success.
func (e *Engine) HoldSeats(ctx context.Context, showID uint64, seatLabels []string, holderID string) (*HoldResult, error) {
	labels := dedupeLabels(seatLabels)
	if len(labels) == 0 {
		return nil, ErrNoSeatsRequested
	}

	var res *HoldResult
	err := e.withRetry(ctx, func() error {
		res = nil
		return e.store.WithinTx(ctx, func(tx StoreTx) error {
			now := e.now()
			show, err := tx.ShowForUpdate(ctx, showID)
			if err != nil {
				return err
			}
			for _, l := range labels {
				if show.IsSeatBooked(l) {
					return ErrSeatAlreadyBooked
				}
			}
			if uint32(len(show.BookedSeats)+len(labels)) > show.TotalSeats {
				return ErrCapacityExceeded
			}
			// Dead holds must not trip the uniqueness constraint.
			if _, err := tx.PurgeExpiredLocks(ctx, showID, now); err != nil {
				return err
			}
			expiresAt := now.Add(e.holdTTL)
			lockIDs := make([]uint64, 0, len(labels))
			for _, l := range labels {
				lock := &model.SeatLock{
					ShowID:    showID,
					SeatLabel: l,
					HolderID:  holderID,
					CreatedAt: now,
					ExpiresAt: expiresAt,
				}
				// A duplicate-key rejection here rolls back every lock
				// created earlier in this same attempt.
				if err := tx.CreateLock(ctx, lock); err != nil {
					return err
				}
				lockIDs = append(lockIDs, lock.ID)
			}
			res = &HoldResult{
				LockIDs:          lockIDs,
				ExpiresAt:        expiresAt,
				ExpiresInSeconds: int(e.holdTTL / time.Second),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ConfirmInput carries the parameters of a confirm request.  A zero
// TotalAmountCents means "compute from seat count × show price".
type ConfirmInput struct {
	ShowID           uint64
	LockIDs          []uint64
	HolderID         string
	PaymentMethod    string
	TotalAmountCents uint32
}

// ConfirmBooking converts held locks into a permanent booking.  Every
// lock must exist, be unexpired, belong to the given show and be owned by
// the given holder, otherwise ErrLockExpiredOrInvalid is returned and the
// locks are left untouched.  The sold-seat append, the booking insert and
// the lock deletion commit as one transaction.
func (e *Engine) ConfirmBooking(ctx context.Context, in ConfirmInput) (*model.Booking, error) {
	ids := dedupeIDs(in.LockIDs)
	if len(ids) == 0 {
		return nil, ErrLockExpiredOrInvalid
	}

	var out *model.Booking
	err := e.withRetry(ctx, func() error {
		out = nil
		return e.store.WithinTx(ctx, func(tx StoreTx) error {
			now := e.now()
			locks, err := tx.LocksByIDs(ctx, ids)
			if err != nil {
				return err
			}
			if len(locks) != len(ids) {
				return ErrLockExpiredOrInvalid
			}
			byID := make(map[uint64]model.SeatLock, len(locks))
			for _, l := range locks {
				if l.ShowID != in.ShowID || l.HolderID != in.HolderID || l.Expired(now) {
					return ErrLockExpiredOrInvalid
				}
				byID[l.ID] = l
			}
			// Seats keep the order the client supplied the lock ids in.
			seats := make([]string, 0, len(ids))
			for _, id := range ids {
				seats = append(seats, byID[id].SeatLabel)
			}

			show, err := tx.ShowForUpdate(ctx, in.ShowID)
			if err != nil {
				return err
			}
			// A lock should have kept these seats out of the sold set;
			// re-check anyway so a prior bug cannot double-sell.
			for _, s := range seats {
				if show.IsSeatBooked(s) {
					return ErrSeatAlreadyBooked
				}
			}

			amount := in.TotalAmountCents
			if amount == 0 {
				amount = uint32(len(seats)) * show.PriceCents
			}

			updated := append(append([]string{}, show.BookedSeats...), seats...)
			if err := tx.SetBookedSeats(ctx, in.ShowID, updated); err != nil {
				return err
			}
			b := &model.Booking{
				Reference:        uuid.NewString(),
				ShowID:           in.ShowID,
				HolderID:         in.HolderID,
				Seats:            seats,
				TotalAmountCents: amount,
				PaymentMethod:    in.PaymentMethod,
				Status:           model.BookingConfirmed,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := tx.CreateBooking(ctx, b); err != nil {
				return err
			}
			if _, err := tx.DeleteLocks(ctx, ids); err != nil {
				return err
			}
			out = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReleaseHolds drops every lock the holder has on the show and returns
// how many were released.  Releasing when no holds exist is not an error.
func (e *Engine) ReleaseHolds(ctx context.Context, showID uint64, holderID string) (int64, error) {
	var released int64
	err := e.withRetry(ctx, func() error {
		return e.store.WithinTx(ctx, func(tx StoreTx) error {
			n, err := tx.DeleteLocksByHolder(ctx, showID, holderID)
			if err != nil {
				return err
			}
			released = n
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

// SeatStatus is the union view a seat map renders from: seats permanently
// sold and seats currently under a live hold.
type SeatStatus struct {
	Booked []string `json:"booked"`
	Held   []string `json:"held"`
}

// SeatStatus returns the show's sold seats together with the labels of
// all unexpired locks.  Expired locks are never reported as held.
func (e *Engine) SeatStatus(ctx context.Context, showID uint64) (*SeatStatus, error) {
	show, err := e.store.ShowByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	locks, err := e.store.ActiveLocksByShow(ctx, showID, e.now())
	if err != nil {
		return nil, err
	}
	held := make([]string, 0, len(locks))
	for _, l := range locks {
		held = append(held, l.SeatLabel)
	}
	return &SeatStatus{
		Booked: show.BookedSeats,
		Held:   dedupeLabels(held),
	}, nil
}

// CancelBooking transitions a confirmed booking to cancelled.  The show
// must start no sooner than the configured lead time from now, where the
// start instant comes from the show's date combined with its stored
// time-of-day string.  When seat release is enabled the booking's seats
// are also removed from the show's sold-seat set in the same transaction.
func (e *Engine) CancelBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	var out *model.Booking
	err := e.withRetry(ctx, func() error {
		out = nil
		return e.store.WithinTx(ctx, func(tx StoreTx) error {
			now := e.now()
			b, err := tx.BookingForUpdate(ctx, bookingID)
			if err != nil {
				return err
			}
			if b.Status == model.BookingCancelled {
				return ErrBookingAlreadyCancelled
			}
			show, err := tx.ShowForUpdate(ctx, b.ShowID)
			if err != nil {
				return err
			}
			start := model.ShowStart(show.ShowDate, show.ShowTime)
			if start.Sub(now) < e.cancelLead {
				return ErrCancellationWindow
			}
			if err := tx.MarkBookingCancelled(ctx, bookingID); err != nil {
				return err
			}
			if e.releaseSeatsOnCancel {
				if err := tx.SetBookedSeats(ctx, b.ShowID, subtractSeats(show.BookedSeats, b.Seats)); err != nil {
					return err
				}
			}
			b.Status = model.BookingCancelled
			b.UpdatedAt = now
			out = b
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BookingByID reads a single booking for receipt display.
func (e *Engine) BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return e.store.BookingByID(ctx, bookingID)
}

// BookingsByHolder lists the holder's bookings, newest first.
func (e *Engine) BookingsByHolder(ctx context.Context, holderID string) ([]model.Booking, error) {
	return e.store.BookingsByHolder(ctx, holderID)
}

// SweepExpiredLocks reclaims every expired lock across all shows and
// returns how many seats were given back.
func (e *Engine) SweepExpiredLocks(ctx context.Context) (int64, error) {
	return e.store.DeleteExpiredLocks(ctx, e.now())
}

// withRetry re-runs a full atomic step when storage reports a transient
// failure.  Both hold and confirm are safe to re-attempt from scratch: a
// retried hold that lost the race simply reports ErrSeatAlreadyLocked.
func (e *Engine) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, ErrTransientStorage) || attempt == maxTxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * txRetryBackoff):
		}
	}
}

func dedupeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func dedupeIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// subtractSeats removes every label in drop from seats, preserving order.
func subtractSeats(seats, drop []string) []string {
	dropSet := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		dropSet[d] = struct{}{}
	}
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		if _, ok := dropSet[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
