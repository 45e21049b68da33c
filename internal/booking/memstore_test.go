package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HeyBoY-ops/movie-ticket-backend/internal/model"
)

// memStore is an in-memory Store used by the engine tests.  WithinTx
// serializes callers on a mutex and snapshots all state up front, giving
// the same commit-or-rollback behavior the MySQL adapter gets from real
// transactions.  failTxTimes makes the first N transactions fail with a
// transient error so the retry path can be exercised.
type memStore struct {
	mu          sync.Mutex
	shows       map[uint64]*model.Show
	locks       map[uint64]*model.SeatLock
	bookings    map[uint64]*model.Booking
	nextLockID  uint64
	nextBooking uint64
	failTxTimes int
}

func newMemStore(shows ...*model.Show) *memStore {
	s := &memStore{
		shows:    make(map[uint64]*model.Show),
		locks:    make(map[uint64]*model.SeatLock),
		bookings: make(map[uint64]*model.Booking),
	}
	for _, sh := range shows {
		s.shows[sh.ID] = cloneShow(sh)
	}
	return s
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx StoreTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTxTimes > 0 {
		s.failTxTimes--
		return fmt.Errorf("%w: simulated deadlock", ErrTransientStorage)
	}
	shows, locks, bookings := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.shows, s.locks, s.bookings = shows, locks, bookings
		return err
	}
	return nil
}

func (s *memStore) snapshot() (map[uint64]*model.Show, map[uint64]*model.SeatLock, map[uint64]*model.Booking) {
	shows := make(map[uint64]*model.Show, len(s.shows))
	for id, sh := range s.shows {
		shows[id] = cloneShow(sh)
	}
	locks := make(map[uint64]*model.SeatLock, len(s.locks))
	for id, l := range s.locks {
		cp := *l
		locks[id] = &cp
	}
	bookings := make(map[uint64]*model.Booking, len(s.bookings))
	for id, b := range s.bookings {
		bookings[id] = cloneBooking(b)
	}
	return shows, locks, bookings
}

func (s *memStore) ShowByID(ctx context.Context, showID uint64) (*model.Show, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shows[showID]
	if !ok {
		return nil, ErrShowNotFound
	}
	return cloneShow(sh), nil
}

func (s *memStore) ActiveLocksByShow(ctx context.Context, showID uint64, now time.Time) ([]model.SeatLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SeatLock
	for _, l := range s.locks {
		if l.ShowID == showID && l.ExpiresAt.After(now) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (s *memStore) BookingsByHolder(ctx context.Context, holderID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.HolderID == holderID {
			out = append(out, *cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, l := range s.locks {
		if !l.ExpiresAt.After(now) {
			delete(s.locks, id)
			n++
		}
	}
	return n, nil
}

// lockCount reports how many lock rows exist, live or expired.
func (s *memStore) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

// memTx operates directly on the store's maps; the WithinTx mutex is held
// for its whole lifetime and the snapshot provides rollback.
type memTx struct {
	s *memStore
}

func (t *memTx) ShowForUpdate(ctx context.Context, showID uint64) (*model.Show, error) {
	sh, ok := t.s.shows[showID]
	if !ok {
		return nil, ErrShowNotFound
	}
	return cloneShow(sh), nil
}

func (t *memTx) PurgeExpiredLocks(ctx context.Context, showID uint64, now time.Time) (int64, error) {
	var n int64
	for id, l := range t.s.locks {
		if l.ShowID == showID && !l.ExpiresAt.After(now) {
			delete(t.s.locks, id)
			n++
		}
	}
	return n, nil
}

func (t *memTx) CreateLock(ctx context.Context, lock *model.SeatLock) error {
	// Mirrors the UNIQUE KEY on (show_id, seat_label): any existing row,
	// expired or not, rejects the insert.
	for _, l := range t.s.locks {
		if l.ShowID == lock.ShowID && l.SeatLabel == lock.SeatLabel {
			return ErrSeatAlreadyLocked
		}
	}
	t.s.nextLockID++
	lock.ID = t.s.nextLockID
	cp := *lock
	t.s.locks[lock.ID] = &cp
	return nil
}

func (t *memTx) LocksByIDs(ctx context.Context, lockIDs []uint64) ([]model.SeatLock, error) {
	var out []model.SeatLock
	for _, id := range lockIDs {
		if l, ok := t.s.locks[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (t *memTx) DeleteLocks(ctx context.Context, lockIDs []uint64) (int64, error) {
	var n int64
	for _, id := range lockIDs {
		if _, ok := t.s.locks[id]; ok {
			delete(t.s.locks, id)
			n++
		}
	}
	return n, nil
}

func (t *memTx) DeleteLocksByHolder(ctx context.Context, showID uint64, holderID string) (int64, error) {
	var n int64
	for id, l := range t.s.locks {
		if l.ShowID == showID && l.HolderID == holderID {
			delete(t.s.locks, id)
			n++
		}
	}
	return n, nil
}

func (t *memTx) SetBookedSeats(ctx context.Context, showID uint64, seats []string) error {
	sh, ok := t.s.shows[showID]
	if !ok {
		return ErrShowNotFound
	}
	sh.BookedSeats = append([]string{}, seats...)
	return nil
}

func (t *memTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	t.s.nextBooking++
	b.ID = t.s.nextBooking
	t.s.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (t *memTx) BookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, ok := t.s.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (t *memTx) MarkBookingCancelled(ctx context.Context, bookingID uint64) error {
	b, ok := t.s.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = model.BookingCancelled
	return nil
}

func cloneShow(s *model.Show) *model.Show {
	cp := *s
	cp.BookedSeats = append([]string{}, s.BookedSeats...)
	return &cp
}

func cloneBooking(b *model.Booking) *model.Booking {
	cp := *b
	cp.Seats = append([]string{}, b.Seats...)
	return &cp
}
