package model

import "time"

// Show represents a single scheduled screening.  The catalog side of the
// application (movies, theaters, screens) creates shows; this service only
// ever mutates the BookedSeats field, and only inside the confirm and
// cancellation transactions.
//
// Fields:
//  ID           – primary key identifier.
//  MovieTitle   – denormalized movie title, carried for receipts and events.
//  ScreenNumber – screen within the theater.
//  ShowDate     – calendar date of the screening (time component midnight UTC).
//  ShowTime     – time of day as a 12-hour clock string, e.g. "02:30 PM".
//                 May be empty; see ShowStart for the parsing contract.
//  TotalSeats   – immutable capacity; len(BookedSeats) never exceeds it.
//  PriceCents   – flat per-seat price in cents.
//  BookedSeats  – authoritative set of permanently sold seat labels.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Show struct {
	ID           uint64    // shows.id
	MovieTitle   string    // shows.movie_title
	ScreenNumber uint32    // shows.screen_number
	ShowDate     time.Time // shows.show_date
	ShowTime     string    // shows.show_time
	TotalSeats   uint32    // shows.total_seats
	PriceCents   uint32    // shows.price_cents
	BookedSeats  []string  // shows.booked_seats (normalized, see ParseSeatSet)
	CreatedAt    time.Time // shows.created_at
	UpdatedAt    time.Time // shows.updated_at
}

// IsSeatBooked reports whether the given seat label is already in the
// show's sold-seat set.
func (s *Show) IsSeatBooked(label string) bool {
	for _, b := range s.BookedSeats {
		if b == label {
			return true
		}
	}
	return false
}
