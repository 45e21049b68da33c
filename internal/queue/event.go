// Package queue defines message payloads exchanged over the message broker.
package queue

// Event names carried in the "event" field of every message on the
// booking.events queue.  Consumers dispatch on this field.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingConfirmedEvent is published when a hold is successfully converted
// into a booking.  It carries enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type BookingConfirmedEvent struct {
	Event            string   `json:"event"`
	BookingID        uint64   `json:"booking_id"`
	Reference        string   `json:"reference"`
	HolderID         string   `json:"holder_id"`
	ShowID           uint64   `json:"show_id"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	Status           string   `json:"status"`
	OccurredAt       string   `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled inside
// the permitted window.  Seats may or may not return to sale depending on
// server configuration; consumers must not assume either.
type BookingCancelledEvent struct {
	Event            string   `json:"event"`
	BookingID        uint64   `json:"booking_id"`
	Reference        string   `json:"reference"`
	HolderID         string   `json:"holder_id"`
	ShowID           uint64   `json:"show_id"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	OccurredAt       string   `json:"occurred_at"`
}
