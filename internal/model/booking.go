package model

import "time"

// Booking status values.  A booking is created as confirmed by the
// reservation engine and may later transition to cancelled; there are no
// other states and no transition back.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking records a completed purchase of one or more seats for a show.
// Rows are append-only except for the Status field.
//
// Fields:
//  ID               – primary key identifier.
//  Reference        – UUID receipt code handed to the customer.
//  ShowID           – show the seats belong to.
//  HolderID         – opaque principal id of the purchaser.
//  Seats            – seat labels in the order they were requested.
//  TotalAmountCents – amount charged; seat count × price unless overridden.
//  PaymentMethod    – tag supplied by the external payment collaborator.
//  Status           – BookingConfirmed or BookingCancelled.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Booking struct {
	ID               uint64    // bookings.id
	Reference        string    // bookings.reference
	ShowID           uint64    // bookings.show_id
	HolderID         string    // bookings.holder_id
	Seats            []string  // bookings.seats (JSON array column)
	TotalAmountCents uint32    // bookings.total_amount_cents
	PaymentMethod    string    // bookings.payment_method
	Status           string    // bookings.status
	CreatedAt        time.Time // bookings.created_at
	UpdatedAt        time.Time // bookings.updated_at
}
