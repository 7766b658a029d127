package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the reservation lifecycle state. A booking is only created
// as confirmed (after the conflict-guarded insert); completed and cancelled
// are terminal.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether the status accepts no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// ActiveStatuses are the statuses that hold a slot. Only these participate in
// overlap detection and in the owner's earnings projection.
var ActiveStatuses = []BookingStatus{BookingConfirmed, BookingCompleted}

// Booking is a confirmed claim on a space for one calendar date and time
// interval. Its ID doubles as the check-in token encoded in the QR artifact.
// OwnerID and SpaceName are denormalized from the space at insert time so the
// owner dashboard and check-in receipt need no join.
type Booking struct {
	ID      uuid.UUID `bson:"_id" json:"id"`
	SpaceID uuid.UUID `bson:"space_id" json:"space_id"`
	OwnerID uuid.UUID `bson:"owner_id" json:"owner_id"`
	UserID  uuid.UUID `bson:"user_id" json:"user_id"`

	SpaceName string `bson:"space_name" json:"space_name"`

	Date          string `bson:"date" json:"date"`             // YYYY-MM-DD, space-local
	StartTime     string `bson:"start_time" json:"start_time"` // HH:MM, 24h
	DurationHours int    `bson:"duration_hours" json:"duration_hours"`
	Days          int    `bson:"days" json:"days"`

	Total  float64       `bson:"total" json:"total"`
	Status BookingStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Interval returns the half-open time range this booking holds.
func (b *Booking) Interval() (Interval, error) {
	return BookingInterval(b.StartTime, b.DurationHours)
}

// TotalPrice is the canonical settlement formula: the per-day rate times the
// day count. Duration bounds the slot but does not change the price.
func TotalPrice(pricePerDay float64, days int) float64 {
	return pricePerDay * float64(days)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// BookingDraft is the validated input for a reservation attempt.
type BookingDraft struct {
	SpaceID       uuid.UUID `json:"space_id" validate:"required"`
	Date          string    `json:"date" validate:"required"`
	StartTime     string    `json:"start_time" validate:"required"`
	DurationHours int       `json:"duration_hours" validate:"required,min=1"`
	Days          int       `json:"days" validate:"min=0"`
}

// Receipt is returned by a successful check-in for immediate operator
// feedback and earnings aggregation.
type Receipt struct {
	BookingID    uuid.UUID `json:"booking_id"`
	CustomerName string    `json:"customer_name"`
	SpaceName    string    `json:"space_name"`
	Total        float64   `json:"total"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}
