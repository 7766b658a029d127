package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Review is an optional one-per-booking rating, attachable only once the
// booking has been redeemed (completed).
type Review struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	BookingID uuid.UUID `bson:"booking_id" json:"booking_id"`
	SpaceID   uuid.UUID `bson:"space_id" json:"space_id"`
	UserID    uuid.UUID `bson:"user_id" json:"user_id"`
	Rating    int       `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return NewValidationError("rating", "must be between 1 and 5")
	}
	if r.BookingID == uuid.Nil {
		return NewValidationError("booking_id", "required")
	}
	if r.UserID == uuid.Nil {
		return fmt.Errorf("invalid user ID")
	}
	return nil
}
