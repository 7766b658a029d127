package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxExtraImages = 6

// SportSpace is a bookable physical venue published by one owner account.
// Its schedule blocks define the daily windows a reservation must fit inside;
// a space with no blocks cannot be booked.
type SportSpace struct {
	ID      uuid.UUID `bson:"_id" json:"id"`
	OwnerID uuid.UUID `bson:"owner_id" json:"owner_id"`

	Name        string   `bson:"name" json:"name" validate:"required"`
	Location    string   `bson:"location" json:"location" validate:"required"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Amenities   []string `bson:"amenities,omitempty" json:"amenities,omitempty"`

	// One flat per-day rate for every schedule block.
	PricePerDay float64 `bson:"price_per_day" json:"price_per_day" validate:"required,gt=0"`

	ImageURL       string   `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ExtraImageURLs []string `bson:"extra_image_urls,omitempty" json:"extra_image_urls,omitempty"`

	Schedule []ScheduleBlock `bson:"schedule" json:"schedule"`

	Rating    float64   `bson:"rating,omitempty" json:"rating,omitempty"`
	Slug      string    `bson:"slug,omitempty" json:"slug,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Bookable reports whether the space declares at least one opening block.
func (s *SportSpace) Bookable() bool {
	return len(s.Schedule) > 0
}

// SpaceFilters narrows space listings. SearchQuery matches the name by
// substring; Location matches the address by substring (zone matching).
type SpaceFilters struct {
	SearchQuery string
	Location    string
	MinPrice    float64
	MaxPrice    float64
}
