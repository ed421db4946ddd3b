package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyStatus string

const (
	PropertyStatusVacant   PropertyStatus = "vacant"
	PropertyStatusOccupied PropertyStatus = "occupied"
)

func (s PropertyStatus) Valid() bool {
	return s == PropertyStatusVacant || s == PropertyStatusOccupied
}

type Property struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	OwnerID     uuid.UUID      `json:"ownerId" db:"owner_id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Location    string         `json:"location" db:"location"`
	Rent        float64        `json:"rent" db:"rent"`
	Deposit     float64        `json:"deposit" db:"deposit"`
	Status      PropertyStatus `json:"status" db:"status"`
	Amenities   []string       `json:"amenities" db:"amenities"`
	// Object names in the media bucket; presigned URLs are attached at read time.
	ImageObjects []string  `json:"-" db:"image_objects"`
	ImageURLs    []string  `json:"images,omitempty" db:"-"`
	CreatedAt    time.Time `json:"listingDate" db:"created_at"`
	UpdatedAt    time.Time `json:"lastUpdated" db:"updated_at"`
}
