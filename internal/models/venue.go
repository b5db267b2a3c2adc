package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	VenueBanquetHall      = "banquet_hall"
	VenueHotel            = "hotel"
	VenueRestaurant       = "restaurant"
	VenueOutdoor          = "outdoor"
	VenueClub             = "club"
	VenueTheater          = "theater"
	VenuePrivateResidence = "private_residence"
	VenueOther            = "other"
)

var VenueTypes = []string{
	VenueBanquetHall, VenueHotel, VenueRestaurant, VenueOutdoor,
	VenueClub, VenueTheater, VenuePrivateResidence, VenueOther,
}

type Venue struct {
	ID              uuid.UUID `json:"id" db:"id"`
	TenantID        uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name            string    `json:"name" db:"name"`
	Type            string    `json:"type" db:"type"`
	Address         *string   `json:"address" db:"address"`
	City            *string   `json:"city" db:"city"`
	Capacity        *int      `json:"capacity" db:"capacity"`
	SetupAccessTime *string   `json:"setup_access_time" db:"setup_access_time"` // HH:MM
	Curfew          *string   `json:"curfew" db:"curfew"`                       // HH:MM
	Restrictions    []string  `json:"restrictions" db:"restrictions"`
	ContactName     *string   `json:"contact_name" db:"contact_name"`
	ContactPhone    *string   `json:"contact_phone" db:"contact_phone"`
	ContactEmail    *string   `json:"contact_email" db:"contact_email"`
	Notes           *string   `json:"notes" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// VenueFilter holds search criteria for venue queries
type VenueFilter struct {
	Query       string  `json:"query,omitempty"` // matches name, city and address
	Type        *string `json:"type,omitempty"`
	City        *string `json:"city,omitempty"`
	MinCapacity *int    `json:"min_capacity,omitempty"`
	Limit       int     `json:"limit,omitempty"`
	Offset      int     `json:"offset,omitempty"`
}
