package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PerformerDJ           = "dj"
	PerformerBand         = "band"
	PerformerSoloMusician = "solo_musician"
	PerformerDancer       = "dancer"
	PerformerMC           = "mc"
	PerformerMagician     = "magician"
	PerformerComedian     = "comedian"
	PerformerOther        = "other"
)

var PerformerTypes = []string{
	PerformerDJ, PerformerBand, PerformerSoloMusician, PerformerDancer,
	PerformerMC, PerformerMagician, PerformerComedian, PerformerOther,
}

// Default timing in minutes
const (
	DefaultSetupTime       = 30
	DefaultPerformanceTime = 60
	DefaultBreakdownTime   = 30
)

type Performer struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	TenantID        uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	Name            string           `json:"name" db:"name"`
	StageName       *string          `json:"stage_name" db:"stage_name"`
	Type            string           `json:"type" db:"type"`
	Bio             *string          `json:"bio" db:"bio"`
	Specialties     []string         `json:"specialties" db:"specialties"`
	SetupTime       int              `json:"setup_time" db:"setup_time"`             // minutes
	PerformanceTime int              `json:"performance_time" db:"performance_time"` // minutes
	BreakdownTime   int              `json:"breakdown_time" db:"breakdown_time"`     // minutes
	Requirements    json.RawMessage  `json:"requirements,omitempty" db:"requirements"`
	ContactEmail    *string          `json:"contact_email" db:"contact_email"`
	ContactPhone    *string          `json:"contact_phone" db:"contact_phone"`
	StandardRate    *decimal.Decimal `json:"standard_rate" db:"standard_rate"`
	Availability    json.RawMessage  `json:"availability,omitempty" db:"availability"`
	Rating          *decimal.Decimal `json:"rating" db:"rating"`
	TotalBookings   int              `json:"total_bookings" db:"total_bookings"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// DisplayName prefers the stage name
func (p *Performer) DisplayName() string {
	if p.StageName != nil && *p.StageName != "" {
		return *p.StageName
	}
	return p.Name
}

// PerformerFilter holds search criteria for performer queries
type PerformerFilter struct {
	Query     string           `json:"query,omitempty"` // matches name, stage name and bio
	Type      *string          `json:"type,omitempty"`
	Specialty *string          `json:"specialty,omitempty"`
	MinRating *decimal.Decimal `json:"min_rating,omitempty"`
	MaxRate   *decimal.Decimal `json:"max_rate,omitempty"`
	Limit     int              `json:"limit,omitempty"`
	Offset    int              `json:"offset,omitempty"`
}
