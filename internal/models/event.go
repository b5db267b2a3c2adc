package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventWedding      = "wedding"
	EventCorporate    = "corporate"
	EventBirthday     = "birthday"
	EventConcert      = "concert"
	EventFestival     = "festival"
	EventPrivateParty = "private_party"
	EventOther        = "other"
)

const (
	EventStatusPlanning   = "planning"
	EventStatusConfirmed  = "confirmed"
	EventStatusInProgress = "in_progress"
	EventStatusCompleted  = "completed"
	EventStatusCancelled  = "cancelled"
)

var (
	EventTypes = []string{
		EventWedding, EventCorporate, EventBirthday, EventConcert,
		EventFestival, EventPrivateParty, EventOther,
	}
	EventStatuses = []string{
		EventStatusPlanning, EventStatusConfirmed, EventStatusInProgress,
		EventStatusCompleted, EventStatusCancelled,
	}
)

// Event times are "HH:MM"; an EndTime at or before StartTime means the event runs past midnight.
type Event struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	TenantID    uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	Name        string           `json:"name" db:"name"`
	Type        string           `json:"type" db:"type"`
	Status      string           `json:"status" db:"status"`
	Date        time.Time        `json:"date" db:"date"`
	StartTime   string           `json:"start_time" db:"start_time"`
	EndTime     string           `json:"end_time" db:"end_time"`
	GuestCount  *int             `json:"guest_count" db:"guest_count"`
	Description *string          `json:"description" db:"description"`
	Notes       *string          `json:"notes" db:"notes"`
	VenueID     *uuid.UUID       `json:"venue_id" db:"venue_id"`
	VenueCustom *string          `json:"venue_custom" db:"venue_custom"`
	ClientID    *uuid.UUID       `json:"client_id" db:"client_id"`
	TotalBudget *decimal.Decimal `json:"total_budget" db:"total_budget"`
	SpentAmount *decimal.Decimal `json:"spent_amount" db:"spent_amount"`
	Timeline    json.RawMessage  `json:"timeline,omitempty" db:"timeline"`
	CreatedByID uuid.UUID        `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// EventFilter holds search criteria for event queries
type EventFilter struct {
	Query    string     `json:"query,omitempty"` // matches name and description
	Status   *string    `json:"status,omitempty"`
	Type     *string    `json:"type,omitempty"`
	VenueID  *uuid.UUID `json:"venue_id,omitempty"`
	ClientID *uuid.UUID `json:"client_id,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}

// BudgetSummary reports committed and paid amounts against an event budget
type BudgetSummary struct {
	EventID       uuid.UUID        `json:"event_id"`
	TotalBudget   *decimal.Decimal `json:"total_budget"`
	Committed     decimal.Decimal  `json:"committed"`
	Paid          decimal.Decimal  `json:"paid"`
	Outstanding   decimal.Decimal  `json:"outstanding"`
	Remaining     *decimal.Decimal `json:"remaining"`
	OverBudget    bool             `json:"over_budget"`
	BookingsCount int              `json:"bookings_count"`
}
