package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

var BookingStatuses = []string{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}

// Booking links a performer to an event. Schedule markers are "HH:MM".
type Booking struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	TenantID         uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	EventID          uuid.UUID        `json:"event_id" db:"event_id"`
	PerformerID      uuid.UUID        `json:"performer_id" db:"performer_id"`
	Status           string           `json:"status" db:"status"`
	CallTime         *string          `json:"call_time" db:"call_time"`
	SetupStart       *string          `json:"setup_start" db:"setup_start"`
	PerformanceStart *string          `json:"performance_start" db:"performance_start"`
	PerformanceEnd   *string          `json:"performance_end" db:"performance_end"`
	LoadOut          *string          `json:"load_out" db:"load_out"`
	AgreedRate       decimal.Decimal  `json:"agreed_rate" db:"agreed_rate"`
	Deposit          *decimal.Decimal `json:"deposit" db:"deposit"`
	PaidAmount       decimal.Decimal  `json:"paid_amount" db:"paid_amount"`
	ContractSigned   bool             `json:"contract_signed" db:"contract_signed"`
	ContractURL      *string          `json:"contract_url" db:"contract_url"`
	Notes            *string          `json:"notes" db:"notes"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// Balance is the amount still owed to the performer
func (b *Booking) Balance() decimal.Decimal {
	return b.AgreedRate.Sub(b.PaidAmount)
}

// ScheduledBooking is a booking joined with its event's date and times,
// used for performer double-booking checks.
type ScheduledBooking struct {
	BookingID        uuid.UUID `json:"booking_id"`
	EventID          uuid.UUID `json:"event_id"`
	Status           string    `json:"status"`
	EventDate        time.Time `json:"event_date"`
	EventStart       string    `json:"event_start"`
	EventEnd         string    `json:"event_end"`
	SetupStart       *string   `json:"setup_start"`
	PerformanceStart *string   `json:"performance_start"`
	PerformanceEnd   *string   `json:"performance_end"`
	LoadOut          *string   `json:"load_out"`
}
