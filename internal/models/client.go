package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClientIndividual = "individual"
	ClientCorporate  = "corporate"
	ClientAgency     = "agency"
)

var ClientTypes = []string{ClientIndividual, ClientCorporate, ClientAgency}

type Client struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Phone      *string   `json:"phone" db:"phone"`
	Company    *string   `json:"company" db:"company"`
	Address    *string   `json:"address" db:"address"`
	City       *string   `json:"city" db:"city"`
	ClientType string    `json:"client_type" db:"client_type"`
	Tags       []string  `json:"tags" db:"tags"`
	Notes      *string   `json:"notes" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ClientFilter holds search criteria for client queries
type ClientFilter struct {
	Query      string  `json:"query,omitempty"` // matches name, email and company
	ClientType *string `json:"client_type,omitempty"`
	Tag        *string `json:"tag,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}
