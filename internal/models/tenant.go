package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlanFree         = "free"
	PlanStarter      = "starter"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

const (
	SubscriptionTrialing  = "trialing"
	SubscriptionActive    = "active"
	SubscriptionPastDue   = "past_due"
	SubscriptionCancelled = "cancelled"
)

var (
	SubscriptionPlans    = []string{PlanFree, PlanStarter, PlanProfessional, PlanEnterprise}
	SubscriptionStatuses = []string{SubscriptionTrialing, SubscriptionActive, SubscriptionPastDue, SubscriptionCancelled}
)

// Tenant is the isolation root; every other row belongs to exactly one tenant.
type Tenant struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Slug               string    `json:"slug" db:"slug"`
	SubscriptionPlan   string    `json:"subscription_plan" db:"subscription_plan"`
	SubscriptionStatus string    `json:"subscription_status" db:"subscription_status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
