package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantDashboard is the cached per-tenant overview
type TenantDashboard struct {
	TenantID         uuid.UUID       `json:"tenant_id"`
	EventsByStatus   map[string]int  `json:"events_by_status"`
	UpcomingEvents   int             `json:"upcoming_events"`
	BookingsByStatus map[string]int  `json:"bookings_by_status"`
	CommittedTotal   decimal.Decimal `json:"committed_total"`
	PaidTotal        decimal.Decimal `json:"paid_total"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
	OpenTasks        int             `json:"open_tasks"`
	OverdueTasks     int             `json:"overdue_tasks"`
	GeneratedAt      time.Time       `json:"generated_at"`
}
