package analytics

import (
	"context"
	"fmt"
	"time"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dashboardTTL   = 5 * time.Minute
	upcomingWindow = 30 * 24 * time.Hour
)

// EventStats is the slice of the event repository the dashboard reads.
type EventStats interface {
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error)
	CountUpcoming(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int, error)
}

type BookingStats interface {
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error)
	Totals(ctx context.Context, tenantID uuid.UUID) (committed, paid, outstanding decimal.Decimal, err error)
}

type TaskStats interface {
	CountOpen(ctx context.Context, tenantID uuid.UUID, now time.Time) (open, overdue int, err error)
}

type DashboardCache interface {
	GetTenantAnalytics(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error)
	SetTenantAnalytics(ctx context.Context, dashboard *models.TenantDashboard, ttl time.Duration) error
	DeleteTenantAnalytics(ctx context.Context, tenantID uuid.UUID) error
}

// AnalyticsService builds and caches the per-tenant dashboard
type AnalyticsService struct {
	events   EventStats
	bookings BookingStats
	tasks    TaskStats
	cache    DashboardCache
	log      *zap.Logger
	now      func() time.Time
}

func NewAnalyticsService(events EventStats, bookings BookingStats, tasks TaskStats, cache DashboardCache, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		events:   events,
		bookings: bookings,
		tasks:    tasks,
		cache:    cache,
		log:      log.Named("analytics"),
		now:      time.Now,
	}
}

// Dashboard serves the cached dashboard when present and computes it otherwise.
func (a *AnalyticsService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error) {
	cached, err := a.cache.GetTenantAnalytics(ctx, tenantID)
	if err != nil {
		a.log.Warn("dashboard cache read failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}
	return a.Refresh(ctx, tenantID)
}

// Refresh recomputes the dashboard and stores it regardless of what is cached.
func (a *AnalyticsService) Refresh(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error) {
	dashboard, err := a.calculate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := a.cache.SetTenantAnalytics(ctx, dashboard, dashboardTTL); err != nil {
		a.log.Warn("dashboard cache write failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
	return dashboard, nil
}

func (a *AnalyticsService) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return a.cache.DeleteTenantAnalytics(ctx, tenantID)
}

func (a *AnalyticsService) calculate(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error) {
	now := a.now().UTC()
	dashboard := &models.TenantDashboard{TenantID: tenantID, GeneratedAt: now}

	var err error
	if dashboard.EventsByStatus, err = a.events.CountByStatus(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dashboard.UpcomingEvents, err = a.events.CountUpcoming(ctx, tenantID, today, today.Add(upcomingWindow)); err != nil {
		return nil, fmt.Errorf("count upcoming events: %w", err)
	}
	if dashboard.BookingsByStatus, err = a.bookings.CountByStatus(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	dashboard.CommittedTotal, dashboard.PaidTotal, dashboard.OutstandingTotal, err = a.bookings.Totals(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("booking totals: %w", err)
	}
	if dashboard.OpenTasks, dashboard.OverdueTasks, err = a.tasks.CountOpen(ctx, tenantID, now); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	if dashboard.EventsByStatus == nil {
		dashboard.EventsByStatus = map[string]int{}
	}
	if dashboard.BookingsByStatus == nil {
		dashboard.BookingsByStatus = map[string]int{}
	}
	return dashboard, nil
}
