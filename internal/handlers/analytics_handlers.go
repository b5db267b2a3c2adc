package handlers

import (
	"context"
	"net/http"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DashboardProvider serves the per-tenant dashboard
type DashboardProvider interface {
	Dashboard(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error)
}

type AnalyticsHandlers struct {
	analytics DashboardProvider
}

func NewAnalyticsHandlers(analytics DashboardProvider) *AnalyticsHandlers {
	return &AnalyticsHandlers{analytics: analytics}
}

// GetDashboard godoc
// @Summary Tenant dashboard
// @Description Counts by status, upcoming events, money totals and open tasks. Cached for up to five minutes.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TenantDashboard
// @Router /v1/analytics/dashboard [get]
func (h *AnalyticsHandlers) GetDashboard(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	dashboard, err := h.analytics.Dashboard(c.Request().Context(), tid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}
