package handlers

import (
	"context"
	"net/http"

	"stagebook/internal/jobs/background"
	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type JobStatusSource interface {
	Status() []background.JobStatus
}

type DashboardRefresher interface {
	Refresh(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error)
}

// JobHandlers exposes background job state and on-demand refreshes
type JobHandlers struct {
	scheduler JobStatusSource
	analytics DashboardRefresher
}

func NewJobHandlers(scheduler JobStatusSource, analytics DashboardRefresher) *JobHandlers {
	return &JobHandlers{scheduler: scheduler, analytics: analytics}
}

// ListJobs godoc
// @Summary Scheduled background jobs
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} background.JobStatus
// @Router /v1/jobs [get]
func (h *JobHandlers) ListJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.Status())
}

// RefreshDashboard godoc
// @Summary Recompute the tenant dashboard now
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TenantDashboard
// @Router /v1/analytics/refresh [post]
func (h *JobHandlers) RefreshDashboard(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	dashboard, err := h.analytics.Refresh(c.Request().Context(), tid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}
