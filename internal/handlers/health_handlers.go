package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is any dependency that can report its own reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	database Pinger
	cache    Pinger
	storage  Pinger
	version  string
	started  time.Time
}

func NewHealthHandlers(database, cache, storage Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		database: database,
		cache:    cache,
		storage:  storage,
		version:  version,
		started:  time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

func (h *HealthHandlers) check(ctx context.Context) (map[string]string, bool) {
	services := make(map[string]string, 3)
	healthy := true
	for name, p := range map[string]Pinger{"database": h.database, "redis": h.cache, "storage": h.storage} {
		if p == nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			services[name] = "unhealthy"
			healthy = false
			continue
		}
		services[name] = "healthy"
	}
	return services, healthy
}

// HealthCheck godoc
// @Summary Liveness with dependency status
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	services, healthy := h.check(c.Request().Context())
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   services,
		Uptime:     time.Since(h.started).Truncate(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}
	if !healthy {
		health.Status = "degraded"
	}
	// liveness never fails on dependencies
	return c.JSON(http.StatusOK, health)
}

// ReadinessCheck godoc
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health/ready [get]
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	services, healthy := h.check(c.Request().Context())
	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "not_ready",
			"services": services,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"services": services,
	})
}
