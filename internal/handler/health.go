package handler

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/devi/internal/middleware"
	"github.com/deppfellow/devi/internal/server"
)

// defaultHealthTimeout bounds each check when no observability config is set.
const defaultHealthTimeout = 5 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler registers the checks enabled in the observability config.
func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{
		Handler: NewHandler(s),
		checks:  make(map[string]HealthCheck),
		timeout: defaultHealthTimeout,
	}

	obs := s.Config.Observability
	if obs != nil && obs.HealthChecks.Timeout > 0 {
		h.timeout = obs.HealthChecks.Timeout
	}

	if obs != nil && obs.HealthCheckEnabled("database") && s.DB != nil {
		h.checks["database"] = s.DB.Pool.Ping
	}

	return h
}

// CheckHealth runs every check and answers 200 when all pass, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any, len(h.checks))
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	for _, name := range slices.Sorted(maps.Keys(h.checks)) {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := h.checks[name](ctx)
		cancel()

		elapsed := time.Since(checkStart)
		if err != nil {
			isHealthy = false
			checks[name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", name).
				Dur("response_time", elapsed).
				Msg("health check failed")
			continue
		}

		checks[name] = map[string]any{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}

		logger.Debug().
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("service unhealthy")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}
