package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/devi/internal/config"
	"github.com/deppfellow/devi/internal/server"
)

func newHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	s := &server.Server{Config: &config.Config{
		Primary:       config.Primary{Env: "test"},
		Observability: config.DefaultObservabilityConfig(),
	}}

	h := NewHealthHandler(s)
	h.timeout = 50 * time.Millisecond
	for name, check := range checks {
		h.checks[name] = check
	}
	return h
}

func runHealth(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthWithoutDatabaseHasNoChecks(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(nil)
	assert.Empty(t, h.checks)

	code, body := runHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestHealthReportsFailingCheck(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(map[string]HealthCheck{
		"database": func(context.Context) error { return errors.New("connection refused") },
	})

	code, body := runHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])

	checks := body["checks"].(map[string]any)
	database := checks["database"].(map[string]any)
	assert.Equal(t, "unhealthy", database["status"])
	assert.Equal(t, "connection refused", database["error"])
}

func TestHealthCheckIsBoundedByTimeout(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(map[string]HealthCheck{
		"database": func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})

	code, _ := runHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestOpenAPIDocumentIsValidJSON(t *testing.T) {
	t.Parallel()

	h := NewOpenAPIHandler(&server.Server{Config: &config.Config{}})

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil), rec)
	require.NoError(t, h.ServeOpenAPI(c))

	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/api/v1/users")
}
