package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/secops-service/internal/api/dto"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func getJSON(t *testing.T, path string, handler fiber.Handler, v any) int {
	t.Helper()
	app := fiber.New()
	app.Get(path, handler)
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v))
	return resp.StatusCode
}

func TestHealthLiveReportsVersion(t *testing.T) {
	h := NewHealthHandler(HealthOptions{Environment: "staging", Version: "1.4.2"}, stubPinger{})

	var body dto.HealthResponse
	status := getJSON(t, "/health", h.Live, &body)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "staging", body.Environment)
	assert.Equal(t, "1.4.2", body.Version)
}

func TestHealthReady(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")

	t.Run("ok", func(t *testing.T) {
		h := NewHealthHandler(HealthOptions{Environment: "test"}, stubPinger{})
		var body dto.ReadyResponse
		assert.Equal(t, fiber.StatusOK, getJSON(t, "/ready", h.Ready, &body))
		assert.Equal(t, "ok", body.Dependencies["store"])
	})

	t.Run("development shows the cause", func(t *testing.T) {
		h := NewHealthHandler(HealthOptions{Environment: "development"}, stubPinger{err: cause})
		var body dto.ErrorResponse
		assert.Equal(t, fiber.StatusServiceUnavailable, getJSON(t, "/ready", h.Ready, &body))
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", body.Code)
		assert.Equal(t, cause.Error(), body.Details["store"])
	})

	t.Run("production hides the cause", func(t *testing.T) {
		h := NewHealthHandler(HealthOptions{Environment: "production", Production: true}, stubPinger{err: cause})
		var body dto.ErrorResponse
		assert.Equal(t, fiber.StatusServiceUnavailable, getJSON(t, "/ready", h.Ready, &body))
		assert.Equal(t, "unavailable", body.Details["store"])
		assert.NotContains(t, body.Message, "10.0.0.5")
	})
}
