package observability

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/secops-service/internal/config"
)

func TestPanicPolicy(t *testing.T) {
	t.Run("fail-open keeps running", func(t *testing.T) {
		exited := false
		p := &PanicPolicy{FailFast: false, Logger: zap.NewNop(), Exit: func(int) { exited = true }}
		p.Handle("test", "boom")
		assert.False(t, exited)
	})

	t.Run("fail-fast exits", func(t *testing.T) {
		code := -1
		p := &PanicPolicy{FailFast: true, Logger: zap.NewNop(), Exit: func(c int) { code = c }}
		p.Handle("test", "boom")
		assert.Equal(t, 1, code)
	})

	t.Run("nothing recovered", func(t *testing.T) {
		p := &PanicPolicy{FailFast: true, Logger: zap.NewNop(), Exit: func(int) { t.Fatal("must not exit") }}
		p.Handle("test", nil)
	})

	t.Run("goroutine panic is contained", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		var code int
		p := &PanicPolicy{FailFast: true, Logger: zap.NewNop(), Exit: func(c int) { code = c; wg.Done() }}
		p.Go("worker", func() { panic("worker crashed") })
		wg.Wait()
		assert.Equal(t, 1, code)
	})
}

func TestMetrics(t *testing.T) {
	m := NewMetrics("test")
	m.RecordRequest("/api/clients", "GET", 200, 10*time.Millisecond)
	m.RecordError("/api/clients", "GET", "NOT_FOUND")
	m.SetConnections(3)
	m.RecordBroadcast("incident_created")
	m.RecordEviction()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("/api/clients", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errorCount.WithLabelValues("/api/clients", "GET", "NOT_FOUND")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.realtimeConns))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.realtimeEvictions))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "test_realtime_broadcasts_total")

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordRequest("/", "GET", 200, time.Millisecond)
		nilMetrics.SetConnections(1)
	})
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secops.log")
	var stdout bytes.Buffer
	logger, err := newLogger(config.LoggerConfig{Level: "debug", File: path, FileMaxSizeMB: 1}, zapcore.AddSync(&stdout))
	require.NoError(t, err)
	logger.Info("hello", zap.String("component", "test"))
	logger.Debug("details")
	require.NoError(t, logger.Sync())

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(written)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.NotEmpty(t, entry["ts"])

	assert.Equal(t, string(written), stdout.String())
}

func TestNewLoggerLevelFilter(t *testing.T) {
	var stdout bytes.Buffer
	logger, err := newLogger(config.LoggerConfig{Level: "warn"}, zapcore.AddSync(&stdout))
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, stdout.String(), "dropped")
	assert.Contains(t, stdout.String(), `"message":"kept"`)
}

func TestRequestLogger(t *testing.T) {
	m := NewMetrics("rl")
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("/ok", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("/missing", "GET", "404")))
}
