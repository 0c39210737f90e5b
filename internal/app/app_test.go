package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldpca/internal/config"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 0
	app, err := NewApplicationWithConfig(&cfg)
	require.NoError(t, err)
	return app
}

func TestNewApplicationWithConfig(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Logger)
}

func TestNewApplicationRejectsBadAnalysisConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.MissingDataPolicy = "median"

	_, err := NewApplicationWithConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid analysis configuration")
}

func TestRouterServesHealth(t *testing.T) {
	app := newTestApplication(t)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouterServesMetrics(t *testing.T) {
	app := newTestApplication(t)

	// Generate one request so the counter has a sample to expose.
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/maturities", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRouterUnknownRoute(t *testing.T) {
	app := newTestApplication(t)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartStop(t *testing.T) {
	app := newTestApplication(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	assert.NoError(t, app.Stop(stopCtx))
}
