package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moodtune/moodtune-music-go/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Host:               "127.0.0.1",
		Port:               "0",
		Debug:              true,
		DefaultProvider:    "spotify",
		CORSOrigins:        []string{"*"},
		OAuthStateTTLSec:   600,
		OAuthSweepSchedule: "@every 1m",
		ProviderTimeoutSec: 2,
	}
}

func newTestHandler(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	handler, shutdown, err := NewHandler(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = shutdown(context.Background())
	})
	return handler
}

func TestHandler_RootBanner(t *testing.T) {
	handler := newTestHandler(t, testConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"name":"moodtune_music","status":"ok"}`, rec.Body.String())
}

func TestHandler_Health(t *testing.T) {
	handler := newTestHandler(t, testConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok","service":"moodtune_music","debug":true}`, rec.Body.String())
}

func TestHandler_MetricsExposed(t *testing.T) {
	handler := newTestHandler(t, testConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_SpotifySearchUnconfigured(t *testing.T) {
	// Without Spotify credentials the raw search endpoint reports
	// unsupported instead of failing at startup.
	handler := newTestHandler(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/catalog/search-spotify", strings.NewReader(`{"title":"a","artist":"b"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "UNSUPPORTED_OPERATION")
}

func TestHandler_EmotionsServedWithoutProviders(t *testing.T) {
	handler := newTestHandler(t, testConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/emotions/happy", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"valence"`)
}

func TestHandler_InvalidSweepScheduleFails(t *testing.T) {
	cfg := testConfig()
	cfg.OAuthSweepSchedule = "not a schedule"
	_, _, err := NewHandler(cfg)
	require.Error(t, err)
}
