package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/metrics"
)

func TestHealthHandler(t *testing.T) {
	m := metrics.New()
	mux := monitorMux(m)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	m.SetError("feed timeout")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "feed timeout", body["last_error"])
}

func TestMetricsHandler(t *testing.T) {
	m := metrics.New()
	m.IncrementFeedsFetched()
	rec := httptest.NewRecorder()
	monitorMux(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "feeds_fetched")
}

func TestRunFlags(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--preset", "security", "--categories", "cybersecurity,world_news", "--other-min", "0"}))
	assert.Equal(t, "security", cmd.Flag("preset").Value.String())
	assert.True(t, cmd.Flags().Changed("other-min"))
	assert.False(t, cmd.Flags().Changed("other-max"))
}
