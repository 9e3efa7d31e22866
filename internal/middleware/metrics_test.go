package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisCountersIncrement(t *testing.T) {
	before := GetMetrics()
	IncrementAnalyses()
	IncrementAnalysesFailed()
	after := GetMetrics()

	assert.Equal(t, before["analyses_total"].(uint64)+1, after["analyses_total"])
	assert.Equal(t, before["analyses_failed"].(uint64)+1, after["analyses_failed"])
}

func TestMetricsMiddlewareCountsOutcomes(t *testing.T) {
	ok := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	boom := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	before := GetMetrics()
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	boom.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	after := GetMetrics()

	assert.Equal(t, before["requests_total"].(uint64)+2, after["requests_total"])
	assert.Equal(t, before["requests_success"].(uint64)+1, after["requests_success"])
	assert.Equal(t, before["requests_failed"].(uint64)+1, after["requests_failed"])
}

func TestMetricsHandlerShape(t *testing.T) {
	rec := httptest.NewRecorder()
	MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"requests_total", "analyses_total", "analyses_failed", "uptime_seconds", "goroutines", "memory"} {
		assert.Contains(t, body, key)
	}
}
