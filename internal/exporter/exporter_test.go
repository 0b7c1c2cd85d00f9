package exporter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Guliveer/simhub/internal/config"
	"github.com/Guliveer/simhub/internal/metrics"
	"github.com/Guliveer/simhub/internal/models"
)

func sampleCycles() []models.CycleSnapshot {
	return []models.CycleSnapshot{{
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Resources: []models.ResourceSnapshot{{
			ID:      "id-1",
			Name:    "web-server-1",
			Kind:    "Compute",
			Status:  "running",
			Metrics: map[string]float64{"cpu_usage": 12, "memory_usage": 34},
		}},
	}}
}

func newTestExporter(url string, m *metrics.Metrics) *Exporter {
	cfg := config.ExportConfig{URL: url, Token: "secret"}
	return New(cfg, "cloudsim", zap.NewNop(), m, WithRetry(3, time.Millisecond))
}

func TestSend_DeliversGzipBatch(t *testing.T) {
	var got models.UsageBatch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/usage", r.URL.Path)
		assert.Equal(t, "gzip", r.Header.Get("Content-Encoding"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		gz, err := gzip.NewReader(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(gz).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := metrics.New()
	err := newTestExporter(srv.URL+"/", m).Send(context.Background(), sampleCycles())

	require.NoError(t, err)
	assert.Equal(t, "cloudsim", got.Source)
	require.Len(t, got.Cycles, 1)
	assert.Equal(t, "web-server-1", got.Cycles[0].Resources[0].Name)
	assert.Equal(t, 12.0, got.Cycles[0].Resources[0].Metrics["cpu_usage"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportBatchesTotal))
}

func TestSend_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestExporter(srv.URL, nil).Send(context.Background(), sampleCycles())

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSend_DropsAfterRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := metrics.New()
	err := newTestExporter(srv.URL, m).Send(context.Background(), sampleCycles())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all retries exhausted")
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportFailuresTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ExportBatchesTotal))
}

func TestSend_RateLimitStopsRetrying(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := newTestExporter(srv.URL, nil).Send(context.Background(), sampleCycles())

	require.Error(t, err)
	assert.True(t, isRateLimited(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSend_CancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := New(config.ExportConfig{URL: srv.URL}, "cloudsim", zap.NewNop(), nil, WithRetry(3, time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := e.Send(ctx, sampleCycles())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSend_OmitsAuthWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := New(config.ExportConfig{URL: srv.URL}, "cloudsim", zap.NewNop(), nil)
	require.NoError(t, e.Send(context.Background(), sampleCycles()))
}

func TestDisabled(t *testing.T) {
	e := New(config.ExportConfig{}, "cloudsim", zap.NewNop(), nil)

	assert.False(t, e.Enabled())
	assert.ErrorIs(t, e.Send(context.Background(), sampleCycles()), ErrDisabled)
}
