// Package exporter implements the HTTP usage exporter with retry logic.
// It marshals poll-cycle batches to JSON, compresses with gzip, and POSTs
// them to a collector endpoint with exponential backoff on failure.
package exporter

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/simhub/internal/config"
	"github.com/Guliveer/simhub/internal/metrics"
	"github.com/Guliveer/simhub/internal/models"
)

const (
	// defaultMaxRetries is the number of retry attempts before a batch is dropped.
	defaultMaxRetries = 3

	// defaultRetryDelay is the base delay for exponential backoff between retries.
	defaultRetryDelay = 2 * time.Second

	// requestTimeout is the HTTP request timeout for each send attempt.
	requestTimeout = 10 * time.Second

	usagePath = "/api/usage"
)

// ErrDisabled is returned by Send when no collector URL is configured.
var ErrDisabled = errors.New("exporter: disabled")

// Option customises an Exporter.
type Option func(*Exporter)

// WithRetry overrides the retry count and base backoff delay.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(e *Exporter) {
		e.maxRetries = maxRetries
		e.retryDelay = baseDelay
	}
}

// WithHTTPClient overrides the HTTP client used for delivery.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Exporter) { e.client = c }
}

// Exporter delivers usage batches to a collector. Batches that cannot be
// delivered after all retries are dropped and counted.
type Exporter struct {
	client     *http.Client
	cfg        config.ExportConfig
	source     string
	logger     *zap.Logger
	metrics    *metrics.Metrics
	maxRetries int
	retryDelay time.Duration
}

// New creates an Exporter. source identifies the sending process in the
// payload; m may be nil.
func New(cfg config.ExportConfig, source string, logger *zap.Logger, m *metrics.Metrics, opts ...Option) *Exporter {
	e := &Exporter{
		client: &http.Client{
			Timeout: requestTimeout,
		},
		cfg:        cfg,
		source:     source,
		logger:     logger,
		metrics:    m,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enabled reports whether a collector URL is configured.
func (e *Exporter) Enabled() bool {
	return e.cfg.URL != ""
}

// Send delivers a batch of poll cycles to the collector.
func (e *Exporter) Send(ctx context.Context, cycles []models.CycleSnapshot) error {
	if !e.Enabled() {
		return ErrDisabled
	}

	data, err := json.Marshal(models.UsageBatch{
		Source: e.source,
		Cycles: cycles,
	})
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("compress batch: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finalize gzip compression: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * e.retryDelay
			e.logger.Warn("Retrying usage export",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return e.drop(cycles, ctx.Err())
			case <-time.After(delay):
			}
		}

		lastErr = e.doSend(ctx, compressed.Bytes())
		if lastErr == nil {
			e.logger.Debug("Usage batch exported", zap.Int("cycles", len(cycles)))
			if e.metrics != nil {
				e.metrics.ExportBatchesTotal.Inc()
			}
			return nil
		}

		// Rate limited, drop immediately without further retries
		if isRateLimited(lastErr) {
			e.logger.Warn("Rate limited by collector", zap.Error(lastErr))
			return e.drop(cycles, lastErr)
		}

		e.logger.Warn("Usage export failed",
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
	}

	return e.drop(cycles, fmt.Errorf("all retries exhausted: %w", lastErr))
}

// doSend performs a single HTTP POST to the usage endpoint.
func (e *Exporter) doSend(ctx context.Context, compressedData []byte) error {
	url := strings.TrimRight(e.cfg.URL, "/") + usagePath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(compressedData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if e.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.Token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &rateLimitError{statusCode: resp.StatusCode}
	}

	return fmt.Errorf("collector returned %d", resp.StatusCode)
}

// drop logs and counts an undeliverable batch and returns err.
func (e *Exporter) drop(cycles []models.CycleSnapshot, err error) error {
	e.logger.Error("Dropping usage batch",
		zap.Int("cycles", len(cycles)),
		zap.Error(err))
	if e.metrics != nil {
		e.metrics.ExportFailuresTotal.Inc()
	}
	return err
}

// rateLimitError indicates the collector returned HTTP 429.
type rateLimitError struct {
	statusCode int
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited (%d)", e.statusCode)
}

// isRateLimited checks whether an error is a rate limit response.
func isRateLimited(err error) bool {
	var rl *rateLimitError
	return errors.As(err, &rl)
}
