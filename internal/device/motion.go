package device

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/simhub/internal/config"
	"github.com/Guliveer/simhub/internal/metrics"
)

// MotionSimulator periodically records motion on the security camera.
type MotionSimulator struct {
	store   *Store
	min     time.Duration
	max     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics

	// wait blocks for d and reports false if ctx was cancelled first.
	wait func(ctx context.Context, d time.Duration) bool
	now  func() time.Time
}

// NewMotionSimulator creates a simulator for store using the configured
// interval bounds. m may be nil.
func NewMotionSimulator(store *Store, cfg config.DevicesConfig, logger *zap.Logger, m *metrics.Metrics) *MotionSimulator {
	return &MotionSimulator{
		store:   store,
		min:     cfg.MotionMin.Duration,
		max:     cfg.MotionMax.Duration,
		logger:  logger,
		metrics: m,
		wait:    sleepContext,
		now:     time.Now,
	}
}

// Run waits a random whole number of seconds between the configured bounds,
// then records motion if the camera is on. It blocks until ctx is cancelled.
func (ms *MotionSimulator) Run(ctx context.Context) {
	ms.logger.Info("Motion simulator running",
		zap.Duration("min_interval", ms.min),
		zap.Duration("max_interval", ms.max))

	for {
		if !ms.wait(ctx, ms.store.randomSeconds(ms.min, ms.max)) {
			ms.logger.Info("Motion simulator stopped")
			return
		}

		now := ms.now()
		if !ms.store.RecordMotion(now) {
			continue
		}
		ms.logger.Info("Motion detected", zap.Time("at", now))
		if ms.metrics != nil {
			ms.metrics.MotionEventsTotal.Inc()
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
