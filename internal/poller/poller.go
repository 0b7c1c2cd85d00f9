// Package poller implements the tick-based usage poller. Every cycle it
// refreshes the running resources of a registry, records the readings and
// batches cycle snapshots for export. The poller does NOT export data
// directly; it invokes a callback when a batch is ready.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/simhub/internal/config"
	"github.com/Guliveer/simhub/internal/metrics"
	"github.com/Guliveer/simhub/internal/models"
	"github.com/Guliveer/simhub/internal/resource"
	"github.com/Guliveer/simhub/internal/sampler"
)

// maxBatchCycles bounds the pending batch when the export callback is slow.
const maxBatchCycles = 1000

// Poller periodically refreshes usage metrics of running resources.
type Poller struct {
	registry *resource.Registry
	source   sampler.Source
	cfg      config.CloudConfig
	batchInt time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics

	batch   []models.CycleSnapshot
	batchMu sync.Mutex

	onBatchReady func([]models.CycleSnapshot)
}

// New creates a Poller over the given registry and usage source.
// m may be nil when metrics are not exported.
func New(registry *resource.Registry, source sampler.Source, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Poller {
	return &Poller{
		registry: registry,
		source:   source,
		cfg:      cfg.Cloud,
		batchInt: cfg.Export.BatchInterval.Duration,
		logger:   logger,
		metrics:  m,
		batch:    make([]models.CycleSnapshot, 0),
	}
}

// OnBatchReady sets the callback invoked when a batch of cycles is ready to export.
// Cycles are only batched once a callback is set.
func (p *Poller) OnBatchReady(fn func([]models.CycleSnapshot)) {
	p.batchMu.Lock()
	p.onBatchReady = fn
	p.batchMu.Unlock()
}

// Start runs the poll and batch loops. It blocks until the context is
// cancelled, then flushes any remaining batch and returns.
func (p *Poller) Start(ctx context.Context) {
	pollTicker := time.NewTicker(p.cfg.PollInterval.Duration)
	batchTicker := time.NewTicker(p.batchInt)

	defer pollTicker.Stop()
	defer batchTicker.Stop()

	p.logger.Info("Poller running",
		zap.String("source", p.source.Name()),
		zap.Duration("poll_interval", p.cfg.PollInterval.Duration),
		zap.Duration("batch_interval", p.batchInt))

	// First cycle runs immediately
	p.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			p.flushBatch()
			p.logger.Info("Poller stopped")
			return
		case <-pollTicker.C:
			p.Poll(ctx)
		case <-batchTicker.C:
			p.flushBatch()
		}
	}
}

// Poll runs a single refresh cycle with a timeout and returns its snapshot.
func (p *Poller) Poll(ctx context.Context) models.CycleSnapshot {
	pollCtx, cancel := context.WithTimeout(ctx, p.cfg.RefreshTimeout.Duration)
	defer cancel()

	cycle := models.CycleSnapshot{
		Timestamp: time.Now().UTC(),
		Resources: p.registry.RefreshRunning(pollCtx, p.source),
	}

	// A cycle interrupted by shutdown is incomplete; keep it out of the batch
	if ctx.Err() != nil {
		return cycle
	}
	p.record(cycle)

	p.batchMu.Lock()
	if p.onBatchReady != nil {
		if len(p.batch) >= maxBatchCycles {
			p.batch = p.batch[1:]
		}
		p.batch = append(p.batch, cycle)
	}
	p.batchMu.Unlock()

	p.logger.Debug("Poll cycle complete",
		zap.Time("timestamp", cycle.Timestamp),
		zap.Int("refreshed", len(cycle.Resources)))
	return cycle
}

// record updates Prometheus gauges from a cycle snapshot.
func (p *Poller) record(cycle models.CycleSnapshot) {
	if p.metrics == nil {
		return
	}
	p.metrics.PollCyclesTotal.Inc()
	for _, snap := range cycle.Resources {
		for metric, value := range snap.Metrics {
			p.metrics.RecordUsage(snap.Name, snap.Kind, metric, value)
		}
	}
	running := len(p.registry.Running())
	p.metrics.SetResourceCounts(running, p.registry.Len()-running)
}

// flushBatch hands the current batch to the callback and resets the buffer.
func (p *Poller) flushBatch() {
	p.batchMu.Lock()
	if len(p.batch) == 0 || p.onBatchReady == nil {
		p.batchMu.Unlock()
		return
	}
	batch := p.batch
	fn := p.onBatchReady
	p.batch = make([]models.CycleSnapshot, 0)
	p.batchMu.Unlock()

	p.logger.Info("Flushing usage batch", zap.Int("cycles", len(batch)))
	fn(batch)
}
