// Host usage source: mirrors the machine the simulator runs on.
// Uses gopsutil for cross-platform CPU, memory, disk and network readings.
package sampler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

const bytesPerGB = 1000 * 1000 * 1000

// Host reads usage from the local machine. Disk capacity is reported in GB
// and bandwidth in Mbps, both clamped to [0,100].
type Host struct {
	diskPath string

	// ioCounters returns total bytes received + sent across all interfaces.
	ioCounters func(ctx context.Context) (uint64, error)
	now        func() time.Time

	mu          sync.Mutex
	lastBytes   uint64
	lastRead    time.Time
	initialized bool
}

// NewHost creates a host source. diskPath selects the filesystem whose used
// capacity backs the capacity_used metric.
func NewHost(diskPath string) *Host {
	if diskPath == "" {
		diskPath = "/"
	}
	return &Host{
		diskPath:   diskPath,
		ioCounters: totalIOBytes,
		now:        time.Now,
	}
}

// Name returns the source identifier.
func (h *Host) Name() string { return "host" }

// Read returns the current host reading for the metric.
func (h *Host) Read(ctx context.Context, m Metric) (float64, error) {
	switch m {
	case CPUUsage:
		// Instantaneous snapshot relative to the previous call
		overall, err := cpu.PercentWithContext(ctx, 0, false)
		if err != nil {
			return 0, fmt.Errorf("reading cpu: %w", err)
		}
		if len(overall) == 0 {
			return 0, nil
		}
		return clamp(overall[0]), nil

	case MemoryUsage:
		v, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("reading memory: %w", err)
		}
		return clamp(v.UsedPercent), nil

	case CapacityUsed:
		usage, err := disk.UsageWithContext(ctx, h.diskPath)
		if err != nil {
			return 0, fmt.Errorf("reading disk %s: %w", h.diskPath, err)
		}
		return clamp(float64(usage.Used) / bytesPerGB), nil

	case BandwidthUsed:
		return h.bandwidth(ctx)

	default:
		return 0, fmt.Errorf("sampler: unsupported metric %q", m)
	}
}

// bandwidth computes throughput since the previous call. The first call
// returns zero while establishing a baseline.
func (h *Host) bandwidth(ctx context.Context) (float64, error) {
	total, err := h.ioCounters(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading network: %w", err)
	}
	now := h.now()

	h.mu.Lock()
	defer h.mu.Unlock()

	var rate float64
	if h.initialized && total >= h.lastBytes {
		rate = mbps(total-h.lastBytes, now.Sub(h.lastRead))
	}

	h.lastBytes = total
	h.lastRead = now
	h.initialized = true

	return clamp(rate), nil
}

// mbps converts a byte delta over a window to megabits per second.
func mbps(deltaBytes uint64, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	return float64(deltaBytes) * 8 / 1e6 / window.Seconds()
}

func totalIOBytes(ctx context.Context) (uint64, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(counters) == 0 {
		return 0, nil
	}
	return counters[0].BytesRecv + counters[0].BytesSent, nil
}
