// Package sampler provides the usage sources the poller reads resource
// metrics from. Every reading is a number in [0,100].
package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownSource is returned by New for an unrecognised source name.
var ErrUnknownSource = errors.New("sampler: unknown source")

// Metric names a single usage reading.
type Metric string

// Metrics produced by the simulated resources.
const (
	CPUUsage      Metric = "cpu_usage"
	MemoryUsage   Metric = "memory_usage"
	CapacityUsed  Metric = "capacity_used"
	BandwidthUsed Metric = "bandwidth_used"
)

// Unit returns the display unit of the metric.
func (m Metric) Unit() string {
	switch m {
	case CPUUsage, MemoryUsage:
		return "%"
	case CapacityUsed:
		return "GB"
	case BandwidthUsed:
		return "Mbps"
	default:
		return ""
	}
}

// Min and Max bound every reading a Source returns.
const (
	Min = 0.0
	Max = 100.0
)

// Source produces usage readings.
type Source interface {
	// Name returns the source identifier ("random", "host").
	Name() string

	// Read returns a reading for the given metric in [Min, Max].
	Read(ctx context.Context, m Metric) (float64, error)
}

// New builds the source registered under name. diskPath is only used
// by the host source.
func New(name, diskPath string) (Source, error) {
	switch name {
	case "random", "":
		return NewRandom(uint64(time.Now().UnixNano())), nil
	case "host":
		return NewHost(diskPath), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}

// clamp bounds v to [Min, Max].
func clamp(v float64) float64 {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}
