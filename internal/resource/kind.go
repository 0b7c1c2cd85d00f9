package resource

import (
	"fmt"

	"github.com/Guliveer/simhub/internal/sampler"
)

// Kind identifies the type of a resource.
type Kind int

const (
	KindCompute Kind = iota
	KindStorage
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindCompute:
		return "Compute"
	case KindStorage:
		return "Storage"
	case KindNetwork:
		return "Network"
	default:
		return "Unknown"
	}
}

// Metrics returns the metric set refreshed for resources of this kind.
func (k Kind) Metrics() []sampler.Metric {
	switch k {
	case KindCompute:
		return []sampler.Metric{sampler.CPUUsage, sampler.MemoryUsage}
	case KindStorage:
		return []sampler.Metric{sampler.CapacityUsed}
	case KindNetwork:
		return []sampler.Metric{sampler.BandwidthUsed}
	default:
		return nil
	}
}

// ParseKind maps a kind name ("compute", "storage", "network") to a Kind.
// Names are lower case and matched exactly, as in the seed configuration.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "compute":
		return KindCompute, nil
	case "storage":
		return KindStorage, nil
	case "network":
		return KindNetwork, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Status is the lifecycle state of a resource.
type Status int

const (
	StatusStopped Status = iota
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusRunning:
		return "running"
	default:
		return "unknown"
	}
}
