package resource

import (
	"context"

	"github.com/Guliveer/simhub/internal/models"
	"github.com/Guliveer/simhub/internal/sampler"
)

// Compute is a simulated virtual machine with CPU and memory usage in percent.
type Compute struct {
	base
	cpuUsage    float64
	memoryUsage float64
}

// NewCompute creates a stopped compute resource.
func NewCompute(name string) *Compute {
	r := &Compute{}
	r.initBase(KindCompute, name)
	return r
}

// RefreshUsage takes two independent readings: CPU and memory.
func (c *Compute) RefreshUsage(ctx context.Context, src sampler.Source) error {
	return c.refresh(ctx, src, func(v []float64) {
		c.cpuUsage = v[0]
		c.memoryUsage = v[1]
	})
}

// Usage returns the last CPU and memory readings.
func (c *Compute) Usage() (cpu, memory float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cpuUsage, c.memoryUsage
}

// Snapshot returns a point-in-time copy of the resource.
func (c *Compute) Snapshot() models.ResourceSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked(map[string]float64{
		string(sampler.CPUUsage):    c.cpuUsage,
		string(sampler.MemoryUsage): c.memoryUsage,
	})
}
