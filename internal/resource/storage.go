package resource

import (
	"context"

	"github.com/Guliveer/simhub/internal/models"
	"github.com/Guliveer/simhub/internal/sampler"
)

// Storage is a simulated volume reporting used capacity in GB.
type Storage struct {
	base
	capacityUsed float64
}

// NewStorage creates a stopped storage resource.
func NewStorage(name string) *Storage {
	r := &Storage{}
	r.initBase(KindStorage, name)
	return r
}

// RefreshUsage takes a single capacity reading.
func (s *Storage) RefreshUsage(ctx context.Context, src sampler.Source) error {
	return s.refresh(ctx, src, func(v []float64) {
		s.capacityUsed = v[0]
	})
}

// CapacityUsed returns the last capacity reading in GB.
func (s *Storage) CapacityUsed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacityUsed
}

// Snapshot returns a point-in-time copy of the resource.
func (s *Storage) Snapshot() models.ResourceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(map[string]float64{
		string(sampler.CapacityUsed): s.capacityUsed,
	})
}
