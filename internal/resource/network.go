package resource

import (
	"context"

	"github.com/Guliveer/simhub/internal/models"
	"github.com/Guliveer/simhub/internal/sampler"
)

// Network is a simulated virtual network reporting bandwidth in Mbps.
type Network struct {
	base
	bandwidthUsed float64
}

// NewNetwork creates a stopped network resource.
func NewNetwork(name string) *Network {
	r := &Network{}
	r.initBase(KindNetwork, name)
	return r
}

// RefreshUsage takes a single bandwidth reading.
func (n *Network) RefreshUsage(ctx context.Context, src sampler.Source) error {
	return n.refresh(ctx, src, func(v []float64) {
		n.bandwidthUsed = v[0]
	})
}

// BandwidthUsed returns the last bandwidth reading in Mbps.
func (n *Network) BandwidthUsed() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.bandwidthUsed
}

// Snapshot returns a point-in-time copy of the resource.
func (n *Network) Snapshot() models.ResourceSnapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.snapshotLocked(map[string]float64{
		string(sampler.BandwidthUsed): n.bandwidthUsed,
	})
}
