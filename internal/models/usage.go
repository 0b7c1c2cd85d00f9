// Package models defines the usage data structures shared by the registry,
// the poller and the exporter. These structures are serialized to JSON for
// transmission to a usage collector.
package models

import "time"

// ResourceSnapshot is a point-in-time copy of a single resource.
type ResourceSnapshot struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Kind      string             `json:"kind"`
	Status    string             `json:"status"`
	Metrics   map[string]float64 `json:"metrics"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CycleSnapshot holds the resources refreshed during one poll cycle.
type CycleSnapshot struct {
	Timestamp time.Time          `json:"timestamp"`
	Resources []ResourceSnapshot `json:"resources"`
}

// UsageBatch is the payload sent to the collector via POST /api/usage.
type UsageBatch struct {
	Source string          `json:"source"`
	Cycles []CycleSnapshot `json:"cycles"`
}
