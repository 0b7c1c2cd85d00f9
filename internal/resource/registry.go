package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Guliveer/simhub/internal/models"
	"github.com/Guliveer/simhub/internal/sampler"
)

// Registry holds resources in insertion order. Names are unique.
type Registry struct {
	mu        sync.RWMutex
	resources []Resource
	logger    *zap.Logger
}

// NewRegistry creates an empty registry with the given logger.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		resources: make([]Resource, 0),
		logger:    logger,
	}
}

// Add appends a resource. It fails with ErrDuplicateName when a resource
// with the same name is already registered.
func (r *Registry) Add(res Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(res.Name()) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, res.Name())
	}
	r.resources = append(r.resources, res)

	r.logger.Info("Added resource",
		zap.String("kind", res.Kind().String()),
		zap.String("name", res.Name()),
		zap.String("id", res.ID()))
	return nil
}

// Launch creates a resource from a kind name and adds it. Unknown kinds are
// logged and dropped.
func (r *Registry) Launch(kind, name string) (Resource, error) {
	k, err := ParseKind(kind)
	if err != nil {
		r.logger.Warn("Unknown resource type, dropping launch request",
			zap.String("kind", kind),
			zap.String("name", name))
		return nil, err
	}

	res, err := New(k, name)
	if err != nil {
		return nil, err
	}
	if err := r.Add(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Remove deletes the resource with the given name. The registry is left
// unchanged and ErrNotFound returned when no resource matches.
func (r *Registry) Remove(name string) (Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	res := r.resources[i]
	r.resources = append(r.resources[:i], r.resources[i+1:]...)

	r.logger.Info("Deleted resource",
		zap.String("kind", res.Kind().String()),
		zap.String("name", res.Name()))
	return res, nil
}

// Get returns the resource with the given name.
func (r *Registry) Get(name string) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexLocked(name)
	if i < 0 {
		return nil, false
	}
	return r.resources[i], true
}

// StartAll marks every resource as running.
func (r *Registry) StartAll() {
	for _, res := range r.Resources() {
		res.Start()
		r.logStatus(res)
	}
}

// StopAll marks every resource as stopped.
func (r *Registry) StopAll() {
	for _, res := range r.Resources() {
		res.Stop()
		r.logStatus(res)
	}
}

// Start marks a single resource as running.
func (r *Registry) Start(name string) error {
	res, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	res.Start()
	r.logStatus(res)
	return nil
}

// Stop marks a single resource as stopped.
func (r *Registry) Stop(name string) error {
	res, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	res.Stop()
	r.logStatus(res)
	return nil
}

// RefreshUsage refreshes a single resource and logs its new readings.
func (r *Registry) RefreshUsage(ctx context.Context, res Resource, src sampler.Source) error {
	if err := res.RefreshUsage(ctx, src); err != nil {
		return err
	}
	snap := res.Snapshot()

	fields := []zap.Field{
		zap.String("kind", snap.Kind),
		zap.String("name", snap.Name),
	}
	for _, m := range res.Kind().Metrics() {
		fields = append(fields, zap.Float64(string(m), snap.Metrics[string(m)]))
	}
	r.logger.Info("Resource usage", fields...)
	return nil
}

// RefreshRunning refreshes every running resource and returns snapshots of
// those refreshed. A failing resource is logged and skipped; resources
// stopped mid-cycle are skipped silently.
func (r *Registry) RefreshRunning(ctx context.Context, src sampler.Source) []models.ResourceSnapshot {
	running := r.Running()
	snapshots := make([]models.ResourceSnapshot, 0, len(running))

	for _, res := range running {
		if ctx.Err() != nil {
			break
		}
		if err := r.RefreshUsage(ctx, res, src); err != nil {
			if !errors.Is(err, ErrNotRunning) && ctx.Err() == nil {
				r.logger.Error("Usage refresh failed",
					zap.String("name", res.Name()),
					zap.Error(err))
			}
			continue
		}
		snapshots = append(snapshots, res.Snapshot())
	}

	return snapshots
}

// Resources returns a copy of all resources in insertion order.
func (r *Registry) Resources() []Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Resource, len(r.resources))
	copy(result, r.resources)
	return result
}

// Running returns the resources currently marked as running.
func (r *Registry) Running() []Resource {
	var result []Resource
	for _, res := range r.Resources() {
		if res.Status() == StatusRunning {
			result = append(result, res)
		}
	}
	return result
}

// Snapshot returns a snapshot of every resource in insertion order.
func (r *Registry) Snapshot() []models.ResourceSnapshot {
	all := r.Resources()
	result := make([]models.ResourceSnapshot, len(all))
	for i, res := range all {
		result[i] = res.Snapshot()
	}
	return result
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resources)
}

// indexLocked returns the position of the named resource or -1.
// Must be called with r.mu held.
func (r *Registry) indexLocked(name string) int {
	for i, res := range r.resources {
		if res.Name() == name {
			return i
		}
	}
	return -1
}

func (r *Registry) logStatus(res Resource) {
	msg := "Resource stopped"
	if res.Status() == StatusRunning {
		msg = "Resource started"
	}
	r.logger.Info(msg,
		zap.String("kind", res.Kind().String()),
		zap.String("name", res.Name()))
}
