package resource

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Guliveer/simhub/internal/models"
	"github.com/Guliveer/simhub/internal/sampler"
)

// Resource is a simulated cloud asset tracked by the Registry.
// The set of implementations is closed: Compute, Storage and Network.
type Resource interface {
	// ID returns the identifier assigned at creation.
	ID() string

	// Name returns the unique resource name.
	Name() string

	// Kind returns the resource kind.
	Kind() Kind

	// Status returns the current lifecycle state.
	Status() Status

	// Start marks the resource as running.
	Start()

	// Stop marks the resource as stopped. Metrics keep their last values.
	Stop()

	// RefreshUsage overwrites the kind's metrics with new readings from src.
	// It returns ErrNotRunning for a stopped resource and leaves it unchanged.
	RefreshUsage(ctx context.Context, src sampler.Source) error

	// Snapshot returns a point-in-time copy of the resource.
	Snapshot() models.ResourceSnapshot

	isResource()
}

// New creates a stopped resource of the given kind with zero metrics.
func New(kind Kind, name string) (Resource, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	switch kind {
	case KindCompute:
		return NewCompute(name), nil
	case KindStorage:
		return NewStorage(name), nil
	case KindNetwork:
		return NewNetwork(name), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// base holds the state shared by every kind. mu also guards the metric
// fields of the embedding type.
type base struct {
	id   string
	name string
	kind Kind

	mu        sync.RWMutex
	status    Status
	updatedAt time.Time
}

func (b *base) initBase(kind Kind, name string) {
	b.id = uuid.NewString()
	b.name = name
	b.kind = kind
	b.status = StatusStopped
}

func (b *base) ID() string   { return b.id }
func (b *base) Name() string { return b.name }
func (b *base) Kind() Kind   { return b.kind }

func (b *base) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

func (b *base) Start() { b.setStatus(StatusRunning) }
func (b *base) Stop()  { b.setStatus(StatusStopped) }

func (b *base) setStatus(s Status) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}

func (b *base) isResource() {}

// refresh reads one value per metric from src and hands them to apply under
// the write lock. Readings happen without holding the lock; a resource
// stopped in the meantime is left untouched.
func (b *base) refresh(ctx context.Context, src sampler.Source, apply func(values []float64)) error {
	if b.Status() != StatusRunning {
		return fmt.Errorf("%w: %s", ErrNotRunning, b.name)
	}

	metrics := b.kind.Metrics()
	values := make([]float64, len(metrics))
	for i, m := range metrics {
		v, err := src.Read(ctx, m)
		if err != nil {
			return fmt.Errorf("reading %s for %s: %w", m, b.name, err)
		}
		values[i] = v
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status != StatusRunning {
		return fmt.Errorf("%w: %s", ErrNotRunning, b.name)
	}
	apply(values)
	b.updatedAt = time.Now().UTC()
	return nil
}

// snapshotLocked builds a snapshot. Must be called with b.mu held.
func (b *base) snapshotLocked(metrics map[string]float64) models.ResourceSnapshot {
	return models.ResourceSnapshot{
		ID:        b.id,
		Name:      b.name,
		Kind:      b.kind.String(),
		Status:    b.status.String(),
		Metrics:   metrics,
		UpdatedAt: b.updatedAt,
	}
}
