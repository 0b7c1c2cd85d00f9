package sampler

import (
	"context"
	"math/rand/v2"
	"sync"
)

// Random produces uniform integer readings in [0,100].
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random source from a seed. Equal seeds produce equal
// reading sequences.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Name returns the source identifier.
func (r *Random) Name() string { return "random" }

// Read returns a new random reading. The metric does not influence the value.
func (r *Random) Read(ctx context.Context, _ Metric) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(r.rng.IntN(int(Max) + 1)), nil
}
