package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/Guliveer/simhub/internal/sampler"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"compute", KindCompute, false},
		{"storage", KindStorage, false},
		{"network", KindNetwork, false},
		{"Compute", 0, true},
		{" network ", 0, true},
		{"database", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownKind) {
			t.Errorf("ParseKind(%q) error = %v, want ErrUnknownKind", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestKindMetrics(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindCompute, 2},
		{KindStorage, 1},
		{KindNetwork, 1},
		{Kind(99), 0},
	}
	for _, tt := range tests {
		if got := len(tt.kind.Metrics()); got != tt.want {
			t.Errorf("%v.Metrics() has %d entries, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestCompute_RefreshUsageInRange(t *testing.T) {
	c := NewCompute("web-server-1")
	c.Start()
	src := sampler.NewRandom(99)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		if err := c.RefreshUsage(ctx, src); err != nil {
			t.Fatal(err)
		}
		cpu, mem := c.Usage()
		if cpu < 0 || cpu > 100 || mem < 0 || mem > 100 {
			t.Fatalf("usage out of range: cpu=%v mem=%v", cpu, mem)
		}
	}
}

func TestStorageAndNetwork_RefreshUsage(t *testing.T) {
	s := NewStorage("user-data")
	n := NewNetwork("vpc-1")
	s.Start()
	n.Start()
	src := sampler.NewRandom(5)
	ctx := context.Background()

	if err := s.RefreshUsage(ctx, src); err != nil {
		t.Fatal(err)
	}
	if err := n.RefreshUsage(ctx, src); err != nil {
		t.Fatal(err)
	}
	if v := s.CapacityUsed(); v < 0 || v > 100 {
		t.Errorf("capacity_used = %v, want value in [0,100]", v)
	}
	if v := n.BandwidthUsed(); v < 0 || v > 100 {
		t.Errorf("bandwidth_used = %v, want value in [0,100]", v)
	}
	if got := len(s.Snapshot().Metrics); got != 1 {
		t.Errorf("storage snapshot has %d metrics, want 1", got)
	}
	if _, ok := n.Snapshot().Metrics["bandwidth_used"]; !ok {
		t.Error("network snapshot missing bandwidth_used")
	}
}

func TestRefreshUsage_StoppedResourceUnchanged(t *testing.T) {
	c := NewCompute("idle")

	err := c.RefreshUsage(context.Background(), sampler.NewRandom(1))
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("RefreshUsage error = %v, want ErrNotRunning", err)
	}
	cpu, mem := c.Usage()
	if cpu != 0 || mem != 0 || !c.Snapshot().UpdatedAt.IsZero() {
		t.Errorf("stopped resource changed: cpu=%v mem=%v", cpu, mem)
	}
}

func TestStopKeepsLastReadings(t *testing.T) {
	s := NewStorage("disk")
	s.Start()
	if err := s.RefreshUsage(context.Background(), sampler.NewRandom(11)); err != nil {
		t.Fatal(err)
	}
	before := s.CapacityUsed()
	s.Stop()
	if s.CapacityUsed() != before {
		t.Errorf("capacity changed on stop: %v -> %v", before, s.CapacityUsed())
	}
}

func TestNew(t *testing.T) {
	for _, k := range []Kind{KindCompute, KindStorage, KindNetwork} {
		res, err := New(k, "r")
		if err != nil {
			t.Fatal(err)
		}
		if res.Kind() != k || res.Status() != StatusStopped || res.ID() == "" {
			t.Errorf("New(%v) = kind %v status %v id %q", k, res.Kind(), res.Status(), res.ID())
		}
	}
	if _, err := New(Kind(42), "r"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New(42) error = %v, want ErrUnknownKind", err)
	}
	a, _ := New(KindCompute, "a")
	b, _ := New(KindCompute, "b")
	if a.ID() == b.ID() {
		t.Error("resources share an ID")
	}
}
