package sampler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"random", "random", false},
		{"", "random", false},
		{"host", "host", false},
		{"cloud", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.name, "/")
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSource) {
					t.Fatalf("New(%q) error = %v, want ErrUnknownSource", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if src.Name() != tt.want {
				t.Errorf("New(%q).Name() = %q, want %q", tt.name, src.Name(), tt.want)
			}
		})
	}
}

func TestRandom_ReadingsInRange(t *testing.T) {
	src := NewRandom(42)
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		v, err := src.Read(ctx, CPUUsage)
		if err != nil {
			t.Fatal(err)
		}
		if v < Min || v > Max || v != float64(int(v)) {
			t.Fatalf("reading %v is not an integer in [0,100]", v)
		}
	}
}

func TestRandom_Deterministic(t *testing.T) {
	a, b := NewRandom(7), NewRandom(7)
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		va, _ := a.Read(ctx, MemoryUsage)
		vb, _ := b.Read(ctx, MemoryUsage)
		if va != vb {
			t.Fatalf("reading %d differs: %v vs %v", i, va, vb)
		}
	}
}

func TestRandom_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRandom(1).Read(ctx, CPUUsage); !errors.Is(err, context.Canceled) {
		t.Fatalf("Read error = %v, want context.Canceled", err)
	}
}

func TestMetricUnit(t *testing.T) {
	tests := []struct {
		metric Metric
		want   string
	}{
		{CPUUsage, "%"},
		{MemoryUsage, "%"},
		{CapacityUsed, "GB"},
		{BandwidthUsed, "Mbps"},
		{Metric("bogus"), ""},
	}
	for _, tt := range tests {
		if got := tt.metric.Unit(); got != tt.want {
			t.Errorf("%s.Unit() = %q, want %q", tt.metric, got, tt.want)
		}
	}
}

func TestMbps(t *testing.T) {
	tests := []struct {
		delta  uint64
		window time.Duration
		want   float64
	}{
		{1_250_000, time.Second, 10},
		{1_250_000, 2 * time.Second, 5},
		{0, time.Second, 0},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := mbps(tt.delta, tt.window); got != tt.want {
			t.Errorf("mbps(%d, %v) = %v, want %v", tt.delta, tt.window, got, tt.want)
		}
	}
}

func TestHost_BandwidthBaselineAndClamp(t *testing.T) {
	h := NewHost("/")
	counters := []uint64{1000, 1000 + 1_250_000, 1000 + 1_250_000 + 1_000_000_000}
	calls := 0
	h.ioCounters = func(context.Context) (uint64, error) {
		v := counters[calls]
		calls++
		return v, nil
	}
	start := time.Unix(0, 0)
	h.now = func() time.Time { return start.Add(time.Duration(calls) * time.Second) }

	ctx := context.Background()
	want := []float64{0, 10, Max}
	for i, w := range want {
		got, err := h.Read(ctx, BandwidthUsed)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("read %d = %v, want %v", i, got, w)
		}
	}
}

func TestHost_ReadingsInRange(t *testing.T) {
	h := NewHost("/")
	ctx := context.Background()
	for _, m := range []Metric{CPUUsage, MemoryUsage, CapacityUsed, BandwidthUsed} {
		v, err := h.Read(ctx, m)
		if err != nil {
			t.Skipf("host metric %s unavailable: %v", m, err)
		}
		if v < Min || v > Max {
			t.Errorf("%s = %v, want value in [0,100]", m, v)
		}
	}
}

func TestHost_UnsupportedMetric(t *testing.T) {
	if _, err := NewHost("").Read(context.Background(), Metric("gpu")); err == nil {
		t.Fatal("expected error for unsupported metric")
	}
}
