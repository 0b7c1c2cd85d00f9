package device

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/simhub/internal/metrics"
)

func newTestStore(opts ...Option) *Store {
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 11)))}, opts...)
	return NewStore(opts...)
}

func TestNewStore_InitialState(t *testing.T) {
	d := newTestStore().Devices()

	assert.Equal(t, LightState{Status: "off", Brightness: 0}, d.Light)
	assert.Equal(t, ThermostatState{Temperature: 22, Mode: "auto"}, d.Thermostat)
	assert.Equal(t, "off", d.SecurityCamera.Status)
	assert.Nil(t, d.SecurityCamera.LastMotion)
}

func TestLight(t *testing.T) {
	s := newTestStore()

	assert.Equal(t, LightState{Status: "on", Brightness: 75}, s.Light("on", 75))
	assert.Equal(t, LightState{Status: "on", Brightness: 75}, s.Light("dim", 10), "unknown action leaves light unchanged")
	assert.Equal(t, LightState{Status: "off", Brightness: 0}, s.Light("off", 40))
	assert.Equal(t, LightState{Status: "on", Brightness: 50.5}, s.Light("on", 50.5))
}

func TestThermostat(t *testing.T) {
	s := newTestStore()
	temp := 18.0

	assert.Equal(t, ThermostatState{Temperature: 18, Mode: "manual"}, s.Thermostat("manual", &temp))
	assert.Equal(t, ThermostatState{Temperature: 18, Mode: "manual"}, s.Thermostat("bogus", nil))

	other := 30.0
	assert.Equal(t, ThermostatState{Temperature: 18, Mode: "auto"}, s.Thermostat("auto", &other),
		"auto mode ignores the temperature")
	assert.Equal(t, ThermostatState{Temperature: 18, Mode: "manual"}, s.Thermostat("manual", nil))
}

func TestCamera(t *testing.T) {
	s := newTestStore()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	state, err := s.Camera("on")
	require.NoError(t, err)
	assert.Equal(t, "on", state.Status)
	assert.Nil(t, state.LastMotion)

	require.True(t, s.RecordMotion(at))

	state, err = s.Camera("off")
	require.NoError(t, err)
	assert.Equal(t, "off", state.Status)
	require.NotNil(t, state.LastMotion, "turning off keeps last motion")
	assert.Equal(t, at, *state.LastMotion)

	state, err = s.Camera("on")
	require.NoError(t, err)
	assert.Nil(t, state.LastMotion, "turning on clears last motion")
}

func TestCamera_InvalidActionLeavesStateUnchanged(t *testing.T) {
	m := metrics.New()
	s := newTestStore(WithMetrics(m))
	_, err := s.Camera("on")
	require.NoError(t, err)
	before := s.Devices()

	_, err = s.Camera("dance")

	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, "Invalid action", err.Error())
	assert.Equal(t, before, s.Devices())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeviceCommandsTotal.WithLabelValues("security_camera", "rejected")))
}

func TestRecordMotion_RequiresCameraOn(t *testing.T) {
	s := newTestStore()

	assert.False(t, s.RecordMotion(time.Now()))
	assert.Nil(t, s.Devices().SecurityCamera.LastMotion)
}

func TestDevices_ReturnsCopy(t *testing.T) {
	s := newTestStore()
	_, err := s.Camera("on")
	require.NoError(t, err)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.RecordMotion(at)

	d := s.Devices()
	*d.SecurityCamera.LastMotion = at.Add(time.Hour)
	d.Light.Brightness = 99

	fresh := s.Devices()
	assert.Equal(t, at, *fresh.SecurityCamera.LastMotion)
	assert.Equal(t, 0.0, fresh.Light.Brightness)
}

func TestReport_RandomMetricsInRange(t *testing.T) {
	s := newTestStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seen := map[string]bool{}

	for i := 0; i < 500; i++ {
		r := s.Report(now)
		assert.Equal(t, now, r.Timestamp)
		assert.GreaterOrEqual(t, r.RandomMetrics.Humidity, 30.0)
		assert.LessOrEqual(t, r.RandomMetrics.Humidity, 70.0)
		assert.Contains(t, []string{"Good", "Moderate", "Unhealthy"}, r.RandomMetrics.AirQuality)
		seen[r.RandomMetrics.AirQuality] = true
	}
	assert.Len(t, seen, 3)
}

func TestRandomSeconds_WholeSecondsWithinBounds(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 200; i++ {
		d := s.randomSeconds(5*time.Second, 15*time.Second)
		assert.GreaterOrEqual(t, d, 5*time.Second)
		assert.LessOrEqual(t, d, 15*time.Second)
		assert.Zero(t, d%time.Second)
	}
	assert.Equal(t, 3*time.Second, s.randomSeconds(3*time.Second, 3*time.Second))
}

func TestRandomSeconds_SubSecondBoundsWaitOneSecond(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 50; i++ {
		assert.Equal(t, time.Second, s.randomSeconds(500*time.Millisecond, 900*time.Millisecond))
	}
	assert.Equal(t, time.Second, s.randomSeconds(0, 0))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Light("on", float64(j))
				s.Camera("on")
				s.RecordMotion(time.Now())
				s.Report(time.Now())
				s.Devices()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, "on", s.Devices().Light.Status)
}
