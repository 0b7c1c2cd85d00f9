package device

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Guliveer/simhub/internal/metrics"
)

// Command outcomes recorded on the device commands counter.
const (
	outcomeApplied  = "applied"
	outcomeIgnored  = "ignored"
	outcomeRejected = "rejected"
)

// Option customises a Store.
type Option func(*Store)

// WithRand sets the random source used for environment readings.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// WithMetrics records device commands on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Store holds the state of every simulated device. It is safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	devices Devices
	rng     *rand.Rand
	metrics *metrics.Metrics
}

// NewStore creates a store with every device in its initial state.
func NewStore(opts ...Option) *Store {
	s := &Store{devices: initialDevices()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return s
}

// Light switches the light. "on" applies brightness, "off" resets it to zero
// and any other action leaves the light unchanged.
func (s *Store) Light(action string, brightness float64) LightState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case StatusOn:
		s.devices.Light = LightState{Status: StatusOn, Brightness: brightness}
		s.countLocked("light", outcomeApplied)
	case StatusOff:
		s.devices.Light = LightState{Status: StatusOff}
		s.countLocked("light", outcomeApplied)
	default:
		s.countLocked("light", outcomeIgnored)
	}
	return s.devices.Light
}

// Thermostat sets the thermostat mode. The temperature is only applied in
// manual mode; unknown modes are ignored.
func (s *Store) Thermostat(mode string, temperature *float64) ThermostatState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ModeAuto, ModeManual:
		s.devices.Thermostat.Mode = mode
		if mode == ModeManual && temperature != nil {
			s.devices.Thermostat.Temperature = *temperature
		}
		s.countLocked("thermostat", outcomeApplied)
	default:
		s.countLocked("thermostat", outcomeIgnored)
	}
	return s.devices.Thermostat
}

// Camera switches the security camera. Turning it on clears the last motion
// timestamp. Any action other than "on" or "off" fails with ErrInvalidAction
// and leaves the camera unchanged.
func (s *Store) Camera(action string) (CameraState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case StatusOn:
		s.devices.SecurityCamera = CameraState{Status: StatusOn}
	case StatusOff:
		s.devices.SecurityCamera.Status = StatusOff
	default:
		s.countLocked("security_camera", outcomeRejected)
		return CameraState{}, ErrInvalidAction
	}
	s.countLocked("security_camera", outcomeApplied)
	return s.devices.clone().SecurityCamera, nil
}

// Devices returns a copy of every device state.
func (s *Store) Devices() Devices {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices.clone()
}

// Report returns the device states together with simulated environment
// readings taken at now.
func (s *Store) Report(now time.Time) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Report{
		Timestamp: now,
		Devices:   s.devices.clone(),
		RandomMetrics: RandomMetrics{
			Humidity:   humidityMin + s.rng.Float64()*(humidityMax-humidityMin),
			AirQuality: airQualities[s.rng.IntN(len(airQualities))],
		},
	}
}

// RecordMotion stamps the camera's last motion with now if the camera is on.
// It reports whether the event was recorded.
func (s *Store) RecordMotion(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.devices.SecurityCamera.Status != StatusOn {
		return false
	}
	s.devices.SecurityCamera.LastMotion = &now
	return true
}

// randomSeconds returns a whole number of seconds in [lo, hi]. Bounds are
// truncated to whole seconds and never go below one second.
func (s *Store) randomSeconds(lo, hi time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to := max(int64(lo/time.Second), 1), max(int64(hi/time.Second), 1)
	if to <= from {
		return time.Duration(from) * time.Second
	}
	return time.Duration(from+s.rng.Int64N(to-from+1)) * time.Second
}

func (s *Store) countLocked(device, outcome string) {
	if s.metrics != nil {
		s.metrics.DeviceCommandsTotal.WithLabelValues(device, outcome).Inc()
	}
}
