package device

import "time"

// Switch and mode values accepted by the device controls.
const (
	StatusOn  = "on"
	StatusOff = "off"

	ModeAuto   = "auto"
	ModeManual = "manual"
)

// Initial device values.
const (
	defaultTemperature = 22.0
)

// LightState is the current state of the light.
type LightState struct {
	Status     string  `json:"status"`
	Brightness float64 `json:"brightness"`
}

// ThermostatState is the current state of the thermostat.
type ThermostatState struct {
	Temperature float64 `json:"temperature"`
	Mode        string  `json:"mode"`
}

// CameraState is the current state of the security camera. LastMotion is nil
// until motion is recorded while the camera is on.
type CameraState struct {
	Status     string     `json:"status"`
	LastMotion *time.Time `json:"last_motion"`
}

// Devices is a snapshot of every simulated device.
type Devices struct {
	Light          LightState      `json:"light"`
	Thermostat     ThermostatState `json:"thermostat"`
	SecurityCamera CameraState     `json:"security_camera"`
}

// AirQuality values reported by the environment sensor.
var airQualities = []string{"Good", "Moderate", "Unhealthy"}

// Humidity range in percent.
const (
	humidityMin = 30.0
	humidityMax = 70.0
)

// RandomMetrics are simulated environment readings.
type RandomMetrics struct {
	Humidity   float64 `json:"humidity"`
	AirQuality string  `json:"air_quality"`
}

// Report combines device state with environment readings.
type Report struct {
	Timestamp     time.Time     `json:"timestamp"`
	Devices       Devices       `json:"devices"`
	RandomMetrics RandomMetrics `json:"random_metrics"`
}

func initialDevices() Devices {
	return Devices{
		Light:          LightState{Status: StatusOff},
		Thermostat:     ThermostatState{Temperature: defaultTemperature, Mode: ModeAuto},
		SecurityCamera: CameraState{Status: StatusOff},
	}
}

// clone returns a copy that shares no pointers with d.
func (d Devices) clone() Devices {
	out := d
	if d.SecurityCamera.LastMotion != nil {
		t := *d.SecurityCamera.LastMotion
		out.SecurityCamera.LastMotion = &t
	}
	return out
}
