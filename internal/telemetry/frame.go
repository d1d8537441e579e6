// Package telemetry turns one loop iteration's readings into output: a
// formatted serial line and a JSON frame published over MQTT.
package telemetry

import "github.com/okuda/tinysense/internal/sensors"

// Frame is the complete reading set of one iteration. Gyro values are
// calibration-corrected; everything else is in the collaborator's units.
type Frame struct {
	Accel        sensors.Acceleration  `json:"accel"`
	Gyro         sensors.AngularRate   `json:"gyro"`
	Mag          sensors.MagneticField `json:"mag"`
	TemperatureC float64               `json:"temperature_c"`
	PressureKPa  float64               `json:"pressure_kpa"`
	Humidity     float64               `json:"humidity"`
	Proximity    int                   `json:"proximity"`
	Light        sensors.LightColor    `json:"light"`
	Peak         int                   `json:"peak"`
}

// Sink consumes frames. Emit must not block the control loop.
type Sink interface {
	Emit(f Frame)
}

// MultiSink fans a frame out to several sinks.
type MultiSink []Sink

func (m MultiSink) Emit(f Frame) {
	for _, s := range m {
		s.Emit(f)
	}
}
