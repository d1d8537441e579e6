// Package sensors defines the collaborator interfaces the control loop polls.
// Driver internals stay behind these; device adapters live in build-tagged
// files under internal/devices, the simulator under sensors/sim.
package sensors

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by adapters whose probe at construction time
// fails, and by Suite.Probe for a missing required sensor.
var ErrNotConnected = errors.New("sensor not connected")

// Acceleration in g per axis.
type Acceleration struct {
	X, Y, Z float64
}

// AngularRate in deg/s per axis, uncorrected.
type AngularRate struct {
	Roll, Pitch, Yaw float64
}

// MagneticField in microtesla per axis.
type MagneticField struct {
	X, Y, Z float64
}

// LightColor carries the raw 16-bit color channel counts.
type LightColor struct {
	R, G, B int
}

// IMU reads block until the device has a value; a stalled sensor stalls the
// loop. That matches the hardware contract and is deliberate.
type IMU interface {
	ReadAcceleration() (Acceleration, error)
	ReadAngularRate() (AngularRate, error)
	ReadMagneticField() (MagneticField, error)
}

// Environment is the temperature/humidity sensor.
type Environment interface {
	ReadTemperature() (float64, error) // degrees Celsius
	ReadHumidity() (float64, error)    // percent relative humidity
}

// Barometer reads pressure in kPa.
type Barometer interface {
	ReadPressure() (float64, error)
}

// ProximityLight is the combined proximity/color sensor. It is the one
// optional sensor: a nil ProximityLight in the Suite means it failed to
// probe and its readings stay at zero for the whole run.
type ProximityLight interface {
	ReadProximity() (int, error)
	ReadColor() (LightColor, error)
}

// Microphone pushes sample blocks through deliver from its own context
// (an interrupt on device, a goroutine in the simulator). deliver must not
// block.
type Microphone interface {
	Start(deliver func(block []int16)) error
}

// Suite is the full sensor complement handed to the control loop.
type Suite struct {
	IMU   IMU
	Env   Environment
	Baro  Barometer
	Light ProximityLight // optional
	Mic   Microphone
}

// Probe enforces the boot contract: IMU, environment, barometer and
// microphone are required; light/proximity is not.
func (s *Suite) Probe() error {
	if s.IMU == nil {
		return fmt.Errorf("imu: %w", ErrNotConnected)
	}
	if s.Env == nil {
		return fmt.Errorf("environment: %w", ErrNotConnected)
	}
	if s.Baro == nil {
		return fmt.Errorf("barometer: %w", ErrNotConnected)
	}
	if s.Mic == nil {
		return fmt.Errorf("microphone: %w", ErrNotConnected)
	}
	return nil
}
