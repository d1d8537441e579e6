// Package motion classifies gyro activity and the static tilt indicator.
package motion

import (
	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/sensors"
)

// State is the two-level machine over scaled gyro deviations. Active means
// the instantaneous check fires this cycle; Decaying means it fired within
// the last DecayCycles iterations and the RGB LED is still owned by motion.
type State int

const (
	Idle State = iota
	Active
	Decaying
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Decaying:
		return "decaying"
	}
	return "idle"
}

// Result is the per-iteration classification.
type Result struct {
	// Levels are the scaled absolute deviations per axis (roll, pitch, yaw)
	// clamped to 0..255; they double as the motion RGB color.
	Levels [3]uint8
	State  State
	// Quiet is true when every axis is at or below the quiet level. The
	// quiet level sits below the activation level, leaving a dead zone in
	// which neither branch claims the LED.
	Quiet bool
}

type Classifier struct {
	offsets    [3]float64
	divisor    float64
	activation uint8
	quiet      uint8
	decay      int
	timer      int
}

func NewClassifier(p board.Profile) *Classifier {
	return &Classifier{
		offsets:    [3]float64{p.OffsetRoll, p.OffsetPitch, p.OffsetYaw},
		divisor:    p.GyroDivisor,
		activation: p.ActivationLevel,
		quiet:      p.QuietLevel,
		decay:      p.DecayCycles,
	}
}

// Update folds one angular-rate reading into the state machine.
func (c *Classifier) Update(rate sensors.AngularRate) Result {
	raw := [3]float64{rate.Roll, rate.Pitch, rate.Yaw}

	var res Result
	res.Quiet = true
	active := false
	for i, v := range raw {
		dev := v - c.offsets[i]
		if dev < 0 {
			dev = -dev
		}
		res.Levels[i] = uint8(board.Clamp(dev/c.divisor, 0, 255))
		if res.Levels[i] > c.activation {
			active = true
		}
		if res.Levels[i] > c.quiet {
			res.Quiet = false
		}
	}

	switch {
	case active:
		c.timer = c.decay
		res.State = Active
	case c.timer > 0:
		c.timer--
		res.State = Decaying
	default:
		res.State = Idle
	}
	return res
}

// TiltLevel scales Z acceleration in g to a 0..255 level.
func TiltLevel(azG float64) uint8 {
	return uint8(board.Clamp(azG*255, 0, 255))
}
