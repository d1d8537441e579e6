package ledctl

import (
	"image/color"

	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/motion"
)

// Inputs is everything the arbiter looks at for one iteration.
type Inputs struct {
	Motion    motion.Result
	Peak      int
	FreshPeak bool // a microphone block was consumed this iteration
	Proximity int
	TiltLevel uint8
}

// Arbiter applies the strict LED priority: active motion owns the RGB LED,
// then the audio color table when the gyro is quiet, otherwise the LED is
// left alone. The builtin LED tracks proximity continuously and pulses as a
// heartbeat only when every input channel is provably idle.
type Arbiter struct {
	colors        []board.ColorStep
	lowestColor   int
	tiltLevel     uint8
	period        int
	proxThreshold int
	rgb           RGB
	heartbeat     Dimmer
	power         Switch
	idleCount     int
}

func NewArbiter(p board.Profile, rgb RGB, heartbeat Dimmer, power Switch) *Arbiter {
	return &Arbiter{
		colors:        p.Colors,
		lowestColor:   p.LowestColorThreshold(),
		tiltLevel:     p.TiltLevel,
		period:        p.HeartbeatPeriod,
		proxThreshold: p.HeartbeatProximity,
		rgb:           rgb,
		heartbeat:     heartbeat,
		power:         power,
	}
}

// Apply writes all three LED channels for one iteration.
func (a *Arbiter) Apply(in Inputs) {
	a.power.Set(in.TiltLevel < a.tiltLevel)
	a.applyRGB(in)
	a.applyHeartbeat(in)
}

func (a *Arbiter) applyRGB(in Inputs) {
	switch {
	case in.Motion.State == motion.Active:
		a.rgb.Set(color.RGBA{
			R: in.Motion.Levels[0],
			G: in.Motion.Levels[1],
			B: in.Motion.Levels[2],
			A: 255,
		})
	case in.Motion.State == motion.Idle && in.Motion.Quiet && in.FreshPeak:
		a.rgb.Set(a.colorFor(in.Peak))
	}
	// Decaying, non-quiet, or stale peak: keep the previous color.
}

// colorFor scans the table highest threshold first; anything below every
// entry is black.
func (a *Arbiter) colorFor(peak int) color.RGBA {
	for _, step := range a.colors {
		if peak >= step.Threshold {
			return step.Color
		}
	}
	return color.RGBA{A: 255}
}

func (a *Arbiter) applyHeartbeat(in Inputs) {
	a.idleCount++
	pulse := false
	if a.idleCount >= a.period {
		a.idleCount = 0
		pulse = in.Proximity > a.proxThreshold &&
			in.Motion.Quiet &&
			in.Motion.State == motion.Idle &&
			in.Peak < a.lowestColor
	}
	if pulse {
		a.heartbeat.SetBrightness(255)
		return
	}
	a.heartbeat.SetBrightness(ProximityBrightness(in.Proximity))
}

// ProximityBrightness is the continuous builtin-LED mapping: closer objects
// (higher proximity) dim the LED.
func ProximityBrightness(proximity int) uint8 {
	return uint8(board.Clamp(230-proximity, 0, 255))
}
