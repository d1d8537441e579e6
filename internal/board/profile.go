// Package board holds the per-revision tuning values. Revision used to be a
// compile-time switch; it is a runtime value here so one binary covers both
// boards.
package board

import (
	"fmt"
	"image/color"
	"strings"
)

type Revision int

const (
	Rev1 Revision = iota + 1
	Rev2
)

func (r Revision) String() string {
	switch r {
	case Rev1:
		return "rev1"
	case Rev2:
		return "rev2"
	}
	return fmt.Sprintf("rev?(%d)", int(r))
}

// ParseRevision accepts "rev1"/"rev2" (or bare "1"/"2").
func ParseRevision(s string) (Revision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rev1", "1":
		return Rev1, nil
	case "rev2", "2":
		return Rev2, nil
	}
	return 0, fmt.Errorf("unknown board revision %q", s)
}

// ColorStep is one entry of the peak-to-color table. Entries are ordered
// highest threshold first; the first entry whose threshold is at or below
// the peak wins. Peaks below every entry map to black.
type ColorStep struct {
	Threshold int
	Color     color.RGBA
}

// Profile bundles everything that differs between board revisions.
type Profile struct {
	Revision Revision

	// Gyro calibration offsets in deg/s, subtracted from raw roll/pitch/yaw.
	OffsetRoll  float64
	OffsetPitch float64
	OffsetYaw   float64

	// GyroDivisor scales absolute deviations down to LED levels.
	GyroDivisor float64

	// ActivationLevel is the scaled-deviation level above which motion is
	// active; QuietLevel is the (strictly smaller) level at or below which
	// an axis counts as quiet. The gap is a dead zone.
	ActivationLevel uint8
	QuietLevel      uint8

	// DecayCycles is how many iterations the motion state lingers after the
	// instantaneous check clears.
	DecayCycles int

	// TiltLevel is the scaled-Z-acceleration level at or above which the
	// power indicator switches off.
	TiltLevel uint8

	// HeartbeatPeriod is the idle-cycle count between heartbeat pulses;
	// HeartbeatProximity is the minimum proximity for the pulse to fire.
	HeartbeatPeriod    int
	HeartbeatProximity int

	// AudioBufferSize is the sample capacity of one microphone block.
	AudioBufferSize int

	// Colors is the peak-to-color table, highest threshold first.
	Colors []ColorStep
}

// LowestColorThreshold returns the smallest threshold in the color table;
// peaks below it render black and count as audio-idle for the heartbeat.
func (p Profile) LowestColorThreshold() int {
	if len(p.Colors) == 0 {
		return 0
	}
	return p.Colors[len(p.Colors)-1].Threshold
}

var profiles = map[Revision]Profile{
	Rev1: {
		Revision:           Rev1,
		OffsetRoll:         6.52,
		OffsetPitch:        -2.17,
		OffsetYaw:          0.83,
		GyroDivisor:        2,
		ActivationLevel:    8,
		QuietLevel:         2,
		DecayCycles:        16,
		TiltLevel:          180,
		HeartbeatPeriod:    8,
		HeartbeatProximity: 100,
		AudioBufferSize:    256,
		Colors: []ColorStep{
			{Threshold: 600, Color: color.RGBA{R: 255, A: 255}},
			{Threshold: 450, Color: color.RGBA{R: 255, G: 128, A: 255}},
			{Threshold: 300, Color: color.RGBA{R: 255, G: 255, A: 255}},
			{Threshold: 200, Color: color.RGBA{G: 255, A: 255}},
			{Threshold: 100, Color: color.RGBA{B: 255, A: 255}},
			{Threshold: 50, Color: color.RGBA{R: 128, B: 255, A: 255}},
		},
	},
	Rev2: {
		Revision:           Rev2,
		OffsetRoll:         1.28,
		OffsetPitch:        0.54,
		OffsetYaw:          -0.36,
		GyroDivisor:        8,
		ActivationLevel:    8,
		QuietLevel:         2,
		DecayCycles:        16,
		TiltLevel:          180,
		HeartbeatPeriod:    15,
		HeartbeatProximity: 100,
		AudioBufferSize:    1024,
		Colors: []ColorStep{
			{Threshold: 620, Color: color.RGBA{R: 255, A: 255}},
			{Threshold: 480, Color: color.RGBA{R: 255, G: 128, A: 255}},
			{Threshold: 320, Color: color.RGBA{R: 255, G: 255, A: 255}},
			{Threshold: 210, Color: color.RGBA{G: 255, A: 255}},
			{Threshold: 110, Color: color.RGBA{B: 255, A: 255}},
			{Threshold: 60, Color: color.RGBA{R: 128, B: 255, A: 255}},
		},
	},
}

// ProfileFor returns the tuning profile for a revision.
func ProfileFor(rev Revision) (Profile, error) {
	p, ok := profiles[rev]
	if !ok {
		return Profile{}, fmt.Errorf("no profile for board revision %d", int(rev))
	}
	return p, nil
}
