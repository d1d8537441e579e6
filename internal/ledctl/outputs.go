// Package ledctl owns the three LED channels and decides, once per
// iteration, which input drives each of them.
package ledctl

import "image/color"

// RGB is the shared tri-color LED. Adapters translate to hardware; the
// board's LED is common-anode, so the device adapter writes 255-v per
// channel. Set is only called when the arbiter decides to change the color;
// on skipped iterations the LED keeps its last value.
type RGB interface {
	Set(c color.RGBA)
}

// Dimmer is the builtin single-color LED with brightness control.
type Dimmer interface {
	SetBrightness(v uint8)
}

// Switch is the power indicator.
type Switch interface {
	Set(on bool)
}

// Recorder implementations keep the last written value; the host build and
// the tests use them in place of hardware.

type RGBRecorder struct {
	Last   color.RGBA
	Writes int
}

func (r *RGBRecorder) Set(c color.RGBA) {
	r.Last = c
	r.Writes++
}

type DimmerRecorder struct {
	Last uint8
}

func (d *DimmerRecorder) SetBrightness(v uint8) { d.Last = v }

type SwitchRecorder struct {
	On bool
}

func (s *SwitchRecorder) Set(on bool) { s.On = on }
