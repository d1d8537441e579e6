//go:build pico || pico_w

package devices

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// StripRGB drives a single ws2812 pixel as the shared RGB channel on the
// Pico W carrier. No inversion: the pixel takes colors directly.
type StripRGB struct {
	dev ws2812.Device
}

func NewStripRGB(pin machine.Pin) *StripRGB {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &StripRGB{dev: ws2812.New(pin)}
}

func (s *StripRGB) Set(c color.RGBA) {
	s.dev.WriteColors([]color.RGBA{c})
}
