//go:build tinygo

package devices

import (
	"image/color"
	"machine"
)

// pwmGroup is the slice of the chip's PWM peripheral shared by the LED pins.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

// RGB drives a tri-color LED over three PWM channels. With inverted set the
// duty cycle is flipped per channel for common-anode wiring.
type RGB struct {
	pwm      pwmGroup
	r, g, b  uint8
	inverted bool
}

func NewRGB(pwm pwmGroup, rp, gp, bp machine.Pin, inverted bool) (*RGB, error) {
	if err := pwm.Configure(machine.PWMConfig{}); err != nil {
		return nil, err
	}
	l := &RGB{pwm: pwm, inverted: inverted}
	var err error
	if l.r, err = pwm.Channel(rp); err != nil {
		return nil, err
	}
	if l.g, err = pwm.Channel(gp); err != nil {
		return nil, err
	}
	if l.b, err = pwm.Channel(bp); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *RGB) Set(c color.RGBA) {
	l.set(l.r, c.R)
	l.set(l.g, c.G)
	l.set(l.b, c.B)
}

func (l *RGB) set(ch uint8, v uint8) {
	if l.inverted {
		v = 255 - v
	}
	l.pwm.Set(ch, uint32(v)*l.pwm.Top()/255)
}

// Dimmer drives a single-color LED's brightness over one PWM channel.
type Dimmer struct {
	pwm pwmGroup
	ch  uint8
}

func NewDimmer(pwm pwmGroup, pin machine.Pin) (*Dimmer, error) {
	if err := pwm.Configure(machine.PWMConfig{}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	return &Dimmer{pwm: pwm, ch: ch}, nil
}

func (d *Dimmer) SetBrightness(v uint8) {
	d.pwm.Set(d.ch, uint32(v)*d.pwm.Top()/255)
}

// Switch is a plain on/off LED pin.
type Switch struct {
	pin       machine.Pin
	activeLow bool
}

func NewSwitch(pin machine.Pin, activeLow bool) *Switch {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Switch{pin: pin, activeLow: activeLow}
}

func (s *Switch) Set(on bool) {
	if s.activeLow {
		on = !on
	}
	if on {
		s.pin.High()
	} else {
		s.pin.Low()
	}
}
