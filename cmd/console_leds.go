//go:build !tinygo

package main

import (
	"image/color"

	"github.com/okuda/tinysense/internal/ledctl"
	"github.com/okuda/tinysense/internal/logger"
	"github.com/okuda/tinysense/pkg/app"
)

// Console LED stand-ins: log state changes instead of lighting anything.

type consoleRGB struct {
	log  *logger.Logger
	last color.RGBA
	set  bool
}

func (c *consoleRGB) Set(v color.RGBA) {
	if c.set && v == c.last {
		return
	}
	c.last, c.set = v, true
	c.log.Debug("rgb #%02x%02x%02x", v.R, v.G, v.B)
}

type consoleDimmer struct {
	log  *logger.Logger
	last uint8
	set  bool
}

func (c *consoleDimmer) SetBrightness(v uint8) {
	if c.set && v == c.last {
		return
	}
	c.last, c.set = v, true
	if v == 255 {
		c.log.Info("heartbeat pulse")
		return
	}
	c.log.Debug("builtin brightness %d", v)
}

type consoleSwitch struct {
	log *logger.Logger
	on  bool
	set bool
}

func (c *consoleSwitch) Set(on bool) {
	if c.set && on == c.on {
		return
	}
	c.on, c.set = on, true
	c.log.Info("power led %v", on)
}

func newConsoleOutputs(log *logger.Logger) app.Outputs {
	return app.Outputs{
		RGB:       &consoleRGB{log: log},
		Heartbeat: &consoleDimmer{log: log},
		Power:     &consoleSwitch{log: log},
	}
}

var _ ledctl.RGB = (*consoleRGB)(nil)
