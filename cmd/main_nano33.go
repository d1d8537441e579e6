//go:build nano33ble

package main

import (
	"context"
	"machine"
	"time"

	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/devices"
	"github.com/okuda/tinysense/internal/logger"
	"github.com/okuda/tinysense/internal/sensors"
	"github.com/okuda/tinysense/pkg/app"
)

// Overridable with -ldflags at build time.
var revision = "rev1"

func main() {
	// Give the serial monitor a chance to attach.
	time.Sleep(2 * time.Second)
	console := machine.Serial
	log := logger.New("boot", console, logger.InfoLevel).NoColor()

	rev, err := board.ParseRevision(revision)
	if err != nil {
		halt(log, err)
	}
	profile, err := board.ProfileFor(rev)
	if err != nil {
		halt(log, err)
	}

	// The onboard sensors share the internal I2C bus.
	i2c := machine.I2C1
	err = i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.SDA1_PIN,
		SCL:       machine.SCL1_PIN,
	})
	if err != nil {
		halt(log, err)
	}

	suite := sensors.Suite{}
	if suite.IMU, err = devices.NewIMU(i2c); err != nil {
		halt(log, err)
	}
	if suite.Env, err = devices.NewEnvironment(i2c); err != nil {
		halt(log, err)
	}
	if suite.Baro, err = devices.NewBarometer(i2c); err != nil {
		halt(log, err)
	}
	if light, err := devices.NewProximityLight(i2c); err != nil {
		log.Warn("light/proximity probe failed: %v", err)
	} else {
		suite.Light = light
	}
	if suite.Mic, err = devices.NewMicrophone(profile.AudioBufferSize); err != nil {
		halt(log, err)
	}

	// The RGB LED is common-anode: channels are written inverted.
	rgb, err := devices.NewRGB(machine.PWM0, machine.LED_RED, machine.LED_GREEN, machine.LED_BLUE, true)
	if err != nil {
		halt(log, err)
	}
	heartbeat, err := devices.NewDimmer(machine.PWM1, machine.LED)
	if err != nil {
		halt(log, err)
	}
	outputs := app.Outputs{
		RGB:       rgb,
		Heartbeat: heartbeat,
		Power:     devices.NewSwitch(machine.LED_PWR, false),
	}

	err = app.Run(context.Background(), app.Config{
		Revision:  rev,
		Telemetry: true,
		LogLevel:  logger.InfoLevel,
		NoColor:   true,
	}, suite, outputs, console)
	halt(log, err)
}

// halt is the fatal-init state: one diagnostic per second, forever.
func halt(log *logger.Logger, err error) {
	for {
		if err != nil {
			log.Error(err, "halted")
		}
		time.Sleep(time.Second)
	}
}
