//go:build pico || pico_w

package main

import (
	"context"
	"log/slog"
	"machine"
	"net/netip"
	"time"

	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/devices"
	"github.com/okuda/tinysense/internal/logger"
	"github.com/okuda/tinysense/internal/netstack"
	"github.com/okuda/tinysense/internal/sensors"
	"github.com/okuda/tinysense/pkg/app"
)

// Overridable with -ldflags at build time.
var (
	brokerIP string
	ssid     string
	pass     string
	nodeID   = "picow-00"
)

const hostname = "tinysense"

func main() {
	time.Sleep(10 * time.Second)
	console := machine.Serial
	log := logger.New("boot", console, logger.InfoLevel).NoColor()

	slogger := slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	_, stack, _, err := netstack.SetupWithDHCP(netstack.SetupConfig{
		Hostname: hostname,
		SSID:     ssid,
		Password: pass,
		Logger:   slogger,
		TCPPorts: 1, // For MQTT over TCP.
		UDPPorts: 1, // For DNS.
	})
	if err != nil {
		halt(log, err)
	}

	broker := ""
	if brokerIP != "" {
		if addr, err := netip.ParseAddr(brokerIP); err != nil {
			log.Warn("bad broker ip %q: %v", brokerIP, err)
		} else if _, err := netstack.ResolveHardwareAddr(stack, addr); err != nil {
			log.Warn("broker %s not reachable: %v", brokerIP, err)
		} else {
			broker = "tcp://" + brokerIP + ":1883"
		}
	}

	profile, err := board.ProfileFor(board.Rev2)
	if err != nil {
		halt(log, err)
	}

	i2c := machine.I2C0
	err = i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GP4,
		SCL:       machine.GP5,
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
	if suite.Mic, err = devices.NewMicrophone(machine.GP26, profile.AudioBufferSize); err != nil {
		halt(log, err)
	}

	heartbeat, err := devices.NewDimmer(machine.PWM7, machine.GP15)
	if err != nil {
		halt(log, err)
	}
	outputs := app.Outputs{
		RGB:       devices.NewStripRGB(machine.GP16),
		Heartbeat: heartbeat,
		Power:     devices.NewSwitch(machine.GP14, false),
	}

	err = app.Run(context.Background(), app.Config{
		Revision:  board.Rev2,
		Telemetry: true,
		Broker:    broker,
		NodeID:    nodeID,
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
