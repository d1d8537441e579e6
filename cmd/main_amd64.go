//go:build !tinygo

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	env "github.com/caarlos0/env/v11"

	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/logger"
	"github.com/okuda/tinysense/internal/sensors/sim"
	"github.com/okuda/tinysense/pkg/app"
)

type config struct {
	Revision  string `env:"BOARD_REV"`
	Broker    string `env:"BROKER_ADDR"`
	NodeID    string `env:"NODE_ID"`
	Telemetry bool   `env:"TELEMETRY"`
	Labels    bool   `env:"TELEMETRY_LABELS"`
	Debug     bool   `env:"DEBUG"`
}

// Host build: the full pipeline against simulated sensors, for development
// and for demoing the MQTT uplink against a local broker.
func main() {
	cfg := config{
		// Default values
		Revision:  "rev1",
		Broker:    "tcp://mosquitto:1883",
		Telemetry: true,
	}
	if err := env.Parse(&cfg); err != nil {
		fmt.Println(err)
	}
	rev, err := board.ParseRevision(cfg.Revision)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	level := logger.InfoLevel
	if cfg.Debug {
		level = logger.DebugLevel
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outputs := newConsoleOutputs(logger.New("leds", os.Stdout, level))
	err = app.Run(ctx, app.Config{
		Revision:  rev,
		Telemetry: cfg.Telemetry,
		Labels:    cfg.Labels,
		Broker:    cfg.Broker,
		NodeID:    cfg.NodeID,
		LogLevel:  level,
	}, sim.Suite(), outputs, os.Stdout)
	if err != nil && ctx.Err() == nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
