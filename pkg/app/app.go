// Package app wires the sensor suite, LED outputs, telemetry sinks and the
// control loop into a running firmware instance. Entry points under cmd only
// assemble hardware (or simulated) collaborators and call Run.
package app

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/okuda/tinysense/internal/audio"
	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/control"
	"github.com/okuda/tinysense/internal/filesys"
	"github.com/okuda/tinysense/internal/ledctl"
	"github.com/okuda/tinysense/internal/logger"
	"github.com/okuda/tinysense/internal/mqtt"
	"github.com/okuda/tinysense/internal/sensors"
	"github.com/okuda/tinysense/internal/spool"
	"github.com/okuda/tinysense/internal/telemetry"
)

type Config struct {
	Revision board.Revision
	Interval time.Duration

	// Telemetry enables the serial text stream; Labels switches it to the
	// labeled form.
	Telemetry bool
	Labels    bool

	// Broker enables the MQTT uplink when non-empty. NodeID defaults to a
	// random UUID.
	Broker string
	NodeID string

	LogLevel logger.LogLevel
	NoColor  bool
}

// Outputs are the three LED channels, hardware-backed or recorded.
type Outputs struct {
	RGB       ledctl.RGB
	Heartbeat ledctl.Dimmer
	Power     ledctl.Switch
}

const spoolDir = "telemetry"

// Run blocks until ctx is done or a required sensor fails its probe.
func Run(ctx context.Context, cfg Config, suite sensors.Suite, out Outputs, console io.Writer) error {
	log := logger.New("tinysense", console, cfg.LogLevel)
	if cfg.NoColor {
		log.NoColor()
	}

	profile, err := board.ProfileFor(cfg.Revision)
	if err != nil {
		return err
	}
	log.Info("board profile %s", profile.Revision)

	var sinks telemetry.MultiSink
	if cfg.Telemetry {
		sinks = append(sinks, telemetry.NewFormatter(console, cfg.Labels))
	}

	if cfg.Broker != "" {
		nodeID := cfg.NodeID
		if nodeID == "" {
			nodeID = uuid.New().String()
		}
		pub, cleanup, err := startUplink(ctx, cfg.Broker, nodeID, log)
		if err != nil {
			// The uplink is best-effort, like the light sensor: the board
			// keeps running on serial telemetry alone.
			log.Error(err, "mqtt uplink disabled")
		} else {
			defer cleanup()
			sinks = append(sinks, pub)
		}
	}

	buf := audio.NewBuffer(profile.AudioBufferSize)
	arb := ledctl.NewArbiter(profile, out.RGB, out.Heartbeat, out.Power)
	loop := control.NewLoop(profile, suite, buf, arb, sinks, log.Named("loop"), cfg.Interval)
	return loop.Run(ctx)
}

func startUplink(ctx context.Context, broker, nodeID string, log *logger.Logger) (*telemetry.Publisher, func(), error) {
	fs, unmount, err := filesys.NewFileSystem()
	if err != nil {
		return nil, nil, err
	}
	c := spool.Config{}
	c.Segment.MaxStoreBytes = 4096
	c.MaxSegments = 8
	sp, err := spool.New(fs, spoolDir, c)
	if err != nil {
		unmount()
		return nil, nil, err
	}

	client, err := mqtt.NewClient(mqtt.Config{Broker: broker, ClientID: nodeID})
	if err != nil {
		sp.Close()
		unmount()
		return nil, nil, err
	}
	log.Info("mqtt uplink to %s as %s", broker, nodeID)

	pub := telemetry.NewPublisher(client, nodeID, sp, log.Named("uplink"))
	pubCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		pub.Run(pubCtx)
	}()

	cleanup := func() {
		cancel()
		<-done
		client.Disconnect()
		sp.Close()
		unmount()
	}
	return pub, cleanup, nil
}
