// Package control runs the firmware's single iteration cycle: read every
// sensor, classify motion, extract the audio peak, arbitrate the LEDs, emit
// telemetry, wait for the next tick.
package control

import (
	"context"
	"fmt"
	"time"

	"github.com/okuda/tinysense/internal/audio"
	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/ledctl"
	"github.com/okuda/tinysense/internal/logger"
	"github.com/okuda/tinysense/internal/motion"
	"github.com/okuda/tinysense/internal/sensors"
	"github.com/okuda/tinysense/internal/telemetry"
)

// DefaultInterval caps the loop at roughly 40 Hz.
const DefaultInterval = 25 * time.Millisecond

type Loop struct {
	log      *logger.Logger
	profile  board.Profile
	suite    sensors.Suite
	buf      *audio.Buffer
	peaks    *audio.PeakExtractor
	cls      *motion.Classifier
	arb      *ledctl.Arbiter
	sink     telemetry.Sink
	interval time.Duration

	// frame carries the last good reading of every sensor across
	// iterations, so a read error or an absent light sensor degrades to a
	// stale value instead of a crash.
	frame telemetry.Frame
}

func NewLoop(
	p board.Profile,
	suite sensors.Suite,
	buf *audio.Buffer,
	arb *ledctl.Arbiter,
	sink telemetry.Sink,
	log *logger.Logger,
	interval time.Duration,
) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		log:      log,
		profile:  p,
		suite:    suite,
		buf:      buf,
		peaks:    audio.NewPeakExtractor(buf),
		cls:      motion.NewClassifier(p),
		arb:      arb,
		sink:     sink,
		interval: interval,
	}
}

// Run probes the sensor suite, starts the microphone feed and then loops
// until ctx is done. A required sensor missing at boot is fatal and returns
// before the first read; the light sensor being absent is only logged.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.suite.Probe(); err != nil {
		return err
	}
	if l.suite.Light == nil {
		l.log.Warn("light/proximity sensor absent, readings stay at zero")
	}
	if err := l.suite.Mic.Start(l.buf.Push); err != nil {
		return fmt.Errorf("microphone: %w", err)
	}
	if s, ok := l.suite.Mic.(interface{ Stop() }); ok {
		defer s.Stop()
	}
	l.log.Info("loop started, board %s, interval %s", l.profile.Revision, l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		l.iterate()
	}
}

func (l *Loop) iterate() {
	f := &l.frame

	if acc, err := l.suite.IMU.ReadAcceleration(); err != nil {
		l.log.Warn("read acceleration: %v", err)
	} else {
		f.Accel = acc
	}
	rate := sensors.AngularRate{
		Roll:  f.Gyro.Roll + l.profile.OffsetRoll,
		Pitch: f.Gyro.Pitch + l.profile.OffsetPitch,
		Yaw:   f.Gyro.Yaw + l.profile.OffsetYaw,
	}
	if r, err := l.suite.IMU.ReadAngularRate(); err != nil {
		l.log.Warn("read angular rate: %v", err)
	} else {
		rate = r
	}
	if mag, err := l.suite.IMU.ReadMagneticField(); err != nil {
		l.log.Warn("read magnetic field: %v", err)
	} else {
		f.Mag = mag
	}
	if v, err := l.suite.Env.ReadTemperature(); err != nil {
		l.log.Warn("read temperature: %v", err)
	} else {
		f.TemperatureC = v
	}
	if v, err := l.suite.Env.ReadHumidity(); err != nil {
		l.log.Warn("read humidity: %v", err)
	} else {
		f.Humidity = v
	}
	if v, err := l.suite.Baro.ReadPressure(); err != nil {
		l.log.Warn("read pressure: %v", err)
	} else {
		f.PressureKPa = v
	}
	if l.suite.Light != nil {
		if v, err := l.suite.Light.ReadProximity(); err != nil {
			l.log.Warn("read proximity: %v", err)
		} else {
			f.Proximity = v
		}
		if c, err := l.suite.Light.ReadColor(); err != nil {
			l.log.Warn("read color: %v", err)
		} else {
			f.Light = c
		}
	}

	res := l.cls.Update(rate)
	peak, fresh := l.peaks.Extract()
	f.Peak = peak

	l.arb.Apply(ledctl.Inputs{
		Motion:    res,
		Peak:      peak,
		FreshPeak: fresh,
		Proximity: f.Proximity,
		TiltLevel: motion.TiltLevel(f.Accel.Z),
	})

	// Telemetry shows calibration-corrected angular rates.
	f.Gyro = sensors.AngularRate{
		Roll:  rate.Roll - l.profile.OffsetRoll,
		Pitch: rate.Pitch - l.profile.OffsetPitch,
		Yaw:   rate.Yaw - l.profile.OffsetYaw,
	}
	l.sink.Emit(*f)
}
