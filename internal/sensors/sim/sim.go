// Package sim provides software sensors for the host build, so the whole
// pipeline can run and be demoed without the board attached.
package sim

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okuda/tinysense/internal/sensors"
)

// Suite builds a full simulated sensor complement sharing one world state.
func Suite() sensors.Suite {
	w := newWorld()
	return sensors.Suite{
		IMU:   &imu{w: w},
		Env:   &env{w: w},
		Baro:  &baro{w: w},
		Light: &light{w: w},
		Mic:   NewMicrophone(256, 25*time.Millisecond),
	}
}

// world random-walks a plausible desk environment; occasional "bump" events
// exercise the motion branch.
type world struct {
	mu        sync.Mutex
	temp      float64
	hum       float64
	kpa       float64
	prox      int
	bumpUntil time.Time
}

func newWorld() *world {
	return &world{
		temp: 24.0,
		hum:  42.0,
		kpa:  101.3,
		prox: 30,
	}
}

func (w *world) step() {
	w.temp += (rand.Float64() - 0.5) * 0.02
	w.hum += (rand.Float64() - 0.5) * 0.05
	w.kpa += (rand.Float64() - 0.5) * 0.001
	w.prox += rand.IntN(5) - 2
	if w.prox < 0 {
		w.prox = 0
	}
	if w.prox > 255 {
		w.prox = 255
	}
	if rand.IntN(400) == 0 {
		w.bumpUntil = time.Now().Add(300 * time.Millisecond)
	}
}

type imu struct{ w *world }

func (s *imu) ReadAcceleration() (sensors.Acceleration, error) {
	return sensors.Acceleration{
		X: (rand.Float64() - 0.5) * 0.02,
		Y: (rand.Float64() - 0.5) * 0.02,
		Z: 0.98 + (rand.Float64()-0.5)*0.01,
	}, nil
}

func (s *imu) ReadAngularRate() (sensors.AngularRate, error) {
	s.w.mu.Lock()
	bumping := time.Now().Before(s.w.bumpUntil)
	s.w.step()
	s.w.mu.Unlock()

	jitter := func() float64 { return (rand.Float64() - 0.5) * 1.5 }
	r := sensors.AngularRate{Roll: jitter(), Pitch: jitter(), Yaw: jitter()}
	if bumping {
		r.Roll += 80 * (rand.Float64() + 0.5)
	}
	return r, nil
}

func (s *imu) ReadMagneticField() (sensors.MagneticField, error) {
	return sensors.MagneticField{
		X: 22 + (rand.Float64()-0.5)*2,
		Y: -5 + (rand.Float64()-0.5)*2,
		Z: 43 + (rand.Float64()-0.5)*2,
	}, nil
}

type env struct{ w *world }

func (s *env) ReadTemperature() (float64, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return s.w.temp, nil
}

func (s *env) ReadHumidity() (float64, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return s.w.hum, nil
}

type baro struct{ w *world }

func (s *baro) ReadPressure() (float64, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return s.w.kpa, nil
}

type light struct{ w *world }

func (s *light) ReadProximity() (int, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return s.w.prox, nil
}

func (s *light) ReadColor() (sensors.LightColor, error) {
	return sensors.LightColor{
		R: 800 + rand.IntN(64),
		G: 700 + rand.IntN(64),
		B: 600 + rand.IntN(64),
	}, nil
}

// Microphone synthesizes sample blocks: mostly quiet noise with occasional
// loud sine bursts that walk the whole color table.
type Microphone struct {
	blockSize int
	interval  time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewMicrophone(blockSize int, interval time.Duration) *Microphone {
	return &Microphone{
		blockSize: blockSize,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

func (m *Microphone) Start(deliver func(block []int16)) error {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		block := make([]int16, m.blockSize)
		phase := 0.0
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
			}
			amp := float64(rand.IntN(40))
			if rand.IntN(30) == 0 {
				amp = float64(50 + rand.IntN(700))
			}
			for i := range block {
				phase += 2 * math.Pi / 16
				block[i] = int16(amp * math.Sin(phase))
			}
			deliver(block)
		}
	}()
	return nil
}

// Stop ends the feed; only tests need it.
func (m *Microphone) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}
