//go:build tinygo

// Package devices adapts the onboard sensor drivers to the collaborator
// interfaces. Everything here needs the TinyGo machine package and is
// excluded from host builds.
package devices

import (
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/apds9960"
	"tinygo.org/x/drivers/hts221"
	"tinygo.org/x/drivers/lps22hb"
	"tinygo.org/x/drivers/lsm9ds1"

	"github.com/okuda/tinysense/internal/sensors"
)

// Driver raw units to engineering units.
const (
	microPerUnit = 1e6 // accel µg -> g, gyro µdps -> dps
	nTPerMicroT  = 1e3 // mag nT -> µT
	mPaPerKPa    = 1e6 // pressure mPa -> kPa
	mCPerC       = 1e3 // temperature m°C -> °C
	cPctPerPct   = 1e2 // humidity c% -> %
)

type IMU struct {
	dev *lsm9ds1.Device
}

func NewIMU(bus drivers.I2C) (*IMU, error) {
	dev := lsm9ds1.New(bus)
	err := dev.Configure(lsm9ds1.Configuration{
		AccelRange:      lsm9ds1.ACCEL_4G,
		AccelSampleRate: lsm9ds1.ACCEL_SR_119,
		GyroRange:       lsm9ds1.GYRO_2000DPS,
		GyroSampleRate:  lsm9ds1.GYRO_SR_119,
		MagRange:        lsm9ds1.MAG_4G,
		MagSampleRate:   lsm9ds1.MAG_SR_80,
	})
	if err != nil {
		return nil, err
	}
	if !dev.Connected() {
		return nil, sensors.ErrNotConnected
	}
	return &IMU{dev: dev}, nil
}

func (s *IMU) ReadAcceleration() (sensors.Acceleration, error) {
	x, y, z, err := s.dev.ReadAcceleration()
	if err != nil {
		return sensors.Acceleration{}, err
	}
	return sensors.Acceleration{
		X: float64(x) / microPerUnit,
		Y: float64(y) / microPerUnit,
		Z: float64(z) / microPerUnit,
	}, nil
}

func (s *IMU) ReadAngularRate() (sensors.AngularRate, error) {
	x, y, z, err := s.dev.ReadRotation()
	if err != nil {
		return sensors.AngularRate{}, err
	}
	return sensors.AngularRate{
		Roll:  float64(x) / microPerUnit,
		Pitch: float64(y) / microPerUnit,
		Yaw:   float64(z) / microPerUnit,
	}, nil
}

func (s *IMU) ReadMagneticField() (sensors.MagneticField, error) {
	x, y, z, err := s.dev.ReadMagneticField()
	if err != nil {
		return sensors.MagneticField{}, err
	}
	return sensors.MagneticField{
		X: float64(x) / nTPerMicroT,
		Y: float64(y) / nTPerMicroT,
		Z: float64(z) / nTPerMicroT,
	}, nil
}

type Environment struct {
	dev hts221.Device
}

func NewEnvironment(bus drivers.I2C) (*Environment, error) {
	dev := hts221.New(bus)
	dev.Configure()
	if !dev.Connected() {
		return nil, sensors.ErrNotConnected
	}
	return &Environment{dev: dev}, nil
}

func (s *Environment) ReadTemperature() (float64, error) {
	v, err := s.dev.ReadTemperature()
	if err != nil {
		return 0, err
	}
	return float64(v) / mCPerC, nil
}

func (s *Environment) ReadHumidity() (float64, error) {
	v, err := s.dev.ReadHumidity()
	if err != nil {
		return 0, err
	}
	return float64(v) / cPctPerPct, nil
}

type Barometer struct {
	dev lps22hb.Device
}

func NewBarometer(bus drivers.I2C) (*Barometer, error) {
	dev := lps22hb.New(bus)
	dev.Configure()
	if !dev.Connected() {
		return nil, sensors.ErrNotConnected
	}
	return &Barometer{dev: dev}, nil
}

func (s *Barometer) ReadPressure() (float64, error) {
	v, err := s.dev.ReadPressure()
	if err != nil {
		return 0, err
	}
	return float64(v) / mPaPerKPa, nil
}

type ProximityLight struct {
	dev apds9960.Device
}

func NewProximityLight(bus drivers.I2C) (*ProximityLight, error) {
	dev := apds9960.New(bus)
	dev.Configure(apds9960.Configuration{})
	if !dev.Connected() {
		return nil, sensors.ErrNotConnected
	}
	dev.EnableProximity()
	dev.EnableColor()
	return &ProximityLight{dev: dev}, nil
}

// ReadProximity spin-waits on the sensor; a stalled part stalls the loop,
// matching the hardware contract.
func (s *ProximityLight) ReadProximity() (int, error) {
	for !s.dev.ProximityAvailable() {
		time.Sleep(time.Millisecond)
	}
	return int(s.dev.ReadProximity()), nil
}

func (s *ProximityLight) ReadColor() (sensors.LightColor, error) {
	for !s.dev.ColorAvailable() {
		time.Sleep(time.Millisecond)
	}
	r, g, b, _ := s.dev.ReadColor()
	return sensors.LightColor{R: int(r), G: int(g), B: int(b)}, nil
}
