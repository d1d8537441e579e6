package sensors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type stubIMU struct{}

func (stubIMU) ReadAcceleration() (Acceleration, error)   { return Acceleration{}, nil }
func (stubIMU) ReadAngularRate() (AngularRate, error)     { return AngularRate{}, nil }
func (stubIMU) ReadMagneticField() (MagneticField, error) { return MagneticField{}, nil }

type stubEnv struct{}

func (stubEnv) ReadTemperature() (float64, error) { return 0, nil }
func (stubEnv) ReadHumidity() (float64, error)    { return 0, nil }

type stubBaro struct{}

func (stubBaro) ReadPressure() (float64, error) { return 0, nil }

type stubMic struct{}

func (stubMic) Start(func(block []int16)) error { return nil }

func fullSuite() Suite {
	return Suite{IMU: stubIMU{}, Env: stubEnv{}, Baro: stubBaro{}, Mic: stubMic{}}
}

func TestProbe(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"complete suite passes": func(t *testing.T) {
			s := fullSuite()
			require.NoError(t, s.Probe())
		},
		"light sensor is optional": func(t *testing.T) {
			s := fullSuite()
			s.Light = nil
			require.NoError(t, s.Probe())
		},
		"missing imu": func(t *testing.T) {
			s := fullSuite()
			s.IMU = nil
			err := s.Probe()
			require.ErrorIs(t, err, ErrNotConnected)
			require.ErrorContains(t, err, "imu")
		},
		"missing environment": func(t *testing.T) {
			s := fullSuite()
			s.Env = nil
			err := s.Probe()
			require.ErrorIs(t, err, ErrNotConnected)
			require.ErrorContains(t, err, "environment")
		},
		"missing barometer": func(t *testing.T) {
			s := fullSuite()
			s.Baro = nil
			err := s.Probe()
			require.ErrorIs(t, err, ErrNotConnected)
			require.ErrorContains(t, err, "barometer")
		},
		"missing microphone": func(t *testing.T) {
			s := fullSuite()
			s.Mic = nil
			err := s.Probe()
			require.ErrorIs(t, err, ErrNotConnected)
			require.ErrorContains(t, err, "microphone")
		},
	} {
		t.Run(scenario, fn)
	}
}
