package sim

import (
	"sync"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/okuda/tinysense/internal/testutil"
)

func TestSuiteProbes(t *testing.T) {
	s := Suite()
	require.NoError(t, s.Probe())
	require.NotNil(t, s.Light)
}

func TestSuiteReadingsStayPlausible(t *testing.T) {
	s := Suite()
	for i := 0; i < 200; i++ {
		rate, err := s.IMU.ReadAngularRate()
		require.NoError(t, err)
		require.Less(t, rate.Pitch, 10.0)

		prox, err := s.Light.ReadProximity()
		require.NoError(t, err)
		require.GreaterOrEqual(t, prox, 0)
		require.LessOrEqual(t, prox, 255)
	}

	temp, err := s.Env.ReadTemperature()
	require.NoError(t, err)
	require.InDelta(t, 24.0, temp, 5.0)

	kpa, err := s.Baro.ReadPressure()
	require.NoError(t, err)
	require.InDelta(t, 101.3, kpa, 2.0)
}

func TestMicrophoneDeliversUntilStopped(t *testing.T) {
	defer leaktest.Check(t)()

	m := NewMicrophone(64, time.Millisecond)
	var mu sync.Mutex
	blocks := 0
	require.NoError(t, m.Start(func(block []int16) {
		require.Len(t, block, 64)
		mu.Lock()
		blocks++
		mu.Unlock()
	}))

	testutil.WaitForCondition(t, time.Second, time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return blocks >= 3
	}, "microphone produced no blocks")

	m.Stop()
	m.Stop() // idempotent
}
