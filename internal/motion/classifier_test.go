package motion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/sensors"
)

func rev1Profile(t *testing.T) board.Profile {
	t.Helper()
	p, err := board.ProfileFor(board.Rev1)
	require.NoError(t, err)
	return p
}

func TestLevelsApplyOffsetAndDivisor(t *testing.T) {
	p := rev1Profile(t)
	c := NewClassifier(p)

	// Raw equal to the offsets: zero deviation everywhere.
	res := c.Update(sensors.AngularRate{Roll: p.OffsetRoll, Pitch: p.OffsetPitch, Yaw: p.OffsetYaw})
	require.Equal(t, [3]uint8{0, 0, 0}, res.Levels)
	require.Equal(t, Idle, res.State)
	require.True(t, res.Quiet)

	// 40 deg/s above offset with divisor 2 scales to 20.
	res = c.Update(sensors.AngularRate{Roll: p.OffsetRoll + 40, Pitch: p.OffsetPitch, Yaw: p.OffsetYaw})
	require.Equal(t, uint8(20), res.Levels[0])
	require.Equal(t, Active, res.State)
}

func TestLevelsClampAt255(t *testing.T) {
	p := rev1Profile(t)
	c := NewClassifier(p)

	res := c.Update(sensors.AngularRate{Roll: p.OffsetRoll + 100000})
	require.Equal(t, uint8(255), res.Levels[0])
}

func TestQuietBelowActivationIsDeadZone(t *testing.T) {
	p := rev1Profile(t)
	c := NewClassifier(p)

	// Level 5: above quiet (2), below activation (8). Neither quiet nor
	// active; the LED belongs to nobody this cycle.
	res := c.Update(sensors.AngularRate{Roll: p.OffsetRoll + 10, Pitch: p.OffsetPitch, Yaw: p.OffsetYaw})
	require.Equal(t, uint8(5), res.Levels[0])
	require.False(t, res.Quiet)
	require.Equal(t, Idle, res.State)
}

func TestDecayHoldsExactlyConfiguredCycles(t *testing.T) {
	p := rev1Profile(t)
	c := NewClassifier(p)

	trigger := sensors.AngularRate{Roll: p.OffsetRoll + 40, Pitch: p.OffsetPitch, Yaw: p.OffsetYaw}
	still := sensors.AngularRate{Roll: p.OffsetRoll, Pitch: p.OffsetPitch, Yaw: p.OffsetYaw}

	require.Equal(t, Active, c.Update(trigger).State)
	for i := 0; i < p.DecayCycles; i++ {
		res := c.Update(still)
		require.Equalf(t, Decaying, res.State, "cycle %d", i)
	}
	require.Equal(t, Idle, c.Update(still).State)
}

func TestDecayRearmsOnRetrigger(t *testing.T) {
	p := rev1Profile(t)
	c := NewClassifier(p)

	trigger := sensors.AngularRate{Pitch: p.OffsetPitch + 30}
	still := sensors.AngularRate{Roll: p.OffsetRoll, Pitch: p.OffsetPitch, Yaw: p.OffsetYaw}

	c.Update(trigger)
	for i := 0; i < p.DecayCycles/2; i++ {
		c.Update(still)
	}
	// Re-trigger halfway through decay: timer restarts at max.
	require.Equal(t, Active, c.Update(trigger).State)
	for i := 0; i < p.DecayCycles; i++ {
		require.Equal(t, Decaying, c.Update(still).State)
	}
	require.Equal(t, Idle, c.Update(still).State)
}

func TestTiltLevel(t *testing.T) {
	require.Equal(t, uint8(229), TiltLevel(0.9))
	require.Equal(t, uint8(127), TiltLevel(0.5))
	require.Equal(t, uint8(0), TiltLevel(-0.3))
	require.Equal(t, uint8(255), TiltLevel(1.2))
}
