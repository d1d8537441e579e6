package ledctl

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/motion"
)

type harness struct {
	arb     *Arbiter
	rgb     *RGBRecorder
	builtin *DimmerRecorder
	power   *SwitchRecorder
	profile board.Profile
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	p, err := board.ProfileFor(board.Rev1)
	require.NoError(t, err)
	h := &harness{
		rgb:     &RGBRecorder{},
		builtin: &DimmerRecorder{},
		power:   &SwitchRecorder{},
		profile: p,
	}
	h.arb = NewArbiter(p, h.rgb, h.builtin, h.power)
	return h
}

func quiet() motion.Result {
	return motion.Result{State: motion.Idle, Quiet: true}
}

func TestArbiter(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, h *harness){
		"active motion owns the rgb led":          testMotionOwnsRGB,
		"quiet gyro selects audio color":          testAudioBranch,
		"peak 650 with quiet gyro selects red":    testPeak650Red,
		"peak zero maps to black":                 testPeakZeroBlack,
		"decaying state blocks audio color":       testDecayBlocksAudio,
		"dead zone leaves led unchanged":          testDeadZoneNoWrite,
		"stale peak never drives a write":         testStalePeakNoWrite,
		"tilt drives the power indicator":         testPowerIndicator,
		"proximity brightness mapping":            testProximityBrightness,
		"heartbeat fires only when provably idle": testHeartbeat,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, newHarness(t))
		})
	}
}

func testMotionOwnsRGB(t *testing.T, h *harness) {
	in := Inputs{
		Motion:    motion.Result{State: motion.Active, Levels: [3]uint8{20, 5, 0}},
		Peak:      650, // a loud peak must lose to active motion
		FreshPeak: true,
	}
	h.arb.Apply(in)
	require.Equal(t, color.RGBA{R: 20, G: 5, B: 0, A: 255}, h.rgb.Last)
	require.Equal(t, 1, h.rgb.Writes)
}

func testAudioBranch(t *testing.T, h *harness) {
	h.arb.Apply(Inputs{Motion: quiet(), Peak: 120, FreshPeak: true})
	require.Equal(t, color.RGBA{B: 255, A: 255}, h.rgb.Last)
}

func testPeak650Red(t *testing.T, h *harness) {
	h.arb.Apply(Inputs{Motion: quiet(), Peak: 650, FreshPeak: true})
	require.Equal(t, color.RGBA{R: 255, A: 255}, h.rgb.Last)
}

func testPeakZeroBlack(t *testing.T, h *harness) {
	h.arb.Apply(Inputs{Motion: quiet(), Peak: 0, FreshPeak: true})
	require.Equal(t, 1, h.rgb.Writes)
	require.Equal(t, color.RGBA{A: 255}, h.rgb.Last)
}

func testDecayBlocksAudio(t *testing.T, h *harness) {
	h.arb.Apply(Inputs{
		Motion:    motion.Result{State: motion.Decaying, Quiet: true},
		Peak:      650,
		FreshPeak: true,
	})
	require.Zero(t, h.rgb.Writes)
}

func testDeadZoneNoWrite(t *testing.T, h *harness) {
	// Deviations above quiet but below activation: neither branch runs.
	h.arb.Apply(Inputs{
		Motion:    motion.Result{State: motion.Idle, Quiet: false, Levels: [3]uint8{5, 0, 0}},
		Peak:      650,
		FreshPeak: true,
	})
	require.Zero(t, h.rgb.Writes)
}

func testStalePeakNoWrite(t *testing.T, h *harness) {
	h.arb.Apply(Inputs{Motion: quiet(), Peak: 650, FreshPeak: false})
	require.Zero(t, h.rgb.Writes)
}

func testPowerIndicator(t *testing.T, h *harness) {
	h.arb.Apply(Inputs{Motion: quiet(), TiltLevel: 229})
	require.False(t, h.power.On)

	h.arb.Apply(Inputs{Motion: quiet(), TiltLevel: 127})
	require.True(t, h.power.On)
}

func testProximityBrightness(t *testing.T, h *harness) {
	require.Equal(t, uint8(230), ProximityBrightness(0))
	require.Equal(t, uint8(180), ProximityBrightness(50))
	require.Equal(t, uint8(0), ProximityBrightness(230))
	require.Equal(t, uint8(0), ProximityBrightness(255))

	h.arb.Apply(Inputs{Motion: quiet(), Proximity: 50})
	require.Equal(t, uint8(180), h.builtin.Last)
}

func testHeartbeat(t *testing.T, h *harness) {
	idle := Inputs{Motion: quiet(), Peak: 10, Proximity: 200}

	// Pulses exactly when the idle counter reaches the period.
	for i := 0; i < h.profile.HeartbeatPeriod-1; i++ {
		h.arb.Apply(idle)
		require.Equalf(t, ProximityBrightness(200), h.builtin.Last, "cycle %d", i)
	}
	h.arb.Apply(idle)
	require.Equal(t, uint8(255), h.builtin.Last)

	// Any violated condition suppresses the pulse at the period boundary.
	violations := map[string]Inputs{
		"proximity below threshold": {Motion: quiet(), Peak: 10, Proximity: 50},
		"gyro not quiet": {
			Motion:    motion.Result{State: motion.Idle, Quiet: false},
			Peak:      10,
			Proximity: 200,
		},
		"peak at lowest color threshold": {Motion: quiet(), Peak: h.profile.LowestColorThreshold(), Proximity: 200},
		"decay timer running": {
			Motion:    motion.Result{State: motion.Decaying, Quiet: true},
			Peak:      10,
			Proximity: 200,
		},
	}
	for name, in := range violations {
		for i := 0; i < h.profile.HeartbeatPeriod; i++ {
			h.arb.Apply(in)
		}
		require.NotEqualf(t, uint8(255), h.builtin.Last, "%s must suppress the pulse", name)
	}
}
