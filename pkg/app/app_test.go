package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/okuda/tinysense/internal/board"
	"github.com/okuda/tinysense/internal/ledctl"
	"github.com/okuda/tinysense/internal/sensors/sim"
	"github.com/okuda/tinysense/internal/testutil"
)

// syncBuffer lets the test poll console output while the loop is writing it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ io.Writer = (*syncBuffer)(nil)

func TestRun_UnknownRevision(t *testing.T) {
	err := Run(context.Background(), Config{Revision: board.Revision(99)},
		sim.Suite(), Outputs{}, io.Discard)
	require.ErrorContains(t, err, "no profile")
}

func TestRun_SimulatedBoard(t *testing.T) {
	defer leaktest.Check(t)()

	console := &syncBuffer{}
	out := Outputs{
		RGB:       &ledctl.RGBRecorder{},
		Heartbeat: &ledctl.DimmerRecorder{},
		Power:     &ledctl.SwitchRecorder{},
	}
	cfg := Config{
		Revision:  board.Rev1,
		Interval:  2 * time.Millisecond,
		Telemetry: true,
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, cfg, sim.Suite(), out, console)
	}()

	testutil.WaitForCondition(t, 3*time.Second, 5*time.Millisecond, func() bool {
		return strings.Count(console.String(), "\n") >= 5
	}, "no telemetry reached the console")

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// The plain telemetry line has 17 fixed-width fields.
	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	var sawFrame bool
	for _, line := range lines {
		if len(strings.Fields(line)) == 17 {
			sawFrame = true
			break
		}
	}
	require.True(t, sawFrame, "expected at least one telemetry frame, got:\n%s", console.String())
}
