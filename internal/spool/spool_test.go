package spool

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/tinyfs/littlefs"

	"github.com/okuda/tinysense/internal/filesys"
)

func createTestFS(t *testing.T) *littlefs.LFS {
	t.Helper()
	fs, unmount, err := filesys.NewFileSystem()
	require.NoError(t, err)
	t.Cleanup(unmount)
	return fs
}

func TestSpool(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, sp *Spool){
		"append then drain in order":         testAppendDrain,
		"peek does not consume":              testPeekIdempotent,
		"drain catches up with the appender": testInterleaved,
		"rotation drops the oldest segment":  testRotationDropsOldest,
		"oversized record is rejected":       testOversized,
		"pending counts undrained records":   testPending,
	} {
		t.Run(scenario, func(t *testing.T) {
			fs := createTestFS(t)
			c := Config{}
			c.Segment.MaxStoreBytes = 64
			c.MaxSegments = 3
			sp, err := New(fs, "tmp", c)
			require.NoError(t, err)
			defer sp.Close()

			fn(t, sp)
		})
	}
}

func testAppendDrain(t *testing.T, sp *Spool) {
	var want [][]byte
	for i := 0; i < 10; i++ {
		p := []byte(fmt.Sprintf("frame-%02d", i))
		want = append(want, p)
		require.NoError(t, sp.Append(p))
	}
	for i := 0; i < 10; i++ {
		p, ok := sp.Peek()
		require.True(t, ok)
		require.Equal(t, want[i], p)
		sp.Advance()
	}
	_, ok := sp.Peek()
	require.False(t, ok)
}

func testPeekIdempotent(t *testing.T, sp *Spool) {
	require.NoError(t, sp.Append([]byte("once")))
	a, ok := sp.Peek()
	require.True(t, ok)
	b, ok := sp.Peek()
	require.True(t, ok)
	require.Equal(t, a, b)
}

func testInterleaved(t *testing.T, sp *Spool) {
	for i := 0; i < 5; i++ {
		require.NoError(t, sp.Append([]byte(fmt.Sprintf("a%d", i))))
		p, ok := sp.Peek()
		require.True(t, ok)
		require.Equal(t, []byte(fmt.Sprintf("a%d", i)), p)
		sp.Advance()
	}
	_, ok := sp.Peek()
	require.False(t, ok)
}

func testRotationDropsOldest(t *testing.T, sp *Spool) {
	// 12-byte records + 4-byte prefix: 4 per 64-byte segment. 20 appends
	// span 5 segments; the cap of 3 drops the first two unread.
	for i := 0; i < 20; i++ {
		require.NoError(t, sp.Append([]byte(fmt.Sprintf("telemetry-%02d", i))))
	}
	p, ok := sp.Peek()
	require.True(t, ok)
	require.Equal(t, []byte("telemetry-08"), p)

	n := 0
	for {
		_, ok := sp.Peek()
		if !ok {
			break
		}
		sp.Advance()
		n++
	}
	require.Equal(t, 12, n)
}

func testOversized(t *testing.T, sp *Spool) {
	require.Error(t, sp.Append(make([]byte, 64)))
}

func testPending(t *testing.T, sp *Spool) {
	require.Zero(t, sp.Pending())
	for i := 0; i < 6; i++ {
		require.NoError(t, sp.Append([]byte("x")))
	}
	require.Equal(t, 6, sp.Pending())
	sp.Peek()
	sp.Advance()
	require.Equal(t, 5, sp.Pending())
}
