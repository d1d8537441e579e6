package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRevision(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"accepts canonical and bare forms": func(t *testing.T) {
			for in, want := range map[string]Revision{
				"rev1": Rev1, "REV1": Rev1, " 1 ": Rev1,
				"rev2": Rev2, "2": Rev2,
			} {
				got, err := ParseRevision(in)
				require.NoError(t, err)
				require.Equal(t, want, got)
			}
		},
		"rejects unknown": func(t *testing.T) {
			_, err := ParseRevision("rev3")
			require.ErrorContains(t, err, "unknown board revision")
		},
	} {
		t.Run(scenario, fn)
	}
}

func TestProfileFor(t *testing.T) {
	for _, rev := range []Revision{Rev1, Rev2} {
		p, err := ProfileFor(rev)
		require.NoError(t, err)
		require.Equal(t, rev, p.Revision)
		require.Greater(t, p.GyroDivisor, 0.0)
		require.Less(t, p.QuietLevel, p.ActivationLevel)
		require.NotEmpty(t, p.Colors)
		// The color table must stay ordered for first-match scanning.
		for i := 1; i < len(p.Colors); i++ {
			require.Greater(t, p.Colors[i-1].Threshold, p.Colors[i].Threshold)
		}
	}

	_, err := ProfileFor(Revision(7))
	require.ErrorContains(t, err, "no profile")
}

func TestLowestColorThreshold(t *testing.T) {
	p, err := ProfileFor(Rev1)
	require.NoError(t, err)
	require.Equal(t, 50, p.LowestColorThreshold())

	p, err = ProfileFor(Rev2)
	require.NoError(t, err)
	require.Equal(t, 60, p.LowestColorThreshold())

	require.Equal(t, 0, Profile{}.LowestColorThreshold())
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0, Clamp(-3, 0, 255))
	require.Equal(t, 255, Clamp(900, 0, 255))
	require.Equal(t, 42, Clamp(42, 0, 255))
	require.Equal(t, 1.5, Clamp(1.5, 0.0, 2.0))
}
