package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatsZeroRequested(t *testing.T) {
	s := Stats{}
	require.Equal(t, 0.0, s.OverRead())
	require.Equal(t, 0.0, s.OverWrite())
}

func TestStatsOverWrite(t *testing.T) {
	// 1000 bytes requested, 1000 payload + 500 promotion copy:
	s := Stats{
		WriteRequested: 1000,
		WrittenOverlay: 1000,
		ReadForPromote: 500,
	}

	require.InDelta(t, 50.0, s.OverWrite(), 0.001)
}

func TestStatsOverRead(t *testing.T) {
	s := Stats{
		ReadRequested: 1000,
		ReadOriginal:  600,
		ReadOverlay:   400,
	}

	require.InDelta(t, 0.0, s.OverRead(), 0.001)

	s.ReadOverlay += 200
	require.InDelta(t, 20.0, s.OverRead(), 0.001)
}

func TestStatsReset(t *testing.T) {
	s := Stats{ReadRequested: 1, WrittenOverlay: 2}
	s.Reset()
	require.Equal(t, Stats{}, s)
}
