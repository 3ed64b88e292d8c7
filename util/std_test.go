package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinMax(t *testing.T) {
	require.Equal(t, 1, Min(1, 2))
	require.Equal(t, 2, Max(1, 2))
	require.Equal(t, int64(-3), Min64(-3, 7))
	require.Equal(t, int64(7), Max64(-3, 7))
}

func TestClamp64(t *testing.T) {
	require.Equal(t, int64(5), Clamp64(3, 5, 10))
	require.Equal(t, int64(10), Clamp64(30, 5, 10))
	require.Equal(t, int64(7), Clamp64(7, 5, 10))
}

func TestCeilDiv64(t *testing.T) {
	require.Equal(t, int64(0), CeilDiv64(0, 8))
	require.Equal(t, int64(1), CeilDiv64(1, 8))
	require.Equal(t, int64(1), CeilDiv64(8, 8))
	require.Equal(t, int64(2), CeilDiv64(9, 8))
	require.Equal(t, int64(8192), CeilDiv64(81920, 10))
}
