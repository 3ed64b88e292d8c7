package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalcLayoutScsiDisk(t *testing.T) {
	// 40960 KiB disk with 512 byte blocks and a 1KB bitmap.
	l, err := CalcLayout(81920*512, 512, 1024)
	require.Nil(t, err)

	require.Equal(t, int64(81920), l.TotalBlocks)
	require.Equal(t, int64(10), l.GroupBlocks)
	require.Equal(t, int64(5120), l.GroupSize)
	require.Equal(t, int64(8192), l.GroupCount)
	require.Equal(t, int64(1024), l.BitmapSize)
}

var layoutTests = map[string]struct {
	size, blockSize, maxBitmap int64
	groupBlocks, groupCount    int64
	bitmapSize                 int64
}{
	"tiny": {
		// Everything fits in one group per block.
		size: 16 * 512, blockSize: 512, maxBitmap: 1024,
		groupBlocks: 1, groupCount: 16, bitmapSize: 2,
	},
	"empty": {
		size: 0, blockSize: 512, maxBitmap: 1024,
		groupBlocks: 1, groupCount: 0, bitmapSize: 0,
	},
	"one-byte": {
		size: 1, blockSize: 512, maxBitmap: 1,
		groupBlocks: 1, groupCount: 1, bitmapSize: 1,
	},
	"unaligned-tail": {
		// 100 blocks and 3 trailing bytes; the tail still needs a group.
		size: 100*512 + 3, blockSize: 512, maxBitmap: 4,
		groupBlocks: 4, groupCount: 26, bitmapSize: 4,
	},
}

func TestCalcLayoutTable(t *testing.T) {
	for name, test := range layoutTests {
		t.Run(name, func(t *testing.T) {
			l, err := CalcLayout(test.size, test.blockSize, test.maxBitmap)
			require.Nil(t, err)

			require.Equal(t, test.groupBlocks, l.GroupBlocks, "group blocks")
			require.Equal(t, test.groupCount, l.GroupCount, "group count")
			require.Equal(t, test.bitmapSize, l.BitmapSize, "bitmap size")
			require.True(t, l.GroupCount <= test.maxBitmap*8)
		})
	}
}

func TestCalcLayoutBadInput(t *testing.T) {
	_, err := CalcLayout(-1, 512, 1024)
	require.NotNil(t, err)

	_, err = CalcLayout(1024, 0, 1024)
	require.NotNil(t, err)

	_, err = CalcLayout(1024, 512, 0)
	require.NotNil(t, err)
}

func TestGroupArithmetic(t *testing.T) {
	l, err := CalcLayout(10*512+100, 512, 1)
	require.Nil(t, err)

	// 11 blocks, 2 blocks per group, 6 groups:
	require.Equal(t, int64(2), l.GroupBlocks)
	require.Equal(t, int64(6), l.GroupCount)

	require.Equal(t, int64(0), l.GroupOf(0))
	require.Equal(t, int64(0), l.GroupOf(1023))
	require.Equal(t, int64(1), l.GroupOf(1024))

	require.Equal(t, int64(1024), l.GroupStart(1))
	require.Equal(t, int64(2048), l.GroupEnd(1))

	// Final group is truncated to the image size:
	require.Equal(t, int64(5120), l.GroupStart(5))
	require.Equal(t, int64(10*512+100), l.GroupEnd(5))
}
