package store

import (
	"fmt"

	"github.com/sahib/cowdisk/util"
)

// Layout describes how the addressable space of an image is cut into
// groups. It is computed once at store construction and never changes.
//
// The group size is derived from the bitmap capacity: it is the smallest
// number of blocks per group that lets the bitmap address every block of
// the image. The actual bitmap is usually a bit smaller than the allowed
// maximum since the group size is rounded up.
type Layout struct {
	// Size is the addressable size in bytes.
	Size int64

	// BlockSize is the size of a single block in bytes.
	BlockSize int64

	// TotalBlocks is the number of blocks in the image.
	// A trailing partial block counts as a full one.
	TotalBlocks int64

	// GroupBlocks is the number of blocks per group.
	GroupBlocks int64

	// GroupSize is the size of a full group in bytes.
	// The last group of an image may be shorter, see GroupEnd().
	GroupSize int64

	// GroupCount is the total number of groups.
	GroupCount int64

	// BitmapSize is the size of the dirty bitmap in bytes.
	BitmapSize int64
}

// CalcLayout derives the group layout for an image of `size` bytes,
// with `blockSize` bytes per block and at most `maxBitmapSize` bytes
// of dirty bitmap.
func CalcLayout(size, blockSize, maxBitmapSize int64) (Layout, error) {
	if size < 0 {
		return Layout{}, fmt.Errorf("layout: negative image size %d", size)
	}

	if blockSize <= 0 {
		return Layout{}, fmt.Errorf("layout: invalid block size %d", blockSize)
	}

	if maxBitmapSize <= 0 {
		return Layout{}, fmt.Errorf("layout: invalid bitmap capacity %d", maxBitmapSize)
	}

	l := Layout{
		Size:      size,
		BlockSize: blockSize,
	}

	// Round up so a trailing partial block stays addressable:
	l.TotalBlocks = util.CeilDiv64(size, blockSize)

	maxGroups := maxBitmapSize * 8
	l.GroupBlocks = util.CeilDiv64(l.TotalBlocks, maxGroups)
	if l.GroupBlocks == 0 {
		// Empty image. Keep the arithmetic below well defined.
		l.GroupBlocks = 1
	}

	l.GroupSize = l.GroupBlocks * blockSize
	l.GroupCount = util.CeilDiv64(l.TotalBlocks, l.GroupBlocks)

	if l.GroupCount > maxGroups {
		// Cannot happen with the ceil division above. If it does,
		// the sizing arithmetic itself is broken.
		return Layout{}, fmt.Errorf(
			"layout: %d groups do not fit %d bitmap bytes",
			l.GroupCount, maxBitmapSize,
		)
	}

	l.BitmapSize = util.CeilDiv64(l.GroupCount, 8)
	return l, nil
}

// GroupOf returns the group index the byte at `off` belongs to.
func (l Layout) GroupOf(off int64) int64 {
	return off / l.GroupSize
}

// GroupStart returns the byte offset where group `group` starts.
func (l Layout) GroupStart(group int64) int64 {
	return group * l.GroupSize
}

// GroupEnd returns the first byte offset after group `group`.
// For the last group of an image whose size is not a multiple of the
// group size this is the image size, not the full group border.
func (l Layout) GroupEnd(group int64) int64 {
	return util.Min64((group+1)*l.GroupSize, l.Size)
}
