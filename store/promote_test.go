package store

import (
	"fmt"
	"testing"

	"github.com/sahib/cowdisk/blockio"
	"github.com/sahib/cowdisk/util/testutil"
	"github.com/stretchr/testify/require"
)

// inflatedResource claims to be bigger than its actual data.
// Reads into the claimed tail hit a short read.
type inflatedResource struct {
	*blockio.Memory
	size int64
}

func (r *inflatedResource) Size() (int64, error) {
	return r.size, nil
}

// shortWriteResource accepts only `budget` bytes before erroring out.
type shortWriteResource struct {
	*blockio.Memory
	budget int
}

func (r *shortWriteResource) Write(buf []byte) (int, error) {
	if len(buf) > r.budget {
		n, _ := r.Memory.Write(buf[:r.budget])
		r.budget = 0
		return n, fmt.Errorf("disk full")
	}

	r.budget -= len(buf)
	return r.Memory.Write(buf)
}

func promoteTestStore(t *testing.T, size int64) (*Store, []byte) {
	content := testutil.CreateDummyBuf(size)

	st, err := New(
		blockio.NewMemory(content),
		blockio.NewEmptyMemory(size),
		Options{BlockSize: 32, MaxBitmapSize: 1, CopyBufferSize: 8},
	)

	require.Nil(t, err)
	return st, content
}

func TestPromoteChunked(t *testing.T) {
	// One group is 32 bytes here; the copy buffer only 8.
	st, content := promoteTestStore(t, 64)

	copied, err := st.promote(4, 20)
	require.Nil(t, err)
	require.Equal(t, int64(20), copied)

	// The overlay now holds the rescued range, nothing else:
	overlay := st.overlay.(*blockio.Memory).Bytes()
	require.Equal(t, content[4:24], overlay[4:24])
	require.Equal(t, make([]byte, 4), overlay[:4])

	// Promotion itself never flips the bitmap:
	state, err := st.GroupState(0)
	require.Nil(t, err)
	require.Equal(t, StateOriginal, state)

	require.Equal(t, int64(20), st.Stats().ReadForPromote)
}

func TestPromoteEmptyRange(t *testing.T) {
	st, _ := promoteTestStore(t, 64)

	copied, err := st.promote(10, 0)
	require.Nil(t, err)
	require.Equal(t, int64(0), copied)
	require.Equal(t, int64(0), st.Stats().ReadForPromote)
}

func TestPromoteSpanPanics(t *testing.T) {
	st, _ := promoteTestStore(t, 64)

	// [28, 40) crosses the border between group 0 and 1:
	require.Panics(t, func() {
		st.promote(28, 12)
	})
}

func TestPromoteShortRead(t *testing.T) {
	// Original claims 64 bytes but only has 40:
	orig := &inflatedResource{
		Memory: blockio.NewMemory(testutil.CreateDummyBuf(40)),
		size:   64,
	}

	st, err := New(
		orig,
		blockio.NewEmptyMemory(64),
		Options{BlockSize: 32, MaxBitmapSize: 1, CopyBufferSize: 8},
	)
	require.Nil(t, err)

	_, err = st.promote(32, 32)
	require.NotNil(t, err)
}

func TestPromoteShortWrite(t *testing.T) {
	content := testutil.CreateDummyBuf(64)
	overlay := &shortWriteResource{
		Memory: blockio.NewEmptyMemory(64),
		budget: 10,
	}

	st, err := New(
		blockio.NewMemory(content),
		overlay,
		Options{BlockSize: 32, MaxBitmapSize: 1, CopyBufferSize: 8},
	)
	require.Nil(t, err)

	_, err = st.promote(0, 32)
	require.NotNil(t, err)

	// The group must still route to the original image:
	state, err := st.GroupState(0)
	require.Nil(t, err)
	require.Equal(t, StateOriginal, state)
}
