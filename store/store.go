package store

import (
	"fmt"
	"io"

	e "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sahib/cowdisk/blockio"
	"github.com/sahib/cowdisk/util"
)

// Default tuning values. They mirror what a small SCSI disk emulation
// typically uses: 512 byte blocks, a 1KB bitmap and a 2KB copy buffer.
const (
	DefaultBlockSize      = 512
	DefaultMaxBitmapSize  = 1024
	DefaultCopyBufferSize = 2048
)

// Options are the construction tunables of a store.
// A zero value for any field means "take the default".
type Options struct {
	// BlockSize is the size of a single storage block in bytes.
	BlockSize int64

	// MaxBitmapSize is the maximum size of the dirty bitmap in bytes.
	// The group size is derived from it: the more bitmap, the finer
	// the copy-on-write granularity.
	MaxBitmapSize int64

	// CopyBufferSize is the size of the scratch buffer used when
	// rescuing original data into the overlay.
	CopyBufferSize int64
}

func (o Options) withDefaults() Options {
	if o.BlockSize == 0 {
		o.BlockSize = DefaultBlockSize
	}

	if o.MaxBitmapSize == 0 {
		o.MaxBitmapSize = DefaultMaxBitmapSize
	}

	if o.CopyBufferSize == 0 {
		o.CopyBufferSize = DefaultCopyBufferSize
	}

	return o
}

// ErrOutOfRange is returned when a byte offset lies outside of the
// addressable space of the store.
type ErrOutOfRange struct {
	Off  int64
	Size int64
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("offset out of range: %d (size %d)", e.Off, e.Size)
}

// IsErrOutOfRange checks if `err` is an out-of-range error.
func IsErrOutOfRange(err error) bool {
	_, ok := e.Cause(err).(ErrOutOfRange)
	return ok
}

// Store is a copy-on-write overlay over an original and an overlay image.
// See the package documentation for the semantics.
type Store struct {
	orig    blockio.Resource
	overlay blockio.Resource
	layout  Layout
	dirty   *Bitmap
	copyBuf []byte
	pos     int64
	stats   Stats
}

// New builds a store over `orig` and `overlay`.
//
// The addressable size is taken from the original image. The overlay is
// extended (sparsely, by writing a single zero byte at the end) to the
// same size if it is smaller. Its prior content below that size is kept;
// note that the dirty bitmap always starts out all-clear, so stale
// overlay content is invisible until something is written.
func New(orig, overlay blockio.Resource, opts Options) (*Store, error) {
	opts = opts.withDefaults()

	size, err := orig.Size()
	if err != nil {
		return nil, e.Wrap(err, "store: size of original")
	}

	layout, err := CalcLayout(size, opts.BlockSize, opts.MaxBitmapSize)
	if err != nil {
		return nil, err
	}

	overlaySize, err := overlay.Size()
	if err != nil {
		return nil, e.Wrap(err, "store: size of overlay")
	}

	if overlaySize < size {
		if _, err := overlay.Seek(size-1, io.SeekStart); err != nil {
			return nil, e.Wrap(err, "store: extend overlay: seek")
		}

		if _, err := overlay.Write([]byte{0}); err != nil {
			return nil, e.Wrap(err, "store: extend overlay: write")
		}
	}

	log.WithFields(log.Fields{
		"size":         layout.Size,
		"block_size":   layout.BlockSize,
		"group_blocks": layout.GroupBlocks,
		"group_count":  layout.GroupCount,
		"bitmap_size":  layout.BitmapSize,
		"copy_buffer":  opts.CopyBufferSize,
	}).Debugf("calculated copy-on-write layout")

	return &Store{
		orig:    orig,
		overlay: overlay,
		layout:  layout,
		dirty:   NewBitmap(layout.GroupCount),
		copyBuf: make([]byte, opts.CopyBufferSize),
	}, nil
}

// Layout returns the group layout of the store.
func (st *Store) Layout() Layout {
	return st.layout
}

// Size returns the addressable size in bytes.
func (st *Store) Size() int64 {
	return st.layout.Size
}

// GroupState returns the bitmap state of group `group`.
func (st *Store) GroupState(group int64) (State, error) {
	return st.dirty.Get(group)
}

// StateAt returns the bitmap state of the group holding the byte at `off`.
func (st *Store) StateAt(off int64) (State, error) {
	if off < 0 || off >= st.layout.Size {
		return StateOriginal, ErrOutOfRange{Off: off, Size: st.layout.Size}
	}

	return st.dirty.Get(st.layout.GroupOf(off))
}

// DirtyGroups returns how many groups are currently backed by the overlay.
func (st *Store) DirtyGroups() int64 {
	return st.dirty.CountDirty()
}

// Stats returns a snapshot of the byte counters.
func (st *Store) Stats() Stats {
	return st.stats
}

// ResetStats zeroes all byte counters.
func (st *Store) ResetStats() {
	st.stats.Reset()
}

// ReadAt reads len(buf) bytes starting at the absolute offset `off`,
// routing every region to whichever image holds its valid data.
//
// Consecutive groups in the same state are served with a single
// underlying read, so a range over k alternating groups costs at most
// k I/O calls. Reads overlapping the end of the image are truncated
// and return io.EOF along with the bytes that were available.
func (st *Store) ReadAt(buf []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrOutOfRange{Off: off, Size: st.layout.Size}
	}

	st.stats.ReadRequested += int64(len(buf))

	if off >= st.layout.Size {
		return 0, io.EOF
	}

	end := util.Min64(off+int64(len(buf)), st.layout.Size)

	cur := off
	for cur < end {
		group := st.layout.GroupOf(cur)
		state, err := st.dirty.Get(group)
		if err != nil {
			return int(cur - off), err
		}

		// Extend the chunk over all following groups in the same
		// state. This is what keeps the I/O call count low when
		// large parts of the image share one state.
		chunkEnd := st.layout.GroupEnd(group)
		for next := group + 1; chunkEnd < end && next < st.layout.GroupCount; next++ {
			nextState, err := st.dirty.Get(next)
			if err != nil {
				return int(cur - off), err
			}

			if nextState != state {
				break
			}

			chunkEnd = st.layout.GroupEnd(next)
		}

		if chunkEnd > end {
			chunkEnd = end
		}

		rsc := st.orig
		if state == StateDirty {
			rsc = st.overlay
		}

		if _, err := rsc.Seek(cur, io.SeekStart); err != nil {
			return int(cur - off), e.Wrapf(err, "read: seek %s image", state)
		}

		n, err := io.ReadFull(rsc, buf[cur-off:chunkEnd-off])
		if state == StateDirty {
			st.stats.ReadOverlay += int64(n)
		} else {
			st.stats.ReadOriginal += int64(n)
		}

		if err != nil {
			return int(cur-off) + n, e.Wrapf(err, "read: %s image at %d", state, cur)
		}

		cur = chunkEnd
	}

	n := int(end - off)
	if end-off < int64(len(buf)) {
		return n, io.EOF
	}

	return n, nil
}

// WriteAt writes `buf` at the absolute offset `off`. The payload always
// lands in the overlay at the same offsets. Before the first write into a
// group the bytes of that group around the payload are rescued from the
// original image, so they survive the group turning dirty.
//
// Only the two border groups can have such bytes; groups fully covered
// by the payload are overwritten anyway. A single write therefore causes
// at most two promotion copies, no matter how many groups it spans.
//
// Both promotions happen before the payload write and the dirty bits are
// flipped after everything succeeded. A failure anywhere leaves all
// touched groups still routed to the original image.
func (st *Store) WriteAt(buf []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(buf)) > st.layout.Size {
		return 0, ErrOutOfRange{Off: off, Size: st.layout.Size}
	}

	st.stats.WriteRequested += int64(len(buf))

	if len(buf) == 0 {
		return 0, nil
	}

	end := off + int64(len(buf))
	firstGroup := st.layout.GroupOf(off)
	lastGroup := st.layout.GroupOf(end - 1)

	firstState, err := st.dirty.Get(firstGroup)
	if err != nil {
		return 0, err
	}

	if firstState == StateOriginal {
		start := st.layout.GroupStart(firstGroup)
		if off > start {
			if _, err := st.promote(start, off-start); err != nil {
				return 0, err
			}
		}
	}

	lastState, err := st.dirty.Get(lastGroup)
	if err != nil {
		return 0, err
	}

	if lastState == StateOriginal {
		groupEnd := st.layout.GroupEnd(lastGroup)
		if end < groupEnd {
			if _, err := st.promote(end, groupEnd-end); err != nil {
				return 0, err
			}
		}
	}

	if _, err := st.overlay.Seek(off, io.SeekStart); err != nil {
		return 0, e.Wrap(err, "write: seek overlay")
	}

	n, err := st.overlay.Write(buf)
	st.stats.WrittenOverlay += int64(n)

	if err != nil {
		return n, e.Wrapf(err, "write: overlay at %d", off)
	}

	if n < len(buf) {
		return n, fmt.Errorf("write: short write at %d: %d < %d", off, n, len(buf))
	}

	for group := firstGroup; group <= lastGroup; group++ {
		if err := st.dirty.Set(group, StateDirty); err != nil {
			return n, err
		}
	}

	return n, nil
}

// Read reads from the current cursor position and advances the cursor
// by the number of bytes actually read.
func (st *Store) Read(buf []byte) (int, error) {
	n, err := st.ReadAt(buf, st.pos)
	st.pos += int64(n)
	return n, err
}

// Write writes at the current cursor position and advances the cursor
// by the number of bytes actually written.
func (st *Store) Write(buf []byte) (int, error) {
	n, err := st.WriteAt(buf, st.pos)
	st.pos += int64(n)
	return n, err
}

// Seek repositions the cursor. No I/O is done.
func (st *Store) Seek(offset int64, whence int) (int64, error) {
	newPos := st.pos

	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos += offset
	case io.SeekEnd:
		newPos = st.layout.Size + offset
	}

	if newPos < 0 {
		return -1, fmt.Errorf("store: negative seek position %d", newPos)
	}

	st.pos = newPos
	return st.pos, nil
}

// WriteTo reconstructs the merged logical image and writes it to `w`.
// Groups marked dirty contribute their overlay bytes, all others their
// original bytes. The result is what a reader of the full range sees.
func (st *Store) WriteTo(w io.Writer) (int64, error) {
	var total int64

	buf := make([]byte, len(st.copyBuf))
	for off := int64(0); off < st.layout.Size; {
		take := util.Min64(int64(len(buf)), st.layout.Size-off)

		n, err := st.ReadAt(buf[:take], off)
		if n > 0 {
			nw, werr := w.Write(buf[:n])
			total += int64(nw)
			if werr != nil {
				return total, werr
			}

			if nw < n {
				return total, io.ErrShortWrite
			}
		}

		if err != nil && err != io.EOF {
			return total, err
		}

		if n == 0 {
			break
		}

		off += int64(n)
	}

	return total, nil
}

// Close closes both images.
func (st *Store) Close() error {
	origErr := st.orig.Close()
	overlayErr := st.overlay.Close()

	if origErr != nil {
		return e.Wrap(origErr, "close original")
	}

	if overlayErr != nil {
		return e.Wrap(overlayErr, "close overlay")
	}

	return nil
}
