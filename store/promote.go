package store

import (
	"fmt"
	"io"

	e "github.com/pkg/errors"

	"github.com/sahib/cowdisk/util"
)

// promote copies [off, off+length) from the original image to the overlay
// image at the identical offset. The data moves through the store's scratch
// buffer in sequential chunks, so peak memory stays bounded no matter how
// big a group is.
//
// The range must lie inside a single group. Promoting over a group border
// would need more than one atomicity point, so the write path drives that
// loop instead. A violation here is a bug in the caller, not user input.
//
// The bitmap is not touched. The caller flips the bit once the overlay
// content of the whole group is known to be consistent.
func (st *Store) promote(off, length int64) (int64, error) {
	if length <= 0 {
		return 0, nil
	}

	if st.layout.GroupOf(off) != st.layout.GroupOf(off+length-1) {
		panic(fmt.Sprintf(
			"bug: promotion range spans groups: [%d, %d)",
			off, off+length,
		))
	}

	if _, err := st.orig.Seek(off, io.SeekStart); err != nil {
		return 0, e.Wrap(err, "promote: seek original")
	}

	if _, err := st.overlay.Seek(off, io.SeekStart); err != nil {
		return 0, e.Wrap(err, "promote: seek overlay")
	}

	var copied int64
	for copied < length {
		n := util.Min64(int64(len(st.copyBuf)), length-copied)
		chunk := st.copyBuf[:n]

		if _, err := io.ReadFull(st.orig, chunk); err != nil {
			return copied, e.Wrapf(err, "promote: read original at %d", off+copied)
		}

		nw, err := st.overlay.Write(chunk)
		if err != nil {
			return copied + int64(nw), e.Wrapf(err, "promote: write overlay at %d", off+copied)
		}

		if int64(nw) < n {
			return copied + int64(nw), fmt.Errorf(
				"promote: short write at %d: %d < %d",
				off+copied, nw, n,
			)
		}

		copied += n
		st.stats.ReadForPromote += n
	}

	return copied, nil
}
