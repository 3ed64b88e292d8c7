package store

import (
	"fmt"
)

// State says which image holds the valid data of a group.
type State uint8

const (
	// StateOriginal means the group was never written to.
	StateOriginal State = iota

	// StateDirty means the group's data lives in the overlay.
	StateDirty
)

func (s State) String() string {
	switch s {
	case StateOriginal:
		return "original"
	case StateDirty:
		return "dirty"
	default:
		return fmt.Sprintf("bad state %d", uint8(s))
	}
}

// ErrBounds is returned when a group index is outside of the bitmap.
type ErrBounds struct {
	Group int64
	Count int64
}

func (e ErrBounds) Error() string {
	return fmt.Sprintf("group index out of bounds: %d >= %d", e.Group, e.Count)
}

// IsErrBounds checks if `err` is a bounds violation.
func IsErrBounds(err error) bool {
	_, ok := err.(ErrBounds)
	return ok
}

// Bitmap stores one bit per group, packed eight groups per byte.
// Bit `g` lives in byte g/8 at position g%8, lowest bit first.
//
// The store only ever flips bits from original to dirty. The bitmap
// itself does not enforce that; it is the caller's invariant.
type Bitmap struct {
	bits  []byte
	count int64
}

// NewBitmap creates an all-clear bitmap for `count` groups.
func NewBitmap(count int64) *Bitmap {
	return &Bitmap{
		bits:  make([]byte, (count+7)/8),
		count: count,
	}
}

// Get returns the state of group `group`.
func (bm *Bitmap) Get(group int64) (State, error) {
	if group < 0 || group >= bm.count {
		return StateOriginal, ErrBounds{Group: group, Count: bm.count}
	}

	if bm.bits[group/8]&(1<<uint(group%8)) != 0 {
		return StateDirty, nil
	}

	return StateOriginal, nil
}

// Set sets the state of group `group`.
func (bm *Bitmap) Set(group int64, state State) error {
	if group < 0 || group >= bm.count {
		return ErrBounds{Group: group, Count: bm.count}
	}

	if state == StateDirty {
		bm.bits[group/8] |= 1 << uint(group%8)
	} else {
		bm.bits[group/8] &= ^(1 << uint(group%8))
	}

	return nil
}

// Count returns the number of groups tracked by the bitmap.
func (bm *Bitmap) Count() int64 {
	return bm.count
}

// CountDirty returns the number of groups currently marked dirty.
func (bm *Bitmap) CountDirty() int64 {
	var n int64
	for g := int64(0); g < bm.count; g++ {
		if bm.bits[g/8]&(1<<uint(g%8)) != 0 {
			n++
		}
	}

	return n
}

// Bytes returns the packed bitmap. Do not modify.
func (bm *Bitmap) Bytes() []byte {
	return bm.bits
}
