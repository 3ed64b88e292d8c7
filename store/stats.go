package store

// Stats accumulates the byte counters of a store. All counters grow
// monotonically until Reset() is called.
//
// The interesting derived numbers are the over-read and over-write
// percentages: how many bytes were actually moved to or from the
// underlying images compared to what the caller logically asked for.
// The difference is the price of the group granularity.
type Stats struct {
	// ReadRequested is the number of bytes callers asked to read.
	ReadRequested int64 `json:"read_requested"`

	// WriteRequested is the number of bytes callers asked to write.
	WriteRequested int64 `json:"write_requested"`

	// ReadOriginal is the number of bytes read from the original
	// image to serve read requests.
	ReadOriginal int64 `json:"read_original"`

	// ReadOverlay is the number of bytes read from the overlay
	// image to serve read requests.
	ReadOverlay int64 `json:"read_overlay"`

	// WrittenOverlay is the number of payload bytes written to the
	// overlay image.
	WrittenOverlay int64 `json:"written_overlay"`

	// ReadForPromote is the number of bytes read from the original
	// image solely to rescue them into the overlay before a write.
	ReadForPromote int64 `json:"read_for_promote"`
}

// OverRead returns the read amplification in percent.
// It is zero when nothing was requested yet.
func (s Stats) OverRead() float64 {
	if s.ReadRequested == 0 {
		return 0
	}

	total := s.ReadOriginal + s.ReadOverlay
	return 100 * (float64(total)/float64(s.ReadRequested) - 1)
}

// OverWrite returns the write amplification in percent, counting both
// the payload bytes and the promotion copies against what was requested.
// It is zero when nothing was requested yet.
func (s Stats) OverWrite() float64 {
	if s.WriteRequested == 0 {
		return 0
	}

	total := s.WrittenOverlay + s.ReadForPromote
	return 100 * (float64(total)/float64(s.WriteRequested) - 1)
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	*s = Stats{}
}
