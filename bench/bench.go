// Package bench drives synthetic workloads against a copy-on-write store
// and reports the byte counters. Its main use is making the over-read and
// over-write amplification of a given layout visible before committing to
// a bitmap size for a real deployment.
package bench

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	e "github.com/pkg/errors"

	"github.com/sahib/cowdisk/blockio"
	"github.com/sahib/cowdisk/store"
	"github.com/sahib/cowdisk/util/testutil"
)

// Config describes a single workload run.
type Config struct {
	// Size of the original image in bytes.
	Size int64 `json:"size"`

	// BlockSize in bytes; writes are aligned to it.
	BlockSize int64 `json:"block_size"`

	// MaxBitmapSize in bytes, as passed to the store.
	MaxBitmapSize int64 `json:"max_bitmap_size"`

	// CopyBufferSize in bytes, as passed to the store.
	CopyBufferSize int64 `json:"copy_buffer_size"`

	// Writes is the number of random writes to perform.
	Writes int `json:"writes"`

	// MaxWriteBlocks caps the length of a single write in blocks.
	MaxWriteBlocks int `json:"max_write_blocks"`

	// Seed makes runs repeatable.
	Seed int64 `json:"seed"`

	// Verify checks every write against a plain shadow copy and the
	// flattened image at the end. Slower, but turns the benchmark
	// into a self-checking stress test.
	Verify bool `json:"verify"`
}

func (cfg Config) withDefaults() Config {
	if cfg.Size == 0 {
		cfg.Size = 4 * 1024 * 1024
	}

	if cfg.BlockSize == 0 {
		cfg.BlockSize = store.DefaultBlockSize
	}

	if cfg.MaxBitmapSize == 0 {
		cfg.MaxBitmapSize = store.DefaultMaxBitmapSize
	}

	if cfg.CopyBufferSize == 0 {
		cfg.CopyBufferSize = store.DefaultCopyBufferSize
	}

	if cfg.Writes == 0 {
		cfg.Writes = 1000
	}

	if cfg.MaxWriteBlocks == 0 {
		cfg.MaxWriteBlocks = 16
	}

	return cfg
}

// Result is the outcome of a single workload run.
type Result struct {
	Config      Config        `json:"config"`
	Took        time.Duration `json:"took"`
	Stats       store.Stats   `json:"stats"`
	OverRead    float64       `json:"over_read"`
	OverWrite   float64       `json:"over_write"`
	DirtyGroups int64         `json:"dirty_groups"`
	GroupCount  int64         `json:"group_count"`
	GroupSize   int64         `json:"group_size"`
}

// Run performs the workload described by `cfg` over in-memory images.
// `tick`, if non-nil, is called once per write and can drive a progress
// bar. Errors from Run with Verify enabled indicate a real store bug.
func Run(cfg Config, tick func()) (Result, error) {
	cfg = cfg.withDefaults()

	content := testutil.CreateDummyBuf(cfg.Size)
	st, err := store.New(
		blockio.NewMemory(content),
		blockio.NewEmptyMemory(cfg.Size),
		store.Options{
			BlockSize:      cfg.BlockSize,
			MaxBitmapSize:  cfg.MaxBitmapSize,
			CopyBufferSize: cfg.CopyBufferSize,
		},
	)

	if err != nil {
		return Result{}, err
	}

	defer st.Close()

	var shadow []byte
	if cfg.Verify {
		shadow = make([]byte, cfg.Size)
		copy(shadow, content)
	}

	totalBlocks := cfg.Size / cfg.BlockSize
	if totalBlocks < int64(cfg.MaxWriteBlocks)+1 {
		return Result{}, fmt.Errorf("bench: image too small for write size")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	readBuf := []byte{}

	start := time.Now()
	for i := 0; i < cfg.Writes; i++ {
		blocks := int64(rng.Intn(cfg.MaxWriteBlocks) + 1)
		off := rng.Int63n(totalBlocks-blocks) * cfg.BlockSize
		length := blocks * cfg.BlockSize

		payload := testutil.CreateRandomDummyBuf(length, cfg.Seed+int64(i))
		if _, err := st.WriteAt(payload, off); err != nil {
			return Result{}, e.Wrapf(err, "bench: write %d", i)
		}

		if cfg.Verify {
			copy(shadow[off:off+length], payload)

			if int64(len(readBuf)) < length {
				readBuf = make([]byte, length)
			}

			if _, err := st.ReadAt(readBuf[:length], off); err != nil {
				return Result{}, e.Wrapf(err, "bench: read back %d", i)
			}

			if !bytes.Equal(readBuf[:length], shadow[off:off+length]) {
				return Result{}, fmt.Errorf("bench: read back mismatch at %d", off)
			}
		}

		if tick != nil {
			tick()
		}
	}

	took := time.Since(start)

	if cfg.Verify {
		flat := &bytes.Buffer{}
		flat.Grow(int(cfg.Size))
		if _, err := st.WriteTo(flat); err != nil {
			return Result{}, e.Wrap(err, "bench: flatten")
		}

		if !bytes.Equal(flat.Bytes(), shadow) {
			return Result{}, fmt.Errorf("bench: flattened image does not match shadow copy")
		}
	}

	stats := st.Stats()
	return Result{
		Config:      cfg,
		Took:        took,
		Stats:       stats,
		OverRead:    stats.OverRead(),
		OverWrite:   stats.OverWrite(),
		DirtyGroups: st.DirtyGroups(),
		GroupCount:  st.Layout().GroupCount,
		GroupSize:   st.Layout().GroupSize,
	}, nil
}
