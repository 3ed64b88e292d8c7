package blockio

import (
	"fmt"
	"io"
)

// Memory is a Resource living completely in main memory.
// It grows on writes beyond its current end, like a sparse file would.
type Memory struct {
	data []byte
	pos  int64
}

// NewMemory creates a memory resource holding a copy of `data`.
func NewMemory(data []byte) *Memory {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Memory{data: buf}
}

// NewEmptyMemory creates a zero filled memory resource of `size` bytes.
func NewEmptyMemory(size int64) *Memory {
	return &Memory{data: make([]byte, size)}
}

func (m *Memory) Read(buf []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n := copy(buf, m.data[m.pos:])
	m.pos += int64(n)

	if n < len(buf) {
		return n, io.EOF
	}

	return n, nil
}

func (m *Memory) Write(buf []byte) (int, error) {
	if need := m.pos + int64(len(buf)); need > int64(len(m.data)) {
		// Grow with zeros up to the write position, sparse file style.
		grown := make([]byte, need)
		copy(grown, m.data)
		m.data = grown
	}

	n := copy(m.data[m.pos:], buf)
	m.pos += int64(n)
	return n, nil
}

func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	newPos := m.pos

	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos += offset
	case io.SeekEnd:
		newPos = int64(len(m.data)) + offset
	}

	if newPos < 0 {
		return -1, fmt.Errorf("memory: negative seek position %d", newPos)
	}

	m.pos = newPos
	return m.pos, nil
}

// Size returns the current length of the memory resource.
func (m *Memory) Size() (int64, error) {
	return int64(len(m.data)), nil
}

// Bytes returns the underlying data. Do not modify while in use.
func (m *Memory) Bytes() []byte {
	return m.data
}

func (m *Memory) Close() error {
	return nil
}
