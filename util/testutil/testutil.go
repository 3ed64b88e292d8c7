// Package testutil implements utilities for generating dummy data for tests.
package testutil

import (
	"io/ioutil"
	"math/rand"
	"os"
	"testing"
)

// CreateDummyBuf creates a byte slice that is `size` big.
// It's filled with the repeating numbers [0...254].
func CreateDummyBuf(size int64) []byte {
	buf := make([]byte, size)

	for i := int64(0); i < size; i++ {
		// Be evil and stripe the data:
		buf[i] = byte(i % 255)
	}

	return buf
}

// CreateRandomDummyBuf creates data that is evenly distributed
// and therefore notoriously hard to compress.
func CreateRandomDummyBuf(size, seed int64) []byte {
	src := rand.NewSource(seed)
	buf := make([]byte, size)

	for i := int64(0); i < size; i++ {
		buf[i] = byte(src.Int63() % 256)
	}

	return buf
}

// CreateFile creates a temporary file in the system's tmp folder.
// The file will be `size` bytes big, filled with content from CreateDummyBuf.
func CreateFile(t *testing.T, size int64) string {
	fd, err := ioutil.TempFile("", "cowdisk_test")
	if err != nil {
		t.Fatalf("cannot create temp file: %v", err)
	}

	if _, err := fd.Write(CreateDummyBuf(size)); err != nil {
		t.Fatalf("cannot fill temp file: %v", err)
	}

	if err := fd.Close(); err != nil {
		t.Fatalf("cannot close temp file: %v", err)
	}

	return fd.Name()
}

// Remover removes all files in paths recursively and errors when it fails.
// It is no error if there's nothing to delete. It's useful in defer statements.
func Remover(t *testing.T, paths ...string) {
	for _, path := range paths {
		if err := os.RemoveAll(path); err != nil {
			t.Errorf("removing temp path failed: %v", err)
		}
	}
}
