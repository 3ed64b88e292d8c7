// Package blockio abstracts the byte addressable resources that back a
// copy-on-write store. A resource behaves like a fixed size file: it can
// be seeked, read, written and asked for its size.
//
// Two implementations exist: File for real on-disk images and Memory for
// tests and benchmarks. The store layer does not care which one it gets.
package blockio

import (
	"io"
	"os"

	e "github.com/pkg/errors"
)

// Resource is a fixed size, byte addressable backing resource.
//
// Read returns io.EOF at the end of the resource. A write that cannot
// take the full payload returns the partial count and an error.
// Size is fixed for the lifetime of the resource as observed by the
// store layer.
type Resource interface {
	io.ReadWriteSeeker
	io.Closer

	// Size returns the length of the resource in bytes.
	Size() (int64, error)
}

// File is a Resource backed by an actual file.
type File struct {
	fd *os.File
}

// Open opens the file at `path` read-only.
// It is meant for the original, pristine image.
func Open(path string) (*File, error) {
	fd, err := os.OpenFile(path, os.O_RDONLY, 0600)
	if err != nil {
		return nil, e.Wrap(err, "failed to open original image")
	}

	return &File{fd: fd}, nil
}

// Create opens the file at `path` read-write, creating it if needed.
// It is meant for the overlay image.
func Create(path string) (*File, error) {
	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, e.Wrap(err, "failed to open overlay image")
	}

	return &File{fd: fd}, nil
}

func (f *File) Read(buf []byte) (int, error) {
	return f.fd.Read(buf)
}

func (f *File) Write(buf []byte) (int, error) {
	return f.fd.Write(buf)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.fd.Seek(offset, whence)
}

// Size asks the filesystem for the current file size.
func (f *File) Size() (int64, error) {
	info, err := f.fd.Stat()
	if err != nil {
		return -1, err
	}

	return info.Size(), nil
}

func (f *File) Close() error {
	return f.fd.Close()
}
