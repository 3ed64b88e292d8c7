package blockio

import (
	"io"
	"testing"

	"github.com/sahib/cowdisk/util/testutil"
	"github.com/stretchr/testify/require"
)

// resourceContract checks the behaviour every Resource has to fulfill.
func resourceContract(t *testing.T, rsc Resource, content []byte) {
	size, err := rsc.Size()
	require.Nil(t, err)
	require.Equal(t, int64(len(content)), size)

	// Read everything from the start:
	_, err = rsc.Seek(0, io.SeekStart)
	require.Nil(t, err)

	buf := make([]byte, len(content))
	_, err = io.ReadFull(rsc, buf)
	require.Nil(t, err)
	require.Equal(t, content, buf)

	// Reading past the end yields io.EOF:
	n, err := rsc.Read(make([]byte, 1))
	require.Equal(t, 0, n)
	require.Equal(t, io.EOF, err)

	// Short read over the end:
	_, err = rsc.Seek(size-2, io.SeekStart)
	require.Nil(t, err)

	n, _ = rsc.Read(make([]byte, 16))
	require.Equal(t, 2, n)
}

func TestMemoryContract(t *testing.T) {
	content := testutil.CreateDummyBuf(1024)
	resourceContract(t, NewMemory(content), content)
}

func TestFileContract(t *testing.T) {
	path := testutil.CreateFile(t, 1024)
	defer testutil.Remover(t, path)

	fd, err := Open(path)
	require.Nil(t, err)
	defer func() {
		require.Nil(t, fd.Close())
	}()

	resourceContract(t, fd, testutil.CreateDummyBuf(1024))
}

func TestMemoryGrowOnWrite(t *testing.T) {
	mem := NewEmptyMemory(10)
	_, err := mem.Seek(20, io.SeekStart)
	require.Nil(t, err)

	n, err := mem.Write([]byte("xx"))
	require.Nil(t, err)
	require.Equal(t, 2, n)

	size, err := mem.Size()
	require.Nil(t, err)
	require.Equal(t, int64(22), size)

	// The gap has to be zero filled:
	require.Equal(t, make([]byte, 10), mem.Bytes()[10:20])
}

func TestFileWriteReadBack(t *testing.T) {
	path := testutil.CreateFile(t, 512)
	defer testutil.Remover(t, path)

	fd, err := Create(path)
	require.Nil(t, err)
	defer func() {
		require.Nil(t, fd.Close())
	}()

	_, err = fd.Seek(100, io.SeekStart)
	require.Nil(t, err)

	payload := []byte("hello overlay")
	n, err := fd.Write(payload)
	require.Nil(t, err)
	require.Equal(t, len(payload), n)

	_, err = fd.Seek(100, io.SeekStart)
	require.Nil(t, err)

	readBack := make([]byte, len(payload))
	_, err = io.ReadFull(fd, readBack)
	require.Nil(t, err)
	require.Equal(t, payload, readBack)
}
