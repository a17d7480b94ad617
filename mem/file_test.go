package mem

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileReadWrite(t *testing.T) {
	var f File
	defer f.Close()

	n, err := f.WriteAt([]byte("hello"), 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	n, err = f.WriteAt([]byte("world"), 10)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	buf := make([]byte, 5)
	_, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))

	_, err = f.ReadAt(buf, 10)
	require.NoError(t, err)
	require.Equal(t, "world", string(buf))

	gap := make([]byte, 5)
	_, err = f.ReadAt(gap, 5)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 5), gap)
}

func TestFileBlockAlignedWrites(t *testing.T) {
	var f File
	defer f.Close()

	const size = 4096
	for id := 3; id >= 0; id-- {
		block := bytes.Repeat([]byte{byte(id + 1)}, size)
		_, err := f.WriteAt(block, int64(id*size))
		require.NoError(t, err)
	}
	require.EqualValues(t, 4*size, f.Size())

	buf := make([]byte, size)
	for id := 0; id < 4; id++ {
		_, err := f.ReadAt(buf, int64(id*size))
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte{byte(id + 1)}, size), buf)
	}

	_, err := f.ReadAt(buf, 4*size)
	require.ErrorIs(t, err, io.EOF)
}

func TestFileShortRead(t *testing.T) {
	var f File
	defer f.Close()

	_, err := f.WriteAt([]byte("abc"), 0)
	require.NoError(t, err)

	buf := make([]byte, 8)
	n, err := f.ReadAt(buf, 1)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)
	require.Equal(t, "bc", string(buf[:n]))
}

func TestFileReadFromWriteTo(t *testing.T) {
	var f File
	defer f.Close()

	input := "the quick brown fox jumps over the lazy dog"
	n, err := f.ReadFrom(strings.NewReader(input))
	require.NoError(t, err)
	require.EqualValues(t, len(input), n)
	require.EqualValues(t, len(input), f.Size())

	var buf bytes.Buffer
	n, err = f.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, len(input), n)
	require.Equal(t, input, buf.String())

	_, err = f.ReadFrom(strings.NewReader("new content"))
	require.NoError(t, err)
	require.Equal(t, []byte("new content"), f.Bytes())
}

func TestFileTruncate(t *testing.T) {
	var f File
	defer f.Close()

	f.WriteAt([]byte("hello world"), 0)

	require.NoError(t, f.Truncate(5))
	require.EqualValues(t, 5, f.Size())

	buf := make([]byte, 5)
	_, err := f.ReadAt(buf, 5)
	require.ErrorIs(t, err, io.EOF)

	require.NoError(t, f.Truncate(10))
	buf = make([]byte, 10)
	_, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("hello\x00\x00\x00\x00\x00"), buf)
}

func TestFileCloseClears(t *testing.T) {
	var f File
	_, err := f.WriteAt([]byte("abc"), 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.Zero(t, f.Size())

	_, err = f.ReadAt(make([]byte, 1), 0)
	require.ErrorIs(t, err, io.EOF)
}

func TestFileEdgeCases(t *testing.T) {
	var f File
	defer f.Close()

	_, err := f.WriteAt([]byte("test"), -1)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = f.ReadAt([]byte{0}, -1)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	n, err := f.WriteAt(nil, 0)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = f.ReadAt([]byte{0}, 0)
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, f.Sync())
}
