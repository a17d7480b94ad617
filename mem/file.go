// Package mem provides an in-memory bplus.File.
package mem

import (
	"bytes"
	"io"
	"sync"

	"github.com/dacapoday/bplus"
)

// File is an in-memory implementation of the bplus.File interface.
// It is safe for concurrent use by multiple goroutines.
//
// File requires no initialization - just declare and use:
//
//	var f File
//	tree.Save(&f)
type File struct {
	rw   sync.RWMutex
	data []byte
}

var _ bplus.File = new(File)

// Close discards the content. The file may be written again afterwards.
func (file *File) Close() error {
	file.rw.Lock()
	file.data = nil
	file.rw.Unlock()
	return nil
}

// Size returns the current size of the file in bytes.
func (file *File) Size() int64 {
	file.rw.RLock()
	defer file.rw.RUnlock()
	return int64(len(file.data))
}

// Bytes returns a copy of the whole content.
func (file *File) Bytes() []byte {
	file.rw.RLock()
	defer file.rw.RUnlock()
	return bytes.Clone(file.data)
}

// ReadFrom replaces the content with everything read from r until EOF.
// It implements io.ReaderFrom.
func (file *File) ReadFrom(r io.Reader) (n int64, err error) {
	var buf bytes.Buffer
	n, err = buf.ReadFrom(r)
	if err != nil {
		return
	}
	file.rw.Lock()
	file.data = buf.Bytes()
	file.rw.Unlock()
	return
}

// WriteTo writes the whole content to w.
// It implements io.WriterTo.
func (file *File) WriteTo(w io.Writer) (n int64, err error) {
	file.rw.RLock()
	defer file.rw.RUnlock()
	c, err := w.Write(file.data)
	return int64(c), err
}

// WriteAt writes len(p) bytes at offset off, growing the file with
// zero bytes when off lies beyond the current end.
// It returns io.ErrUnexpectedEOF for a negative offset.
func (file *File) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	file.rw.Lock()
	defer file.rw.Unlock()
	if end := off + int64(len(p)); end > int64(len(file.data)) {
		file.grow(end)
	}
	return copy(file.data[off:], p), nil
}

// ReadAt reads len(p) bytes at offset off.
// A read that runs past the end returns the bytes available and io.EOF.
func (file *File) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	file.rw.RLock()
	defer file.rw.RUnlock()
	if off >= int64(len(file.data)) {
		return 0, io.EOF
	}
	n = copy(p, file.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return
}

// Truncate changes the size of the file, zero-filling on growth.
func (file *File) Truncate(size int64) error {
	if size < 0 {
		return io.ErrUnexpectedEOF
	}
	file.rw.Lock()
	if size > int64(len(file.data)) {
		file.grow(size)
	} else {
		clear(file.data[size:])
		file.data = file.data[:size]
	}
	file.rw.Unlock()
	return nil
}

// Sync is a no-op for in-memory files.
func (file *File) Sync() error {
	return nil
}

func (file *File) grow(size int64) {
	if size <= int64(cap(file.data)) {
		file.data = file.data[:size]
		return
	}
	data := make([]byte, size, max(size, 2*int64(cap(file.data))))
	copy(data, file.data)
	file.data = data
}
