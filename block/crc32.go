// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dacapoday/bplus"
)

// Device reads and writes CRC32-protected blocks of a File.
type Device[F File] struct {
	pool sync.Pool
	file F
}

// Open wraps file. The Device does not take ownership of file.
func Open[F File](file F) *Device[F] {
	return &Device[F]{
		pool: sync.Pool{New: func() any { return make([]byte, Size) }},
		file: file,
	}
}

func (block *Device[F]) File() F {
	return block.file
}

// AllocateBuffer returns a zeroed buffer of Size bytes.
func (block *Device[F]) AllocateBuffer() []byte {
	buffer := block.pool.Get().([]byte)
	clear(buffer)
	return buffer
}

func (block *Device[F]) RecycleBuffer(buffer []byte) {
	if cap(buffer) >= Size {
		block.pool.Put(buffer[:Size])
	}
}

// ReadBlock reads block blockID into buffer and verifies its checksum.
//
// It returns io.EOF, unwrapped, when blockID lies at or past the end of the
// file, so callers can scan blocks until the first failure.
func (block *Device[F]) ReadBlock(blockID BlockID, buffer []byte) (err error) {
	if blockID < 0 {
		return errors.Wrapf(bplus.ErrOutOfRange, "block(%d)", blockID)
	}
	if len(buffer) < Size {
		return errors.Wrapf(bplus.ErrShortBlock, "buffer of %d bytes", len(buffer))
	}
	buffer = buffer[:Size]

	n, err := block.file.ReadAt(buffer, int64(blockID)*Size)
	switch {
	case n == Size:
		err = nil
	case n == 0 && errors.Is(err, io.EOF):
		return io.EOF
	case err == nil || errors.Is(err, io.EOF):
		return errors.Wrapf(bplus.ErrShortBlock, "block(%d) has %d bytes", blockID, n)
	default:
		return errors.Wrapf(err, "read block(%d) failed", blockID)
	}

	sum := binary.LittleEndian.Uint32(buffer[PayloadSize:])
	if chksum := checksum(buffer[:PayloadSize]); sum != chksum {
		return errors.Wrapf(bplus.ErrBadChecksum, "block(%d) stored %08x computed %08x", blockID, sum, chksum)
	}
	return
}

// WriteBlock stamps the checksum into the trailer of buffer and writes it
// as block blockID.
func (block *Device[F]) WriteBlock(blockID BlockID, buffer []byte) (err error) {
	if blockID < 0 {
		return errors.Wrapf(bplus.ErrOutOfRange, "block(%d)", blockID)
	}
	if len(buffer) < Size {
		return errors.Wrapf(bplus.ErrShortBlock, "buffer of %d bytes", len(buffer))
	}
	buffer = buffer[:Size]
	binary.LittleEndian.PutUint32(buffer[PayloadSize:], checksum(buffer[:PayloadSize]))
	if _, err = block.file.WriteAt(buffer, int64(blockID)*Size); err != nil {
		err = errors.Wrapf(err, "write block(%d) failed", blockID)
	}
	return
}

// Truncate resizes the file to hold exactly count blocks.
func (block *Device[F]) Truncate(count int) error {
	if err := block.file.Truncate(int64(count) * Size); err != nil {
		return errors.Wrapf(err, "truncate to %d blocks", count)
	}
	return nil
}

func (block *Device[F]) Sync() error {
	return block.file.Sync()
}
