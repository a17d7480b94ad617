// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package block provides fixed-size, checksummed block access over a bplus.File.
//
// Block n occupies bytes [n*Size, (n+1)*Size) of the file. The last four
// bytes of every block hold a CRC32-C of the payload in front of them.
package block

import (
	"hash/crc32"

	"github.com/dacapoday/bplus"
)

// BlockID addresses a block. Block n starts at byte offset n*Size.
type BlockID = int32

const (
	// Size is the on-disk size of one block.
	Size = 4096
	// PayloadSize is the number of bytes available to the caller in each block.
	PayloadSize = Size - 4
)

type File = bplus.File

var castagnoliCrcTable = crc32.MakeTable(crc32.Castagnoli)

func checksum(data []byte) uint32 {
	return crc32.Checksum(data, castagnoliCrcTable)
}
