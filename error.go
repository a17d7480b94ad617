// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bplus

import "github.com/cockroachdb/errors"

var (
	ErrInvalidOrder = errors.New("invalid order")
	ErrCorrupted    = errors.New("structural corruption")
	ErrMalformed    = errors.New("malformed snapshot")
	ErrFanOut       = errors.New("node exceeds block capacity")
	ErrBadChecksum  = errors.New("bad checksum")
	ErrShortBlock   = errors.New("short block")
	ErrOutOfRange   = errors.New("out of range")
)
