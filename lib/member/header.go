// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package member

import (
	"encoding/binary"
	"io"
	"time"
)

// Gzip member framing constants (RFC 1952).
const (
	gzipID1          = 0x1f
	gzipID2          = 0x8b
	gzipMethodStored = 0
	gzipMethodFlate  = 8

	flagText    = 1 << 0
	flagHdrCRC  = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4

	// Reserved flag bits; a member with any of them set is rejected.
	flagReserved = 0xe0

	// XFL hints: 2 = slowest/best compression, 4 = fastest.
	extraFlagsBest    = 2
	extraFlagsFastest = 4

	// OS byte value for Unix.
	osUnix = 3

	headerSize  = 10
	trailerSize = 8
)

// writeGzipHeader emits one member header: the fixed 10 bytes plus an
// optional zero-terminated original file name.
func writeGzipHeader(sink io.Writer, name string, modTime time.Time, level int) error {
	header := make([]byte, 0, headerSize+len(name)+1)

	var flags byte
	if name != "" {
		flags |= flagName
	}

	var extraFlags byte
	switch {
	case level >= 9:
		extraFlags = extraFlagsBest
	case level <= 1:
		extraFlags = extraFlagsFastest
	}

	var mtime uint32
	if !modTime.IsZero() && modTime.Unix() > 0 {
		mtime = uint32(modTime.Unix())
	}

	header = append(header, gzipID1, gzipID2, gzipMethodFlate, flags)
	header = binary.LittleEndian.AppendUint32(header, mtime)
	header = append(header, extraFlags, osUnix)
	if name != "" {
		header = append(header, name...)
		header = append(header, 0)
	}

	_, err := sink.Write(header)
	return err
}

// writeGzipTrailer emits the member trailer: the CRC-32 of the
// uncompressed data followed by its length modulo 2^32, both
// little-endian.
func writeGzipTrailer(sink io.Writer, crc uint32, size int64) error {
	trailer := make([]byte, 0, trailerSize)
	trailer = binary.LittleEndian.AppendUint32(trailer, crc)
	trailer = binary.LittleEndian.AppendUint32(trailer, uint32(size))
	_, err := sink.Write(trailer)
	return err
}
