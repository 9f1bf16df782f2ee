// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec selects and constructs the streaming compression
// transforms the tool supports. The buffer layer in lib/streamio is
// format-agnostic; this package binds it to concrete algorithms.
package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies a compressed container format.
type Format uint8

const (
	// FormatGzip is the gzip container: deflate members with a CRC-32
	// and size trailer. The member framing lives in lib/member; this
	// package supplies the raw deflate transform inside it.
	FormatGzip Format = iota

	// FormatZstd is the zstd frame format. The frame carries its own
	// integrity checksum.
	FormatZstd

	// FormatLZ4 is the lz4 frame format.
	FormatLZ4
)

// Compression levels on the tool's 1 (fastest) to 9 (best) scale.
const (
	MinLevel     = 1
	DefaultLevel = 6
	MaxLevel     = 9
)

// String returns the canonical format name.
func (f Format) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatZstd:
		return "zstd"
	case FormatLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// ParseFormat parses a format from its canonical name.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "gzip":
		return FormatGzip, nil
	case "zstd":
		return FormatZstd, nil
	case "lz4":
		return FormatLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression format: %q", name)
	}
}

// Suffix returns the conventional file name suffix for the format.
func (f Format) Suffix() string {
	switch f {
	case FormatZstd:
		return ".zst"
	case FormatLZ4:
		return ".lz4"
	default:
		return ".gz"
	}
}

// Container magic numbers.
var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// MagicSize is the number of leading bytes Detect needs to classify any
// supported format.
const MagicSize = 4

// Detect classifies leading container bytes. The prefix may be shorter
// than MagicSize; detection succeeds only when enough bytes are present
// to match a full magic number.
func Detect(prefix []byte) (Format, bool) {
	switch {
	case len(prefix) >= len(magicGzip) && prefix[0] == magicGzip[0] && prefix[1] == magicGzip[1]:
		return FormatGzip, true
	case len(prefix) >= len(magicZstd) && equalPrefix(prefix, magicZstd):
		return FormatZstd, true
	case len(prefix) >= len(magicLZ4) && equalPrefix(prefix, magicLZ4):
		return FormatLZ4, true
	default:
		return 0, false
	}
}

func equalPrefix(prefix, magic []byte) bool {
	for i, b := range magic {
		if prefix[i] != b {
			return false
		}
	}
	return true
}

// NewWriter constructs the streaming compressor for the format over the
// given sink at the given level (MinLevel..MaxLevel). For FormatGzip the
// writer emits raw deflate — the caller frames it into members.
func (f Format) NewWriter(sink io.Writer, level int) (io.WriteCloser, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("compression level %d out of range %d..%d", level, MinLevel, MaxLevel)
	}
	switch f {
	case FormatGzip:
		writer, err := flate.NewWriter(sink, level)
		if err != nil {
			return nil, fmt.Errorf("deflate writer: %w", err)
		}
		return writer, nil

	case FormatZstd:
		writer, err := zstd.NewWriter(sink, zstd.WithEncoderLevel(zstdLevel(level)))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return writer, nil

	case FormatLZ4:
		writer := lz4.NewWriter(sink)
		if err := writer.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
			return nil, fmt.Errorf("lz4 writer: %w", err)
		}
		return writer, nil

	default:
		return nil, fmt.Errorf("unsupported compression format: %d", uint8(f))
	}
}

// NewReader constructs the streaming decompressor for the format over
// the given source. For FormatGzip the reader consumes raw deflate — the
// caller parses the member framing around it. When the source implements
// io.ByteReader the deflate reader consumes no bytes past the end of the
// compressed stream, which the member layer relies on for trailer
// parsing and multi-member containers.
func (f Format) NewReader(source io.Reader) (io.ReadCloser, error) {
	switch f {
	case FormatGzip:
		return flate.NewReader(source), nil

	case FormatZstd:
		decoder, err := zstd.NewReader(source)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return decoder.IOReadCloser(), nil

	case FormatLZ4:
		return io.NopCloser(lz4.NewReader(source)), nil

	default:
		return nil, fmt.Errorf("unsupported compression format: %d", uint8(f))
	}
}

// zstdLevel maps the tool's 1..9 scale onto zstd's named levels.
func zstdLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 2:
		return zstd.SpeedFastest
	case level <= 5:
		return zstd.SpeedDefault
	case level <= 7:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

// lz4Level maps the tool's 1..9 scale onto lz4 compression levels.
// Level 1 selects the fast (non-HC) compressor.
func lz4Level(level int) lz4.CompressionLevel {
	switch level {
	case 1:
		return lz4.Fast
	case 2:
		return lz4.Level1
	case 3:
		return lz4.Level2
	case 4:
		return lz4.Level3
	case 5:
		return lz4.Level4
	case 6:
		return lz4.Level5
	case 7:
		return lz4.Level6
	case 8:
		return lz4.Level7
	default:
		return lz4.Level9
	}
}
