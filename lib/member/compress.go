// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package member runs whole compressed files through a streamio.Stream:
// compression frames the transform output into the selected container
// format, decompression detects the format, parses the framing, and
// verifies member integrity. All bytes move through the stream's input
// buffer and output drains, so the byte counters and CRC register always
// describe exactly what crossed the descriptors.
package member

import (
	"errors"
	"io"
	"time"

	"github.com/packstream/packstream/lib/codec"
	"github.com/packstream/packstream/lib/streamio"
)

// transferChunkSize is the unit the compress loop moves between the
// input buffer and the transform.
const transferChunkSize = 0x8000

// CompressOptions frames one compression run.
type CompressOptions struct {
	// Format selects the container.
	Format codec.Format

	// Level is the compression level, codec.MinLevel..codec.MaxLevel.
	// Zero means codec.DefaultLevel.
	Level int

	// Name is the original base file name recorded in a gzip member
	// header. Empty (e.g. stdin) omits the field.
	Name string

	// ModTime is the original file modification time recorded in a
	// gzip member header. The zero time records no timestamp.
	ModTime time.Time
}

// Compress reads the stream's input to exhaustion, compresses it in the
// selected format, and drains the result to the output descriptor. For
// the gzip format the member trailer carries the CRC-32 and size of the
// uncompressed input, accumulated while reading.
func Compress(stream *streamio.Stream, options CompressOptions) error {
	level := options.Level
	if level == 0 {
		level = codec.DefaultLevel
	}

	stream.CRC().Reset()
	out := stream.Out()

	isGzip := options.Format == codec.FormatGzip
	if isGzip {
		if err := writeGzipHeader(out, options.Name, options.ModTime, level); err != nil {
			return classify(stream, err)
		}
	}

	writer, err := options.Format.NewWriter(out, level)
	if err != nil {
		return streamio.GenericFailure(stream.InputName(), err.Error())
	}

	chunk := make([]byte, transferChunkSize)
	for {
		readCount, readErr := stream.Input().Read(chunk)
		if readCount > 0 {
			if isGzip {
				stream.CRC().Update(chunk[:readCount])
			}
			if _, writeErr := writer.Write(chunk[:readCount]); writeErr != nil {
				return classify(stream, writeErr)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	if err := writer.Close(); err != nil {
		return classify(stream, err)
	}
	if isGzip {
		if err := writeGzipTrailer(out, stream.CRC().Sum(), stream.BytesIn()); err != nil {
			return classify(stream, err)
		}
	}
	return out.Flush()
}

// classify passes typed stream failures through unchanged and wraps
// anything else (a transform-internal error) as the generic fatal path
// named after the input file.
func classify(stream *streamio.Stream, err error) error {
	var failure *streamio.Failure
	if errors.As(err, &failure) {
		return failure
	}
	return streamio.GenericFailure(stream.InputName(), err.Error())
}
