// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package member

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/packstream/packstream/lib/codec"
	"github.com/packstream/packstream/lib/streamio"
)

// ErrUnknownFormat reports input whose leading bytes match no supported
// container. The consumed detection bytes have been pushed back, so the
// caller may forward the input unchanged (Stream.Copy) instead.
var ErrUnknownFormat = errors.New("unknown container format")

// Result describes a completed decompression run.
type Result struct {
	// Format is the detected container format.
	Format codec.Format

	// Members is the number of container members decoded. Only the
	// gzip format concatenates members at this layer; zstd and lz4
	// frames are handled inside their decoders.
	Members int

	// TrailingGarbage is set when decodable members were followed by
	// bytes that are not a member. The garbage is ignored; the caller
	// decides whether to warn.
	TrailingGarbage bool
}

// Decompress detects the container format from the input's magic bytes,
// decodes every member through the decompressed-window drain, and
// verifies integrity. Gzip member trailers are checked against the
// stream's CRC register and byte counter; a mismatch is fatal.
func Decompress(stream *streamio.Stream) (*Result, error) {
	format, err := detectFormat(stream)
	if err != nil {
		return nil, err
	}

	result := &Result{Format: format}
	if format != codec.FormatGzip {
		if err := decodeFrames(stream, format); err != nil {
			return nil, err
		}
		result.Members = 1
		return result, nil
	}

	// Gzip: decode members until the source is exhausted. The magic of
	// the first member has already been consumed by detection.
	for {
		if err := decodeGzipMember(stream); err != nil {
			return nil, err
		}
		result.Members++

		more, garbage, err := nextGzipMember(stream)
		if err != nil {
			return nil, err
		}
		if garbage {
			result.TrailingGarbage = true
			return result, nil
		}
		if !more {
			return result, nil
		}
	}
}

// detectFormat classifies the container by magic bytes. Gzip needs two
// bytes, zstd and lz4 four. On no match every consumed byte is pushed
// back and ErrUnknownFormat is returned; for zstd and lz4 the magic is
// also pushed back because their frame decoders expect to read it.
func detectFormat(stream *streamio.Stream) (codec.Format, error) {
	input := stream.Input()
	var prefix [codec.MagicSize]byte

	// An empty input cannot be a container at all: the first byte is
	// required, so its absence is the unexpected-end-of-file path.
	first, err := input.NextByte(false)
	if err != nil {
		return 0, err
	}
	prefix[0] = first
	consumed := 1

	for consumed < codec.MagicSize {
		next, err := input.NextByte(true)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		prefix[consumed] = next
		consumed++

		if consumed == 2 {
			if format, ok := codec.Detect(prefix[:2]); ok && format == codec.FormatGzip {
				return format, nil
			}
		}
	}

	format, ok := codec.Detect(prefix[:consumed])
	if !ok {
		if unreadErr := input.Unread(consumed); unreadErr != nil {
			return 0, unreadErr
		}
		return 0, ErrUnknownFormat
	}

	// zstd/lz4 decoders parse their own frame header, magic included.
	if unreadErr := input.Unread(consumed); unreadErr != nil {
		return 0, unreadErr
	}
	return format, nil
}

// decodeFrames runs a self-framing format (zstd, lz4) from the input
// buffer through the window drain.
func decodeFrames(stream *streamio.Stream, format codec.Format) error {
	stream.CRC().Reset()
	reader, err := format.NewReader(stream.Input())
	if err != nil {
		return streamio.GenericFailure(stream.InputName(), err.Error())
	}
	defer reader.Close()

	if err := pump(stream, reader); err != nil {
		return err
	}
	return stream.Window().Flush()
}

// decodeGzipMember decodes one gzip member whose two magic bytes have
// already been consumed: the rest of the header, the deflate body, and
// the CRC/size trailer.
func decodeGzipMember(stream *streamio.Stream) error {
	if err := parseGzipHeader(stream); err != nil {
		return err
	}

	stream.CRC().Reset()
	producedStart := stream.BytesOut()

	reader, err := codec.FormatGzip.NewReader(stream.Input())
	if err != nil {
		return streamio.GenericFailure(stream.InputName(), err.Error())
	}
	defer reader.Close()

	if err := pump(stream, reader); err != nil {
		return err
	}
	if err := stream.Window().Flush(); err != nil {
		return err
	}
	produced := stream.BytesOut() - producedStart

	var trailer [trailerSize]byte
	for i := range trailer {
		value, err := stream.Input().NextByte(false)
		if err != nil {
			return err
		}
		trailer[i] = value
	}
	expectedCRC := binary.LittleEndian.Uint32(trailer[0:4])
	expectedSize := binary.LittleEndian.Uint32(trailer[4:8])

	if stream.CRC().Sum() != expectedCRC {
		return streamio.GenericFailure(stream.InputName(), "invalid compressed data--crc error")
	}
	if uint32(produced) != expectedSize {
		return streamio.GenericFailure(stream.InputName(), "invalid compressed data--length error")
	}
	return nil
}

// parseGzipHeader consumes a member header after the magic: method,
// flags, the fixed fields, and any optional fields the flags announce.
func parseGzipHeader(stream *streamio.Stream) error {
	input := stream.Input()
	file := stream.InputName()

	method, err := input.NextByte(false)
	if err != nil {
		return err
	}
	if method != gzipMethodFlate {
		return streamio.GenericFailure(file, fmt.Sprintf("unknown method %d -- not supported", method))
	}

	flags, err := input.NextByte(false)
	if err != nil {
		return err
	}
	if flags&flagReserved != 0 {
		return streamio.GenericFailure(file, fmt.Sprintf("unknown flags 0x%02x -- not supported", flags&flagReserved))
	}

	// MTIME(4) + XFL(1) + OS(1), all ignored.
	if err := skipBytes(input, 6); err != nil {
		return err
	}

	if flags&flagExtra != 0 {
		low, err := input.NextByte(false)
		if err != nil {
			return err
		}
		high, err := input.NextByte(false)
		if err != nil {
			return err
		}
		if err := skipBytes(input, int(binary.LittleEndian.Uint16([]byte{low, high}))); err != nil {
			return err
		}
	}
	if flags&flagName != 0 {
		if err := skipZeroTerminated(input); err != nil {
			return err
		}
	}
	if flags&flagComment != 0 {
		if err := skipZeroTerminated(input); err != nil {
			return err
		}
	}
	if flags&flagHdrCRC != 0 {
		if err := skipBytes(input, 2); err != nil {
			return err
		}
	}
	return nil
}

// nextGzipMember decides what follows a decoded member: end of source
// (done), another member magic (continue), or anything else (trailing
// garbage, ignored).
func nextGzipMember(stream *streamio.Stream) (more, garbage bool, err error) {
	input := stream.Input()

	first, err := input.NextByte(true)
	if err == io.EOF {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if first != gzipID1 {
		return false, true, nil
	}

	second, err := input.NextByte(true)
	if err == io.EOF {
		return false, true, nil
	}
	if err != nil {
		return false, false, err
	}
	if second != gzipID2 {
		return false, true, nil
	}
	return true, false, nil
}

// pump copies everything the transform produces into the window drain,
// classifying decode errors as the generic invalid-data path and
// truncation as the fatal read path.
func pump(stream *streamio.Stream, reader io.Reader) error {
	chunk := make([]byte, transferChunkSize)
	for {
		readCount, err := reader.Read(chunk)
		if readCount > 0 {
			if _, writeErr := stream.Window().Write(chunk[:readCount]); writeErr != nil {
				return writeErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return classifyDecode(stream, err)
		}
	}
}

// classifyDecode maps transform read errors onto the failure taxonomy:
// typed failures pass through, truncation is the unexpected-end-of-file
// read failure, and everything else is corrupt input.
func classifyDecode(stream *streamio.Stream, err error) error {
	var failure *streamio.Failure
	if errors.As(err, &failure) {
		return failure
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return streamio.ReadFailure(stream.InputName(), nil)
	}
	return streamio.GenericFailure(stream.InputName(), "invalid compressed data--format violated")
}

// skipBytes consumes and discards count header bytes.
func skipBytes(input *streamio.InputBuffer, count int) error {
	for ; count > 0; count-- {
		if _, err := input.NextByte(false); err != nil {
			return err
		}
	}
	return nil
}

// skipZeroTerminated consumes a zero-terminated header field.
func skipZeroTerminated(input *streamio.InputBuffer) error {
	for {
		value, err := input.NextByte(false)
		if err != nil {
			return err
		}
		if value == 0 {
			return nil
		}
	}
}
