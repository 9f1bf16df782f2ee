// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import "io"

// InputBuffer is the fixed-capacity read side of a Stream. It refills
// from the input descriptor only when exhausted, and accounts every
// refilled byte in the stream's bytes-in counter.
type InputBuffer struct {
	stream *Stream
	cursor *Cursor
}

// NextByte returns the next input byte, refilling from the descriptor if
// the buffer is exhausted. With eofOK, an exhausted source yields io.EOF;
// otherwise the zero-byte refill is a fatal read failure — but first the
// decompressed-window drain is flushed, so bytes already produced are not
// lost to the abort.
func (b *InputBuffer) NextByte(eofOK bool) (byte, error) {
	if value, ok := b.cursor.Next(); ok {
		return value, nil
	}
	if err := b.refill(eofOK); err != nil {
		return 0, err
	}
	value, _ := b.cursor.Next()
	return value, nil
}

// ReadByte adapts NextByte to io.ByteReader with io.EOF at end of
// source. Inflate loops read through this so they never consume bytes
// past the end of the compressed stream.
func (b *InputBuffer) ReadByte() (byte, error) {
	return b.NextByte(true)
}

// Read adapts the buffer to io.Reader for bulk consumers, with io.EOF at
// end of source. Refill accounting and failure classification are the
// same as NextByte's.
func (b *InputBuffer) Read(destination []byte) (int, error) {
	if len(destination) == 0 {
		return 0, nil
	}
	if b.cursor.Buffered() == 0 {
		if err := b.refill(true); err != nil {
			return 0, err
		}
	}
	return copy(destination, b.cursor.Consume(len(destination))), nil
}

// Unread pushes back the last count consumed bytes so they are returned
// again by subsequent reads. Used when format detection consumes magic
// bytes that turn out to belong to passthrough data.
func (b *InputBuffer) Unread(count int) error {
	if err := b.cursor.Rewind(count); err != nil {
		return GenericFailure(b.stream.inputName, err.Error())
	}
	return nil
}

// Buffered returns the number of bytes available without a refill.
func (b *InputBuffer) Buffered() int {
	return b.cursor.Buffered()
}

// refill reads as much as possible: repeated bounded reads accumulate
// into the buffer until it is full or the source reports exhaustion.
// Refilling stops exactly at capacity even when the source has more.
func (b *InputBuffer) refill(eofOK bool) error {
	b.cursor.Reset()
	for !b.cursor.Full() {
		readCount, err := BoundedRead(b.stream.input, b.cursor.free())
		if err != nil {
			return ReadFailure(b.stream.inputName, err)
		}
		if readCount == 0 {
			break
		}
		if growErr := b.cursor.grow(readCount); growErr != nil {
			return GenericFailure(b.stream.inputName, growErr.Error())
		}
	}

	if b.cursor.Len() == 0 {
		if eofOK {
			return io.EOF
		}
		// Fatal: the caller needed more bytes. Push out whatever the
		// window drain still holds before reporting, then classify the
		// zero-byte result as an unexpected end of file (there is no OS
		// error to report).
		if flushErr := b.stream.Window().Flush(); flushErr != nil {
			return flushErr
		}
		return ReadFailure(b.stream.inputName, nil)
	}

	b.stream.bytesIn += int64(b.cursor.Len())
	return nil
}
