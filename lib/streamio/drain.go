// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

// Drain is the fixed-capacity buffer for compressed output bytes. Flush
// writes the pending bytes verbatim to the output descriptor; the CRC
// register is not involved on this path.
type Drain struct {
	stream *Stream
	cursor *Cursor
}

// Write appends to the pending bytes, flushing whenever the buffer
// fills. Implements io.Writer so a compressor can emit straight into
// the drain. Returns len(source) on success; a flush failure is
// returned as the typed *Failure.
func (d *Drain) Write(source []byte) (int, error) {
	total := 0
	for len(source) > 0 {
		copied := d.cursor.Append(source)
		source = source[copied:]
		total += copied
		if d.cursor.Full() {
			if err := d.Flush(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// Pending returns the number of buffered bytes awaiting a flush.
func (d *Drain) Pending() int { return d.cursor.Len() }

// Flush empties the pending bytes to the output descriptor. A no-op
// when nothing is pending.
func (d *Drain) Flush() error {
	if d.cursor.Len() == 0 {
		return nil
	}
	if err := d.stream.writeFully(d.cursor.valid()); err != nil {
		return err
	}
	d.cursor.Reset()
	return nil
}

// WindowDrain is the fixed-capacity buffer for decompressed output
// bytes. It behaves like Drain except that Flush folds the pending
// bytes through the stream's CRC register before writing, so the
// register covers exactly the decompressed bytes flushed so far.
type WindowDrain struct {
	stream *Stream
	cursor *Cursor
}

// Write appends decompressed bytes, flushing (and checksumming)
// whenever the buffer fills. Implements io.Writer.
func (w *WindowDrain) Write(source []byte) (int, error) {
	total := 0
	for len(source) > 0 {
		copied := w.cursor.Append(source)
		source = source[copied:]
		total += copied
		if w.cursor.Full() {
			if err := w.Flush(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// Pending returns the number of buffered bytes awaiting a flush.
func (w *WindowDrain) Pending() int { return w.cursor.Len() }

// Flush checksums and empties the pending bytes. The CRC update happens
// before the write, so after any successful flush the register covers
// every byte written out, and a later write failure cannot leave the
// register behind the output. A no-op when nothing is pending.
func (w *WindowDrain) Flush() error {
	if w.cursor.Len() == 0 {
		return nil
	}
	w.stream.crc.Update(w.cursor.valid())
	if err := w.stream.writeFully(w.cursor.valid()); err != nil {
		return err
	}
	w.cursor.Reset()
	return nil
}
