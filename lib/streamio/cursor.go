// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import "fmt"

// Cursor is a bounded cursor over an owned fixed-capacity byte array.
// It tracks how many bytes are valid (size) and how many of those have
// been consumed (pos), and every operation is capacity-checked, so the
// invariant 0 ≤ pos ≤ size ≤ capacity holds in all reachable states and
// cannot be violated by a caller.
type Cursor struct {
	data []byte
	size int
	pos  int
}

// NewCursor allocates a cursor with the given fixed capacity.
func NewCursor(capacity int) *Cursor {
	if capacity <= 0 {
		panic(fmt.Sprintf("streamio: cursor capacity must be positive, got %d", capacity))
	}
	return &Cursor{data: make([]byte, capacity)}
}

// Capacity returns the fixed capacity in bytes.
func (c *Cursor) Capacity() int { return len(c.data) }

// Buffered returns the number of valid bytes not yet consumed.
func (c *Cursor) Buffered() int { return c.size - c.pos }

// Len returns the number of valid bytes, consumed or not.
func (c *Cursor) Len() int { return c.size }

// Full reports whether the valid region has reached capacity.
func (c *Cursor) Full() bool { return c.size == len(c.data) }

// Reset discards all contents, returning both counters to zero.
func (c *Cursor) Reset() {
	c.size = 0
	c.pos = 0
}

// Next consumes and returns the next unconsumed byte. The second result
// is false when no unconsumed bytes remain.
func (c *Cursor) Next() (byte, bool) {
	if c.pos >= c.size {
		return 0, false
	}
	value := c.data[c.pos]
	c.pos++
	return value, true
}

// Consume advances past up to limit unconsumed bytes and returns them as
// a view into the cursor's storage. The view is valid until the next
// Reset or Append.
func (c *Cursor) Consume(limit int) []byte {
	if limit > c.Buffered() {
		limit = c.Buffered()
	}
	view := c.data[c.pos : c.pos+limit]
	c.pos += limit
	return view
}

// Rewind un-consumes the last count consumed bytes, so they can be read
// again. Fails if count exceeds what has been consumed since the last
// Reset.
func (c *Cursor) Rewind(count int) error {
	if count < 0 || count > c.pos {
		return fmt.Errorf("streamio: cursor rewind by %d with only %d consumed", count, c.pos)
	}
	c.pos -= count
	return nil
}

// Append copies bytes into the free region after the valid bytes and
// returns how many were copied. Copying stops exactly at capacity; the
// remainder is the caller's to retry after draining.
func (c *Cursor) Append(source []byte) int {
	copied := copy(c.data[c.size:], source)
	c.size += copied
	return copied
}

// free returns the unfilled region after the valid bytes, for refilling
// in place. grow commits bytes written there.
func (c *Cursor) free() []byte { return c.data[c.size:] }

// grow extends the valid region by filled bytes previously written into
// free(). It rejects growth past capacity so a miscounting filler cannot
// break the size invariant.
func (c *Cursor) grow(filled int) error {
	if filled < 0 || c.size+filled > len(c.data) {
		return fmt.Errorf("streamio: cursor grow by %d exceeds capacity %d (size %d)",
			filled, len(c.data), c.size)
	}
	c.size += filled
	return nil
}

// valid returns the valid region, consumed bytes included. Drains flush
// this whole region.
func (c *Cursor) valid() []byte { return c.data[:c.size] }
