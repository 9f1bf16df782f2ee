// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import (
	"bytes"
	"testing"
)

func TestCursorAppendStopsAtCapacity(t *testing.T) {
	t.Parallel()
	cursor := NewCursor(4)

	copied := cursor.Append([]byte("abcdef"))
	if copied != 4 {
		t.Errorf("Append into capacity 4: copied %d, want 4", copied)
	}
	if !cursor.Full() {
		t.Error("cursor should be full")
	}
	if copied = cursor.Append([]byte("x")); copied != 0 {
		t.Errorf("Append to full cursor: copied %d, want 0", copied)
	}
}

func TestCursorConsumeOrderAndClamp(t *testing.T) {
	t.Parallel()
	cursor := NewCursor(8)
	cursor.Append([]byte("abcde"))

	if got := cursor.Consume(2); !bytes.Equal(got, []byte("ab")) {
		t.Errorf("Consume(2): got %q, want %q", got, "ab")
	}
	if value, ok := cursor.Next(); !ok || value != 'c' {
		t.Errorf("Next: got (%q, %v), want ('c', true)", value, ok)
	}
	// Asking for more than is buffered returns only what remains.
	if got := cursor.Consume(100); !bytes.Equal(got, []byte("de")) {
		t.Errorf("Consume(100): got %q, want %q", got, "de")
	}
	if _, ok := cursor.Next(); ok {
		t.Error("Next on exhausted cursor should report no byte")
	}
}

func TestCursorInvariantHolds(t *testing.T) {
	t.Parallel()
	cursor := NewCursor(4)

	check := func(context string) {
		if cursor.pos < 0 || cursor.pos > cursor.size || cursor.size > cursor.Capacity() {
			t.Fatalf("%s: invariant violated: pos=%d size=%d capacity=%d",
				context, cursor.pos, cursor.size, cursor.Capacity())
		}
	}

	check("fresh")
	cursor.Append([]byte("abc"))
	check("after append")
	cursor.Consume(2)
	check("after consume")
	cursor.Append([]byte("xyz"))
	check("after second append")
	cursor.Consume(100)
	check("after overdrawn consume")
	cursor.Reset()
	check("after reset")
	if cursor.Len() != 0 || cursor.Buffered() != 0 {
		t.Errorf("after Reset: len=%d buffered=%d, want 0, 0", cursor.Len(), cursor.Buffered())
	}
}

func TestCursorGrowRejectsOverflow(t *testing.T) {
	t.Parallel()
	cursor := NewCursor(4)
	cursor.Append([]byte("abc"))

	if err := cursor.grow(2); err == nil {
		t.Error("grow past capacity should fail")
	}
	if err := cursor.grow(-1); err == nil {
		t.Error("negative grow should fail")
	}
	if err := cursor.grow(1); err != nil {
		t.Errorf("grow(1) within capacity failed: %v", err)
	}
}

func TestCursorRewind(t *testing.T) {
	t.Parallel()
	cursor := NewCursor(8)
	cursor.Append([]byte("abcd"))
	cursor.Consume(3)

	if err := cursor.Rewind(4); err == nil {
		t.Error("rewinding past the consumed count should fail")
	}
	if err := cursor.Rewind(2); err != nil {
		t.Fatalf("Rewind(2) failed: %v", err)
	}
	if got := cursor.Consume(3); !bytes.Equal(got, []byte("bcd")) {
		t.Errorf("after rewind: got %q, want %q", got, "bcd")
	}
}
