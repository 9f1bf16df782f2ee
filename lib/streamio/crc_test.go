// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import (
	"hash/crc32"
	"testing"
)

func TestCRCResetValue(t *testing.T) {
	t.Parallel()
	var crc CRC
	crc.Update([]byte("dirty"))
	if got := crc.Reset(); got != 0 {
		t.Errorf("Reset: got %#x, want 0", got)
	}
	if got := crc.Sum(); got != 0 {
		t.Errorf("Sum after Reset: got %#x, want 0", got)
	}
}

func TestCRCKnownValue(t *testing.T) {
	t.Parallel()
	var crc CRC
	crc.Reset()
	// The CRC-32/IEEE check value for "123456789".
	if got := crc.Update([]byte("123456789")); got != 0xCBF43926 {
		t.Errorf("Update(123456789): got %#x, want 0xCBF43926", got)
	}
}

func TestCRCIncrementalMatchesOneShot(t *testing.T) {
	t.Parallel()
	sequences := [][2][]byte{
		{[]byte("hello "), []byte("world")},
		{[]byte{}, []byte("only second")},
		{[]byte{0x00, 0xff, 0x80}, []byte{0x7f}},
	}

	for _, pair := range sequences {
		var split CRC
		split.Reset()
		split.Update(pair[0])
		incremental := split.Update(pair[1])

		var whole CRC
		whole.Reset()
		oneShot := whole.Update(append(append([]byte(nil), pair[0]...), pair[1]...))

		if incremental != oneShot {
			t.Errorf("update(%q); update(%q) = %#x, want %#x (one-shot)",
				pair[0], pair[1], incremental, oneShot)
		}
	}
}

func TestCRCSumDoesNotMutate(t *testing.T) {
	t.Parallel()
	var crc CRC
	crc.Reset()
	crc.Update([]byte("abc"))

	first := crc.Sum()
	second := crc.Sum()
	if first != second {
		t.Errorf("Sum mutated the register: %#x then %#x", first, second)
	}
	if first != crc32.ChecksumIEEE([]byte("abc")) {
		t.Errorf("Sum: got %#x, want %#x", first, crc32.ChecksumIEEE([]byte("abc")))
	}
}
