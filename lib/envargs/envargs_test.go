// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package envargs

import (
	"slices"
	"testing"
)

func TestExpandUnsetVariable(t *testing.T) {
	t.Setenv("PACKSTREAM_TEST_UNSET", "")
	argv := []string{"prog", "file.txt"}

	expanded, ok := Expand("PACKSTREAM_TEST_UNSET", argv)
	if ok {
		t.Error("unset variable should report no expansion")
	}
	if !slices.Equal(expanded, argv) {
		t.Errorf("argv: got %v, want untouched %v", expanded, argv)
	}
}

func TestExpandTokenizesOnSpacesAndTabs(t *testing.T) {
	t.Setenv("PACKSTREAM_TEST_OPTS", "  -a  -b ")

	expanded, ok := Expand("PACKSTREAM_TEST_OPTS", []string{"prog"})
	if !ok {
		t.Fatal("expansion should be reported")
	}
	want := []string{"prog", "-a", "-b"}
	if !slices.Equal(expanded, want) {
		t.Errorf("vector: got %v, want %v", expanded, want)
	}
	if len(expanded) != 3 {
		t.Errorf("count: got %d, want 3", len(expanded))
	}
}

func TestExpandMixedSeparators(t *testing.T) {
	t.Setenv("PACKSTREAM_TEST_OPTS", "\t-q\t\t--level 9 \t")

	expanded, ok := Expand("PACKSTREAM_TEST_OPTS", []string{"prog"})
	if !ok {
		t.Fatal("expansion should be reported")
	}
	want := []string{"prog", "-q", "--level", "9"}
	if !slices.Equal(expanded, want) {
		t.Errorf("vector: got %v, want %v", expanded, want)
	}
}

func TestExpandWhitespaceOnlyValue(t *testing.T) {
	t.Setenv("PACKSTREAM_TEST_OPTS", " \t ")

	argv := []string{"prog"}
	expanded, ok := Expand("PACKSTREAM_TEST_OPTS", argv)
	if ok {
		t.Error("whitespace-only value should report no expansion")
	}
	if !slices.Equal(expanded, argv) {
		t.Errorf("argv: got %v, want untouched %v", expanded, argv)
	}
}
