// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import (
	"errors"
	"syscall"
	"testing"
)

func TestFailureSeverity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		failure *Failure
		want    Severity
	}{
		{"read", ReadFailure("f", syscall.EIO), SeverityError},
		{"unexpected eof", ReadFailure("f", nil), SeverityError},
		{"generic", GenericFailure("f", "bad header"), SeverityError},
		{"memory", MemoryFailure(), SeverityError},
		{"write", writeFailure("f", syscall.ENOSPC), SeverityError},
		{"broken pipe", writeFailure("f", syscall.EPIPE), SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.failure.Severity(); got != tt.want {
				t.Errorf("Severity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFailureDiagnosticFormat(t *testing.T) {
	t.Parallel()

	failure := GenericFailure("archive.gz", "invalid compressed data--crc error")
	diagnostic, show := failure.Diagnostic("packstream", false)
	if !show {
		t.Fatal("diagnostic should not be suppressed")
	}
	want := "packstream: archive.gz: invalid compressed data--crc error"
	if diagnostic != want {
		t.Errorf("Diagnostic: got %q, want %q", diagnostic, want)
	}
}

func TestFailureUnexpectedEOFText(t *testing.T) {
	t.Parallel()
	failure := ReadFailure("short.gz", nil)
	diagnostic, _ := failure.Diagnostic("packstream", false)
	want := "packstream: short.gz: unexpected end of file"
	if diagnostic != want {
		t.Errorf("Diagnostic: got %q, want %q", diagnostic, want)
	}
}

func TestMemoryFailureOmitsFile(t *testing.T) {
	t.Parallel()
	diagnostic, show := MemoryFailure().Diagnostic("packstream", false)
	if !show {
		t.Fatal("memory diagnostic should not be suppressed")
	}
	if diagnostic != "packstream: memory exhausted" {
		t.Errorf("Diagnostic: got %q, want %q", diagnostic, "packstream: memory exhausted")
	}
}

func TestBrokenPipeQuietSuppression(t *testing.T) {
	t.Parallel()
	failure := writeFailure("out.gz", syscall.EPIPE)

	if _, show := failure.Diagnostic("packstream", true); show {
		t.Error("broken pipe in quiet mode must produce no diagnostic")
	}
	// Quiet changes the output, not the classification.
	if failure.Severity() != SeverityWarning {
		t.Error("broken pipe stays WARNING severity under quiet mode")
	}

	// Quiet suppresses only the broken-pipe warning.
	if _, show := writeFailure("out.gz", syscall.ENOSPC).Diagnostic("packstream", true); !show {
		t.Error("quiet must not suppress ordinary write errors")
	}
}

func TestFailureUnwrap(t *testing.T) {
	t.Parallel()
	failure := writeFailure("out.gz", syscall.EPIPE)
	if !errors.Is(failure, syscall.EPIPE) {
		t.Error("failure should unwrap to the underlying errno")
	}

	var typed *Failure
	if !errors.As(error(failure), &typed) {
		t.Error("errors.As should recover the typed failure")
	}
}
