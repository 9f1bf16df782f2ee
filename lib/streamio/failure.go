// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import (
	"errors"
	"fmt"
	"syscall"
)

// Severity classifies how a terminating failure should affect the
// process exit status. Either way the stream is finished: a WARNING is
// non-fatal only in the exit-code sense, never in the sense of the
// stream continuing.
type Severity int

const (
	// SeverityError is the ordinary fatal class.
	SeverityError Severity = iota
	// SeverityWarning is the non-fatal exit class, used for a broken
	// pipe on output: the reader went away, which is not the writer's
	// error.
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// FailureKind identifies which failure path produced a Failure.
type FailureKind int

const (
	// FailureRead covers read errors and genuine unexpected end of
	// input. Always SeverityError.
	FailureRead FailureKind = iota

	// FailureGeneric covers internal invariant violations surfaced
	// through the same message-plus-terminate path as read failures,
	// such as a malformed container header.
	FailureGeneric

	// FailureMemory is allocation exhaustion. Its diagnostic carries no
	// file name because the failure is not file-specific.
	FailureMemory

	// FailureWrite covers write errors other than a broken pipe.
	FailureWrite

	// FailureBrokenPipe is a write failure with EPIPE. SeverityWarning,
	// and its diagnostic is suppressed entirely in quiet mode.
	FailureBrokenPipe
)

// Failure is a terminating condition from the buffer layer. The layer
// never exits the process itself; it hands the Failure to the outermost
// driver, which renders the diagnostic and chooses the exit status from
// the severity. After a Failure the stream is corrupted and must be
// abandoned — there is no resumption.
type Failure struct {
	// Kind selects the failure path.
	Kind FailureKind

	// File is the display name of the file involved, for diagnostics
	// only. Empty for FailureMemory.
	File string

	// Message is the diagnostic text when no underlying OS error
	// applies (e.g. "unexpected end of file").
	Message string

	// Err is the underlying OS error, if one was reported.
	Err error
}

// Error renders the failure without the program-name prefix.
func (f *Failure) Error() string {
	message := f.Message
	if f.Err != nil {
		message = f.Err.Error()
	}
	if f.File == "" {
		return message
	}
	return f.File + ": " + message
}

// Unwrap exposes the underlying OS error for errors.Is matching.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Severity returns the exit class of the failure. Only a broken pipe on
// output is WARNING; everything else is ERROR.
func (f *Failure) Severity() Severity {
	if f.Kind == FailureBrokenPipe {
		return SeverityWarning
	}
	return SeverityError
}

// Diagnostic renders the user-visible line "{program}: {file}: {message}"
// (FailureMemory omits the file). The second result is false when the
// diagnostic must be suppressed: a broken-pipe warning in quiet mode
// produces no output at all.
func (f *Failure) Diagnostic(program string, quiet bool) (string, bool) {
	if quiet && f.Kind == FailureBrokenPipe {
		return "", false
	}
	return fmt.Sprintf("%s: %s", program, f.Error()), true
}

// ReadFailure builds the always-fatal read-path failure. With no OS
// error set, the zero-byte result is reported as an unexpected end of
// file rather than an OS condition.
func ReadFailure(file string, err error) *Failure {
	if err == nil {
		return &Failure{Kind: FailureRead, File: file, Message: "unexpected end of file"}
	}
	return &Failure{Kind: FailureRead, File: file, Err: err}
}

// writeFailure classifies a write error: EPIPE is the WARNING-class
// broken-pipe path, anything else is an ordinary fatal write error.
func writeFailure(file string, err error) *Failure {
	kind := FailureWrite
	if errors.Is(err, syscall.EPIPE) {
		kind = FailureBrokenPipe
	}
	return &Failure{Kind: kind, File: file, Err: err}
}

// GenericFailure builds the fatal path for invariant violations
// unrelated to I/O, named after the input file like read failures.
func GenericFailure(file, message string) *Failure {
	return &Failure{Kind: FailureGeneric, File: file, Message: message}
}

// MemoryFailure builds the allocation-exhaustion failure. It carries a
// fixed diagnostic and no file name.
func MemoryFailure() *Failure {
	return &Failure{Kind: FailureMemory, Message: "memory exhausted"}
}
