// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

// Descriptor is the minimal surface this layer needs from an open file:
// a read side, a write side, or both. The same value may back only one
// direction; calling the unused direction is the caller's bug.
//
// Implementations report OS errors unmodified (see FileDescriptor), so
// the transfer layer can recognize conditions like EAGAIN and EPIPE with
// errors.Is.
type Descriptor interface {
	Read(buffer []byte) (int, error)
	Write(buffer []byte) (int, error)
}

// BlockingControl is the optional capability of a descriptor whose
// non-blocking flag can be inspected and cleared. BoundedRead uses it
// for the one-shot would-block recovery: input files may have been
// opened O_NONBLOCK, and on some file systems that makes plain reads
// fail with EAGAIN.
//
// Descriptors that do not implement BlockingControl get no recovery;
// a would-block read surfaces to the caller unchanged.
type BlockingControl interface {
	// Nonblocking reports whether the descriptor currently has its
	// non-blocking flag set.
	Nonblocking() (bool, error)

	// ClearNonblocking clears the non-blocking flag. The flag stays
	// cleared; the recovery policy fixes the descriptor forward rather
	// than restoring the original mode afterward.
	ClearNonblocking() error
}
