// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import (
	"errors"
	"syscall"
)

// maxTransferSize caps the byte count of any single read or write system
// call. Kernels silently truncate very large transfers (Linux caps a
// single read/write at MAX_RW_COUNT); clamping here keeps the return
// value of one call meaningful on every platform. A variable rather than
// a constant so tests can shrink it.
var maxTransferSize = 1 << 30

// BoundedRead reads into destination with at most one transfer of at
// most maxTransferSize bytes, plus at most one recovery retry.
//
// If the read fails with EAGAIN and the descriptor supports
// BlockingControl, the non-blocking flag is inspected: when the
// descriptor is already in blocking mode the would-block error is
// surfaced as-is, and when the flag is set it is cleared and the read is
// retried exactly once. The flag is left cleared — the descriptor is
// fixed forward for all subsequent reads.
//
// Returns the number of bytes read; 0 with a nil error means the source
// is exhausted.
func BoundedRead(descriptor Descriptor, destination []byte) (int, error) {
	if len(destination) > maxTransferSize {
		destination = destination[:maxTransferSize]
	}

	readCount, err := descriptor.Read(destination)
	if err == nil || !errors.Is(err, syscall.EAGAIN) {
		return readCount, err
	}

	control, ok := descriptor.(BlockingControl)
	if !ok {
		return 0, err
	}
	nonblocking, flagErr := control.Nonblocking()
	if flagErr != nil {
		// Could not inspect the flag; surface the original would-block
		// error rather than the fcntl failure.
		return 0, err
	}
	if !nonblocking {
		// The descriptor is already blocking, so EAGAIN was not caused
		// by O_NONBLOCK. Nothing to fix; surface the would-block error.
		return 0, err
	}
	if clearErr := control.ClearNonblocking(); clearErr != nil {
		return 0, err
	}
	return descriptor.Read(destination)
}

// BoundedWrite writes source with a single transfer of at most
// maxTransferSize bytes. There is no recovery path for writes; any error
// propagates as-is. The returned count may be less than len(source),
// including zero.
func BoundedWrite(descriptor Descriptor, source []byte) (int, error) {
	if len(source) > maxTransferSize {
		source = source[:maxTransferSize]
	}
	return descriptor.Write(source)
}
