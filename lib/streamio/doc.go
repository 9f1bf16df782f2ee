// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

// Package streamio implements the byte-buffer layer that sits between a
// compression transform and raw file descriptors.
//
// A Stream owns a fixed-capacity input buffer, two fixed-capacity output
// drains (one for compressed bytes, one for decompressed bytes), a running
// CRC-32 register, and the bytes-in/bytes-out counters that the container
// format persists. The transform loop pulls bytes from the input buffer
// and pushes results into one of the drains; the drains empty themselves
// to the output descriptor through a bounded, partial-transfer-tolerant
// write loop. Flushing the decompressed drain folds the flushed bytes
// through the CRC register, so the register always covers exactly the
// decompressed bytes that have been written out.
//
// The layer is single-threaded by design: one Stream serves one active
// file at a time, and every operation either completes or blocks inside
// an OS read/write call. Failures are never handled by terminating the
// process here — every fatal condition is returned as a *Failure carrying
// a severity class, and the outermost driver decides how to exit.
package streamio
