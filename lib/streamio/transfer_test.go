// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import (
	"bytes"
	"errors"
	"syscall"
	"testing"
)

func TestBoundedReadClampsRequest(t *testing.T) {
	saved := maxTransferSize
	maxTransferSize = 4
	defer func() { maxTransferSize = saved }()

	descriptor := &fakeDescriptor{reads: []readStep{{data: []byte("0123456789")}}}
	destination := make([]byte, 10)

	readCount, err := BoundedRead(descriptor, destination)
	if err != nil {
		t.Fatalf("BoundedRead failed: %v", err)
	}
	if readCount != 4 {
		t.Errorf("BoundedRead with cap 4: got %d bytes, want 4", readCount)
	}
}

func TestBoundedWriteClampsRequest(t *testing.T) {
	saved := maxTransferSize
	maxTransferSize = 4
	defer func() { maxTransferSize = saved }()

	descriptor := &fakeDescriptor{}
	writeCount, err := BoundedWrite(descriptor, []byte("0123456789"))
	if err != nil {
		t.Fatalf("BoundedWrite failed: %v", err)
	}
	if writeCount != 4 {
		t.Errorf("BoundedWrite with cap 4: got %d bytes, want 4", writeCount)
	}
	if got := descriptor.written(); !bytes.Equal(got, []byte("0123")) {
		t.Errorf("descriptor received %q, want %q", got, "0123")
	}
}

func TestBoundedReadWouldBlockRecovery(t *testing.T) {
	t.Parallel()
	descriptor := &blockingDescriptor{
		fakeDescriptor: fakeDescriptor{reads: []readStep{
			{err: syscall.EAGAIN},
			{data: []byte("abc")},
		}},
		nonblocking: true,
	}

	destination := make([]byte, 8)
	readCount, err := BoundedRead(descriptor, destination)
	if err != nil {
		t.Fatalf("BoundedRead failed: %v", err)
	}
	if readCount != 3 || !bytes.Equal(destination[:3], []byte("abc")) {
		t.Errorf("retry read: got %d bytes %q, want 3 bytes %q", readCount, destination[:readCount], "abc")
	}
	if descriptor.clearCalls != 1 {
		t.Errorf("ClearNonblocking called %d times, want 1", descriptor.clearCalls)
	}
	// The recovery fixes the descriptor forward: the flag stays cleared.
	if descriptor.nonblocking {
		t.Error("non-blocking flag should remain cleared after recovery")
	}
}

func TestBoundedReadWouldBlockAlreadyBlocking(t *testing.T) {
	t.Parallel()
	descriptor := &blockingDescriptor{
		fakeDescriptor: fakeDescriptor{reads: []readStep{
			{err: syscall.EAGAIN},
			{data: []byte("abc")},
		}},
		nonblocking: false,
	}

	_, err := BoundedRead(descriptor, make([]byte, 8))
	if !errors.Is(err, syscall.EAGAIN) {
		t.Fatalf("got %v, want EAGAIN surfaced", err)
	}
	if descriptor.clearCalls != 0 {
		t.Error("recovery must not clear the flag of an already-blocking descriptor")
	}
	if len(descriptor.reads) != 1 {
		t.Error("recovery must not retry the read on an already-blocking descriptor")
	}
}

func TestBoundedReadWouldBlockNoControl(t *testing.T) {
	t.Parallel()
	descriptor := &fakeDescriptor{reads: []readStep{{err: syscall.EAGAIN}}}

	_, err := BoundedRead(descriptor, make([]byte, 8))
	if !errors.Is(err, syscall.EAGAIN) {
		t.Fatalf("got %v, want EAGAIN surfaced without BlockingControl", err)
	}
}

func TestBoundedReadFlagInspectionFails(t *testing.T) {
	t.Parallel()
	descriptor := &blockingDescriptor{
		fakeDescriptor: fakeDescriptor{reads: []readStep{{err: syscall.EAGAIN}}},
		nonblocking:    true,
		flagErr:        syscall.EBADF,
	}

	_, err := BoundedRead(descriptor, make([]byte, 8))
	if !errors.Is(err, syscall.EAGAIN) {
		t.Fatalf("got %v, want the original EAGAIN when the flag cannot be inspected", err)
	}
}

func TestBoundedReadClearFails(t *testing.T) {
	t.Parallel()
	descriptor := &blockingDescriptor{
		fakeDescriptor: fakeDescriptor{reads: []readStep{
			{err: syscall.EAGAIN},
			{data: []byte("abc")},
		}},
		nonblocking: true,
		clearErr:    syscall.EBADF,
	}

	_, err := BoundedRead(descriptor, make([]byte, 8))
	if !errors.Is(err, syscall.EAGAIN) {
		t.Fatalf("got %v, want the original EAGAIN when the flag cannot be cleared", err)
	}
	if len(descriptor.reads) != 1 {
		t.Error("recovery must not retry when clearing the flag failed")
	}
}

func TestBoundedReadRetryFailsAgain(t *testing.T) {
	t.Parallel()
	descriptor := &blockingDescriptor{
		fakeDescriptor: fakeDescriptor{reads: []readStep{
			{err: syscall.EAGAIN},
			{err: syscall.EAGAIN},
		}},
		nonblocking: true,
	}

	_, err := BoundedRead(descriptor, make([]byte, 8))
	if !errors.Is(err, syscall.EAGAIN) {
		t.Fatalf("got %v, want EAGAIN from the single retry", err)
	}
	if len(descriptor.reads) != 0 {
		t.Error("recovery retries exactly once")
	}
}

func TestBoundedReadZeroAtEOF(t *testing.T) {
	t.Parallel()
	descriptor := &fakeDescriptor{}
	readCount, err := BoundedRead(descriptor, make([]byte, 8))
	if err != nil || readCount != 0 {
		t.Errorf("read at EOF: got (%d, %v), want (0, nil)", readCount, err)
	}
}
