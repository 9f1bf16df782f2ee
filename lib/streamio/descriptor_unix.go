// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package streamio

import (
	"os"

	"golang.org/x/sys/unix"
)

// FileDescriptor adapts a raw file descriptor to the Descriptor and
// BlockingControl interfaces using direct system calls. It does not own
// the descriptor: opening and closing are the caller's responsibility.
type FileDescriptor struct {
	fd int
}

// NewFileDescriptor wraps an already-open raw file descriptor.
func NewFileDescriptor(fd int) *FileDescriptor {
	return &FileDescriptor{fd: fd}
}

// DescriptorFor wraps the descriptor of an open *os.File. The file must
// stay open for as long as the returned descriptor is used.
func DescriptorFor(file *os.File) *FileDescriptor {
	return &FileDescriptor{fd: int(file.Fd())}
}

// Read reads into buffer with a single read(2) call. Errors are returned
// as raw unix.Errno values so callers can match them with errors.Is.
func (d *FileDescriptor) Read(buffer []byte) (int, error) {
	readCount, err := unix.Read(d.fd, buffer)
	if readCount < 0 {
		readCount = 0
	}
	return readCount, err
}

// Write writes buffer with a single write(2) call. Partial writes are
// normal; the caller loops.
func (d *FileDescriptor) Write(buffer []byte) (int, error) {
	writeCount, err := unix.Write(d.fd, buffer)
	if writeCount < 0 {
		writeCount = 0
	}
	return writeCount, err
}

// Nonblocking reports whether O_NONBLOCK is set on the descriptor.
func (d *FileDescriptor) Nonblocking() (bool, error) {
	flags, err := unix.FcntlInt(uintptr(d.fd), unix.F_GETFL, 0)
	if err != nil {
		return false, err
	}
	return flags&unix.O_NONBLOCK != 0, nil
}

// ClearNonblocking clears O_NONBLOCK on the descriptor. The other status
// flags are preserved.
func (d *FileDescriptor) ClearNonblocking() error {
	flags, err := unix.FcntlInt(uintptr(d.fd), unix.F_GETFL, 0)
	if err != nil {
		return err
	}
	_, err = unix.FcntlInt(uintptr(d.fd), unix.F_SETFL, flags&^unix.O_NONBLOCK)
	return err
}
