// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

import "slices"

// readStep is one scripted result from a fake descriptor's read side:
// either data or an error.
type readStep struct {
	data []byte
	err  error
}

// fakeDescriptor scripts reads and records writes. An exhausted read
// script reports source exhaustion (0, nil). writeQuota limits how many
// bytes each successive write call accepts, simulating partial writes;
// an empty quota accepts everything. writeErr, when set, fails every
// write call once the quota is used up (or immediately with no quota).
type fakeDescriptor struct {
	reads      []readStep
	writes     [][]byte
	writeQuota []int
	writeErr   error
}

func (d *fakeDescriptor) Read(destination []byte) (int, error) {
	if len(d.reads) == 0 {
		return 0, nil
	}
	step := d.reads[0]
	d.reads = d.reads[1:]
	if step.err != nil {
		return 0, step.err
	}
	copied := copy(destination, step.data)
	if copied < len(step.data) {
		// Keep the remainder for the next read call.
		d.reads = append([]readStep{{data: step.data[copied:]}}, d.reads...)
	}
	return copied, nil
}

func (d *fakeDescriptor) Write(source []byte) (int, error) {
	if len(d.writeQuota) == 0 && d.writeErr != nil {
		return 0, d.writeErr
	}
	accepted := len(source)
	if len(d.writeQuota) > 0 {
		if d.writeQuota[0] < accepted {
			accepted = d.writeQuota[0]
		}
		d.writeQuota = d.writeQuota[1:]
	}
	d.writes = append(d.writes, slices.Clone(source[:accepted]))
	return accepted, nil
}

// written concatenates everything the descriptor accepted.
func (d *fakeDescriptor) written() []byte {
	var all []byte
	for _, chunk := range d.writes {
		all = append(all, chunk...)
	}
	return all
}

// blockingDescriptor adds scripted BlockingControl behavior on top of
// the fake descriptor.
type blockingDescriptor struct {
	fakeDescriptor
	nonblocking bool
	flagErr     error
	clearErr    error
	clearCalls  int
}

func (d *blockingDescriptor) Nonblocking() (bool, error) {
	return d.nonblocking, d.flagErr
}

func (d *blockingDescriptor) ClearNonblocking() error {
	if d.clearErr != nil {
		return d.clearErr
	}
	d.nonblocking = false
	d.clearCalls++
	return nil
}

// newTestStream builds a stream over fake descriptors with small
// capacities, returning the fakes for inspection.
func newTestStream(input *fakeDescriptor, output *fakeDescriptor, dryRun bool, capacity int) *Stream {
	return New(Config{
		Input:          input,
		Output:         output,
		InputName:      "in.txt",
		OutputName:     "out.txt",
		DryRun:         dryRun,
		InputCapacity:  capacity,
		OutputCapacity: capacity,
		WindowCapacity: capacity,
	})
}
