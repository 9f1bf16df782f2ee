// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package streamio

// Default buffer capacities. Sized once at stream construction; the
// values match the classic compressor layout of a large input buffer, a
// smaller compressed-output buffer, and a window-sized decompressed
// buffer.
const (
	DefaultInputCapacity  = 0x8000
	DefaultOutputCapacity = 0x4000
	DefaultWindowCapacity = 0x8000
)

// Config describes one stream. Input and Output are open descriptors
// this layer neither opens nor closes. InputName and OutputName are
// display names used only in diagnostics.
type Config struct {
	Input  Descriptor
	Output Descriptor

	InputName  string
	OutputName string

	// DryRun suppresses actual writes; byte accounting still proceeds
	// as if every write happened.
	DryRun bool

	// Capacities; zero means the package default.
	InputCapacity  int
	OutputCapacity int
	WindowCapacity int
}

// Stream owns the buffer layer for one active file: the input buffer,
// both output drains, the CRC register, and the byte counters. One
// Stream serves one file at a time with no internal locking; concurrent
// use requires external synchronization, which the surrounding tool
// never needs because it processes files sequentially.
type Stream struct {
	input      Descriptor
	output     Descriptor
	inputName  string
	outputName string
	dryRun     bool

	in     InputBuffer
	out    Drain
	window WindowDrain
	crc    CRC

	bytesIn  int64
	bytesOut int64
}

// New builds a Stream from the config, sizing all three buffers.
func New(config Config) *Stream {
	inputCapacity := config.InputCapacity
	if inputCapacity == 0 {
		inputCapacity = DefaultInputCapacity
	}
	outputCapacity := config.OutputCapacity
	if outputCapacity == 0 {
		outputCapacity = DefaultOutputCapacity
	}
	windowCapacity := config.WindowCapacity
	if windowCapacity == 0 {
		windowCapacity = DefaultWindowCapacity
	}

	stream := &Stream{
		input:      config.Input,
		output:     config.Output,
		inputName:  config.InputName,
		outputName: config.OutputName,
		dryRun:     config.DryRun,
	}
	stream.in = InputBuffer{stream: stream, cursor: NewCursor(inputCapacity)}
	stream.out = Drain{stream: stream, cursor: NewCursor(outputCapacity)}
	stream.window = WindowDrain{stream: stream, cursor: NewCursor(windowCapacity)}
	return stream
}

// Input returns the stream's input buffer.
func (s *Stream) Input() *InputBuffer { return &s.in }

// Out returns the compressed-output drain.
func (s *Stream) Out() *Drain { return &s.out }

// Window returns the decompressed-output drain.
func (s *Stream) Window() *WindowDrain { return &s.window }

// CRC returns the stream's checksum register. The register is never
// reset implicitly; callers reset it at the start of each member.
func (s *Stream) CRC() *CRC { return &s.crc }

// BytesIn returns the total bytes refilled from the input descriptor
// since the last Reset.
func (s *Stream) BytesIn() int64 { return s.bytesIn }

// BytesOut returns the total bytes accounted to the output descriptor
// since the last Reset (dry-run writes included).
func (s *Stream) BytesOut() int64 { return s.bytesOut }

// InputName returns the diagnostic display name of the input file.
func (s *Stream) InputName() string { return s.inputName }

// OutputName returns the diagnostic display name of the output file.
func (s *Stream) OutputName() string { return s.outputName }

// Reset is the explicit between-members reinitialization: it empties all
// three buffers and zeroes both byte counters. The CRC register is not
// touched — resetting it is the member codec's explicit job.
func (s *Stream) Reset() {
	s.in.cursor.Reset()
	s.out.cursor.Reset()
	s.window.cursor.Reset()
	s.bytesIn = 0
	s.bytesOut = 0
}

// Copy passes the remaining input through to the output unchanged,
// starting with whatever is already buffered. Used when the tool is
// asked to forward data it is not transforming.
func (s *Stream) Copy() error {
	for s.in.cursor.Buffered() > 0 {
		if err := s.writeFully(s.in.cursor.Consume(s.in.cursor.Buffered())); err != nil {
			return err
		}
		s.in.cursor.Reset()
		for !s.in.cursor.Full() {
			readCount, err := BoundedRead(s.input, s.in.cursor.free())
			if err != nil {
				return ReadFailure(s.inputName, err)
			}
			if readCount == 0 {
				break
			}
			if growErr := s.in.cursor.grow(readCount); growErr != nil {
				return GenericFailure(s.inputName, growErr.Error())
			}
		}
		s.bytesIn += int64(s.in.cursor.Len())
	}
	return nil
}

// writeFully is the full-write primitive behind both drains: account the
// byte count unconditionally, then (unless dry-run) loop bounded writes
// until everything is transferred. Partial writes of any size are
// tolerated, a zero-byte success included — the loop requires only
// non-negative progress. A hard error escalates immediately with no
// local retry.
func (s *Stream) writeFully(buffer []byte) error {
	s.bytesOut += int64(len(buffer))
	if s.dryRun {
		return nil
	}
	for len(buffer) > 0 {
		writeCount, err := BoundedWrite(s.output, buffer)
		if err != nil {
			return writeFailure(s.outputName, err)
		}
		buffer = buffer[writeCount:]
	}
	return nil
}
