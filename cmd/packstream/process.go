// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/packstream/packstream/lib/fileutil"
	"github.com/packstream/packstream/lib/member"
	"github.com/packstream/packstream/lib/streamio"
)

// partialRegistry tracks output files that exist but are not yet
// complete, so the signal handler can remove them on interrupt.
type partialRegistry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func newPartialRegistry() *partialRegistry {
	return &partialRegistry{paths: make(map[string]struct{})}
}

func (r *partialRegistry) add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[path] = struct{}{}
}

func (r *partialRegistry) done(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.paths, path)
}

func (r *partialRegistry) removeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for path := range r.paths {
		os.Remove(path)
	}
}

// processFile runs one file through the pipeline and returns its exit
// status. "-" names standard input.
func processFile(opts *options, partials *partialRegistry, file string) int {
	useStdin := file == "-"

	var (
		input       *os.File
		inputName   string
		inputInfo   os.FileInfo
		memberName  string
		memberMTime time.Time
	)
	if useStdin {
		input = os.Stdin
		inputName = "stdin"
	} else {
		info, err := os.Lstat(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", programName, file, err)
			return exitError
		}
		if info.IsDir() {
			if !opts.quiet {
				fmt.Fprintf(os.Stderr, "%s: %s is a directory -- ignored\n", programName, file)
			}
			return exitWarning
		}
		if !info.Mode().IsRegular() {
			if !opts.quiet {
				fmt.Fprintf(os.Stderr, "%s: %s is not a regular file -- ignored\n", programName, file)
			}
			return exitWarning
		}
		input, err = os.Open(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", programName, file, err)
			return exitError
		}
		defer input.Close()
		inputName = file
		inputInfo = info
		memberName = fileutil.BaseName(file)
		memberMTime = info.ModTime()
	}

	// Standard input always filters to standard output, even when "-"
	// is named explicitly among real files.
	toStdout := opts.toStdout || useStdin

	// Decide where output goes before opening anything.
	var outputPath string
	if !toStdout {
		path, err := outputName(file, opts.decompress, opts.suffix)
		if err != nil {
			if !opts.quiet {
				fmt.Fprintf(os.Stderr, "%s: %s: %v\n", programName, file, err)
			}
			return exitWarning
		}
		outputPath = path
	}

	var (
		output     *os.File
		outputDesc string
	)
	switch {
	case opts.test:
		// Dry run: the stream accounts bytes but never writes, so the
		// output descriptor is never touched. Stdout stands in as a
		// placeholder.
		output = os.Stdout
		outputDesc = "stdout"
	case toStdout:
		output = os.Stdout
		outputDesc = "stdout"
		if !opts.decompress && !opts.force && term.IsTerminal(int(output.Fd())) {
			fmt.Fprintf(os.Stderr,
				"%s: compressed data not written to a terminal. Use -f to force compression.\n",
				programName)
			return exitError
		}
	default:
		if !opts.force {
			if _, err := os.Lstat(outputPath); err == nil {
				fmt.Fprintf(os.Stderr, "%s: %s already exists; use -f to overwrite\n",
					programName, outputPath)
				return exitError
			}
		}
		created, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputMode(inputInfo))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", programName, outputPath, err)
			return exitError
		}
		output = created
		outputDesc = outputPath
		partials.add(outputPath)
		defer partials.done(outputPath)
	}

	stream := streamio.New(streamio.Config{
		Input:      streamio.DescriptorFor(input),
		Output:     streamio.DescriptorFor(output),
		InputName:  inputName,
		OutputName: outputDesc,
		DryRun:     opts.test,
	})

	status := runPipeline(opts, stream, toStdout, memberName, memberMTime)

	if output != os.Stdout {
		if closeErr := output.Close(); closeErr != nil && status == exitOK {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", programName, outputPath, closeErr)
			status = exitError
		}
		if status == exitError {
			// Never leave a partial or corrupt output behind.
			os.Remove(outputPath)
		}
	}
	if status == exitError || status == exitWarning && opts.test {
		return status
	}

	if opts.verbose {
		reportResult(opts, inputName, outputDesc, stream)
	}
	opts.logger.Debug("processed",
		"file", inputName,
		"output", outputDesc,
		"bytes_in", stream.BytesIn(),
		"bytes_out", stream.BytesOut())

	// Replace the input with the output: remove the original unless
	// asked to keep it or it was never consumed destructively.
	if !useStdin && !toStdout && !opts.keep {
		input.Close()
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", programName, file, err)
			return exitError
		}
	}
	return status
}

// runPipeline drives the member codec over the stream and maps every
// outcome onto an exit status.
func runPipeline(opts *options, stream *streamio.Stream, toStdout bool, memberName string, memberMTime time.Time) int {
	if opts.decompress {
		result, err := member.Decompress(stream)
		if err != nil {
			if errors.Is(err, member.ErrUnknownFormat) {
				return handleUnknownFormat(opts, stream, toStdout)
			}
			return failureStatus(opts, stream, err)
		}
		if result.TrailingGarbage {
			if !opts.quiet {
				fmt.Fprintf(os.Stderr, "%s: %s: decompression OK, trailing garbage ignored\n",
					programName, stream.InputName())
			}
			return exitWarning
		}
		if opts.test && opts.verbose {
			fmt.Fprintf(os.Stderr, "%s: %s: OK\n", programName, stream.InputName())
		}
		return exitOK
	}

	err := member.Compress(stream, member.CompressOptions{
		Format:  opts.format,
		Level:   opts.level,
		Name:    memberName,
		ModTime: memberMTime,
	})
	if err != nil {
		return failureStatus(opts, stream, err)
	}
	return exitOK
}

// handleUnknownFormat decides what to do with input that is not in any
// supported format: forward it unchanged when forced to stdout (the
// detection bytes were pushed back), otherwise fail.
func handleUnknownFormat(opts *options, stream *streamio.Stream, toStdout bool) int {
	if opts.force && toStdout && !opts.test {
		if err := stream.Copy(); err != nil {
			return failureStatus(opts, stream, err)
		}
		return exitOK
	}
	failure := streamio.GenericFailure(stream.InputName(), "not in a supported format")
	return failureStatus(opts, stream, failure)
}

// failureStatus renders a pipeline error and converts it to an exit
// status. Errors that are not typed failures become generic fatals.
func failureStatus(opts *options, stream *streamio.Stream, err error) int {
	var failure *streamio.Failure
	if !errors.As(err, &failure) {
		failure = streamio.GenericFailure(stream.InputName(), err.Error())
	}
	return reportFailure(failure, opts.quiet)
}

// reportResult prints the per-file verbose line with the space saved
// (compression) or expansion recovered (decompression).
func reportResult(opts *options, inputName, outputDesc string, stream *streamio.Stream) {
	var ratio string
	if opts.decompress {
		ratio = fileutil.Ratio(stream.BytesOut()-stream.BytesIn(), stream.BytesOut())
	} else {
		ratio = fileutil.Ratio(stream.BytesIn()-stream.BytesOut(), stream.BytesIn())
	}
	fmt.Fprintf(os.Stderr, "%s:\t%s -- %s\n", inputName, ratio, outputDesc)
}

// outputMode carries the input file's permission bits onto the output,
// defaulting sensibly for stdin.
func outputMode(info os.FileInfo) os.FileMode {
	if info == nil {
		return 0o644
	}
	return info.Mode().Perm()
}
