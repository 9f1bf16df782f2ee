// Copyright 2026 The Packstream Authors
// SPDX-License-Identifier: Apache-2.0

// packstream compresses and decompresses files through a fixed-capacity
// buffer layer over raw file descriptors. It produces gzip, zstd, or
// lz4 containers, processes files one at a time in place (original
// removed on success), and reads default options from the PACKSTREAM
// environment variable and an optional YAML config file.
//
// Exit status: 0 on success, 1 on error, 2 when the only problems were
// warnings (e.g. the output pipe's reader went away).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/packstream/packstream/lib/codec"
	"github.com/packstream/packstream/lib/envargs"
	"github.com/packstream/packstream/lib/streamio"
	"github.com/packstream/packstream/lib/toolconfig"
)

const programName = "packstream"

const version = "0.3.0"

// optionsVar is the environment variable whose contents are prepended
// to the command line as extra options.
const optionsVar = "PACKSTREAM"

// Exit statuses. Warnings are non-fatal only in the exit-code sense.
const (
	exitOK      = 0
	exitError   = 1
	exitWarning = 2
)

func main() {
	os.Exit(run())
}

// options is the merged result of the config file, the environment
// options variable, and the command line.
type options struct {
	toStdout   bool
	decompress bool
	keep       bool
	test       bool
	quiet      bool
	force      bool
	verbose    bool
	level      int
	format     codec.Format
	suffix     string

	logger *slog.Logger
}

func run() int {
	flagSet := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	toStdout := flagSet.BoolP("stdout", "c", false, "write to standard output, keep input files")
	decompress := flagSet.BoolP("decompress", "d", false, "decompress instead of compress")
	keep := flagSet.BoolP("keep", "k", false, "keep input files after processing")
	test := flagSet.BoolP("test", "t", false, "check integrity without writing any output")
	quiet := flagSet.BoolP("quiet", "q", false, "suppress warning diagnostics")
	force := flagSet.BoolP("force", "f", false, "force writing to a terminal and copying unrecognized data")
	verbose := flagSet.BoolP("verbose", "v", false, "report the name and reduction of each processed file")
	level := flagSet.IntP("level", "l", 0, "compression level 1 (fastest) to 9 (best)")
	formatName := flagSet.String("format", "", "compression format: gzip, zstd, or lz4")
	suffix := flagSet.StringP("suffix", "S", "", "use this suffix on compressed files instead of the format default")
	configPath := flagSet.String("config", "", "path to the defaults file")
	showVersion := flagSet.Bool("version", false, "print the version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	// Options from the environment variable come first, so the real
	// command line overrides them. Non-option words in the variable are
	// rejected: the environment can set defaults, not name files.
	if envLine, ok := envargs.Expand(optionsVar, os.Args); ok {
		if err := flagSet.Parse(envLine[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", programName, optionsVar, err)
			return exitError
		}
		if len(flagSet.Args()) > 0 {
			fmt.Fprintf(os.Stderr, "%s: %s: non-option in environment variable: %q\n",
				programName, optionsVar, flagSet.Args()[0])
			return exitError
		}
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		return exitError
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return exitOK
	}
	if *showVersion {
		fmt.Printf("%s %s\n", programName, version)
		return exitOK
	}

	config, err := toolconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		return exitError
	}

	opts := options{
		toStdout:   *toStdout,
		decompress: *decompress,
		keep:       *keep || config.Keep,
		test:       *test,
		quiet:      *quiet || config.Quiet,
		force:      *force,
		verbose:    *verbose,
		level:      *level,
		logger:     newLogger(*verbose),
	}

	// Flags beat the config file; the config file beats built-ins.
	name := *formatName
	if name == "" {
		name = config.Format
	}
	if name == "" {
		opts.format = codec.FormatGzip
	} else {
		format, err := codec.ParseFormat(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
			return exitError
		}
		opts.format = format
	}
	if opts.level == 0 {
		opts.level = config.Level
	}
	if opts.level == 0 {
		opts.level = codec.DefaultLevel
	}
	if opts.level < codec.MinLevel || opts.level > codec.MaxLevel {
		fmt.Fprintf(os.Stderr, "%s: compression level %d out of range %d..%d\n",
			programName, opts.level, codec.MinLevel, codec.MaxLevel)
		return exitError
	}
	opts.suffix = *suffix
	if opts.suffix == "" {
		opts.suffix = config.Suffix
	}
	if opts.suffix == "" {
		opts.suffix = opts.format.Suffix()
	}
	if opts.suffix[0] != '.' {
		fmt.Fprintf(os.Stderr, "%s: suffix %q must start with a dot\n", programName, opts.suffix)
		return exitError
	}

	// Testing implies reading only; route nominal output to stdout so
	// no file paths are computed or created.
	if opts.test {
		opts.decompress = true
		opts.toStdout = true
	}

	files := flagSet.Args()
	if len(files) == 0 {
		files = []string{"-"}
		opts.toStdout = true
	}

	// A signal mid-file must not leave a partial output behind.
	partials := newPartialRegistry()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-signals
		partials.removeAll()
		os.Exit(exitError)
	}()

	exit := exitOK
	for _, file := range files {
		if status := processFile(&opts, partials, file); status > exit {
			exit = status
		}
	}
	return exit
}

// newLogger builds the structured logger for --verbose tracing: text
// for terminals, JSON when stderr is redirected.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handlerOptions := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, handlerOptions)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, handlerOptions)
	}
	return slog.New(handler)
}

// reportFailure renders a stream failure to stderr (unless quiet mode
// suppresses it) and returns the exit status for its severity.
func reportFailure(failure *streamio.Failure, quiet bool) int {
	if diagnostic, show := failure.Diagnostic(programName, quiet); show {
		fmt.Fprintln(os.Stderr, diagnostic)
	}
	if failure.Severity() == streamio.SeverityWarning {
		return exitWarning
	}
	return exitError
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Printf("usage: %s [options] [files...]\n\n"+
		"Compress or decompress files in place. With no files, or with -, \n"+
		"filters standard input to standard output.\n\noptions:\n%s",
		programName, flagSet.FlagUsages())
}
