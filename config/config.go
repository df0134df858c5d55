package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/microsoft/msgperf/bench"
	"github.com/microsoft/msgperf/log"
	"github.com/microsoft/msgperf/msgperf"
	"github.com/microsoft/msgperf/transport"
	"github.com/microsoft/msgperf/ui"
)

var Version = "UNKNOWN"

var (
	ErrArgCount      = errors.New("wrong number of arguments")
	ErrNotPositive   = errors.New("must be positive")
	ErrInvalidNumber = errors.New("invalid number")
)

// Config is everything one program run needs, resolved from defaults, the
// optional options file and the command line, in increasing precedence.
type Config struct {
	Program   msgperf.Program
	Params    msgperf.Params
	Transport transport.Options

	// Sender only.
	Settle time.Duration
	Linger time.Duration

	OutputFile string
	LogLevel   log.LogLevel
	ShowUI     bool
}

// Parse reads "[flags] <address> <message_size> <count>". Usage is written
// to stderr when the command line cannot be used.
func Parse(program msgperf.Program, args []string, stderr io.Writer) (*Config, error) {
	fs := flag.NewFlagSet(program.String(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		outputFile = fs.String("o", "", "")
		debug      = fs.Bool("debug", false, "")
		showUI     = fs.Bool("ui", false, "")
		optsFile   = fs.String("config", "", "")
		tos        = fs.Int("tos", 0, "")
		sndbuf     = fs.String("sndbuf", "", "")
		rcvbuf     = fs.String("rcvbuf", "", "")
		maxmsg     = fs.String("maxmsg", "", "")
	)
	var settle, linger *time.Duration
	if program == msgperf.RemoteThroughput {
		settle = fs.Duration("settle", bench.DefaultSettle, "")
		linger = fs.Duration("linger", bench.DefaultLinger, "")
	}

	err := fs.Parse(args)
	if err != nil {
		Usage(stderr, program)
		return nil, err
	}
	if fs.NArg() != 3 {
		Usage(stderr, program)
		return nil, fmt.Errorf("%w: expected 3, got %d", ErrArgCount, fs.NArg())
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := &Config{
		Program:   program,
		Transport: transport.DefaultOptions(),
		LogLevel:  log.LevelInfo,
	}
	if program == msgperf.RemoteThroughput {
		cfg.Settle = bench.DefaultSettle
		cfg.Linger = bench.DefaultLinger
	}

	if *optsFile != "" {
		f, err := LoadFile(*optsFile)
		if err != nil {
			return nil, err
		}
		err = f.apply(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", *optsFile, err)
		}
	}

	if set["o"] {
		cfg.OutputFile = *outputFile
	}
	if *debug {
		cfg.LogLevel = log.LevelDebug
	}
	cfg.ShowUI = *showUI
	if set["tos"] {
		cfg.Transport.TOS = *tos
	}
	for _, b := range []struct {
		name string
		raw  string
		dst  *int
	}{
		{"sndbuf", *sndbuf, &cfg.Transport.SendBuffer},
		{"rcvbuf", *rcvbuf, &cfg.Transport.RecvBuffer},
		{"maxmsg", *maxmsg, &cfg.Transport.MaxMessageSize},
	} {
		if !set[b.name] {
			continue
		}
		v := ui.UnitToNumber(b.raw)
		if v == 0 {
			return nil, fmt.Errorf("invalid -%s value %q: %w", b.name, b.raw, ErrInvalidNumber)
		}
		*b.dst = int(v)
	}
	if set["settle"] {
		cfg.Settle = *settle
	}
	if set["linger"] {
		cfg.Linger = *linger
	}

	if cfg.Transport.TOS < 0 || cfg.Transport.TOS > 255 {
		return nil, fmt.Errorf("invalid tos %d: must be between 0 and 255", cfg.Transport.TOS)
	}
	if cfg.Settle < 0 || cfg.Linger < 0 {
		return nil, errors.New("settle and linger must not be negative")
	}

	cfg.Params, err = parseParams(program, fs.Args())
	if err != nil {
		Usage(stderr, program)
		return nil, err
	}
	if cfg.Params.MessageSize > cfg.Transport.MaxMessageSize {
		return nil, fmt.Errorf("message_size %d exceeds the maximum message size %d",
			cfg.Params.MessageSize, cfg.Transport.MaxMessageSize)
	}
	return cfg, nil
}

func parseParams(program msgperf.Program, args []string) (msgperf.Params, error) {
	p := msgperf.Params{Address: args[0]}
	notPositive := fmt.Errorf("message_size and %s %w", program.CountName(), ErrNotPositive)

	size := ui.UnitToNumber(args[1])
	if size == 0 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64); err == nil {
			return p, notPositive
		}
		return p, fmt.Errorf("invalid message_size %q: %w", args[1], ErrInvalidNumber)
	}
	if size > uint64(maxInt) {
		return p, fmt.Errorf("invalid message_size %q: %w", args[1], ErrInvalidNumber)
	}

	count, err := strconv.Atoi(strings.TrimSpace(args[2]))
	if err != nil {
		return p, fmt.Errorf("invalid %s %q: %w", program.CountName(), args[2], ErrInvalidNumber)
	}
	if count <= 0 {
		return p, notPositive
	}

	p.MessageSize = int(size)
	p.Count = count
	return p, nil
}

const maxInt = int(^uint(0) >> 1)
