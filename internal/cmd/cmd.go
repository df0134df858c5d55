// Package cmd runs one measurement program from its command line to its
// exit status.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/microsoft/msgperf/bench"
	"github.com/microsoft/msgperf/config"
	"github.com/microsoft/msgperf/log"
	"github.com/microsoft/msgperf/msgperf"
	"github.com/microsoft/msgperf/stats"
	"github.com/microsoft/msgperf/transport"
	"github.com/microsoft/msgperf/ui"
)

type socket interface {
	bench.Socket
	Addr() string
	Close() error
}

// openSocket binds local programs and connects remote ones.
var openSocket = func(ctx context.Context, p msgperf.Program, address string, opts transport.Options) (socket, error) {
	switch p {
	case msgperf.LocalLatency:
		return transport.Bind(ctx, transport.Rep, address, opts)
	case msgperf.RemoteLatency:
		return transport.Connect(ctx, transport.Req, address, opts)
	case msgperf.LocalThroughput:
		return transport.Bind(ctx, transport.Pull, address, opts)
	case msgperf.RemoteThroughput:
		return transport.Connect(ctx, transport.Push, address, opts)
	}
	return nil, fmt.Errorf("unknown program %s", p)
}

// Main returns the process exit status: 0 on success, 1 on any error.
func Main(program msgperf.Program, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(program, args, stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, config.ErrArgCount):
		return 1
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	err = run(cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var errAborted = errors.New("aborted by user")

func run(cfg *config.Config, stdout, stderr io.Writer) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tui *ui.Tui
	if cfg.ShowUI {
		var err error
		title := fmt.Sprintf("msgperf %s (Version: %s)", cfg.Program, config.Version)
		tui, err = ui.NewTui(title, cfg.Program, cfg.Params)
		if err != nil {
			return err
		}
		defer tui.Close()
	}

	logger, closeLogs, err := newLogger(ctx, cfg, stderr, tui)
	if err != nil {
		return err
	}
	defer closeLogs()

	console := ui.NewConsole(stdout)
	sock, err := openSocket(ctx, cfg.Program, cfg.Params.Address, cfg.Transport)
	if err != nil {
		logger.Error("unable to open %s: %v", cfg.Params.Address, err)
		logger.TestResult(cfg.Program, false, cfg.Params.Address, err.Error())
		return err
	}
	defer sock.Close()
	logger.Debug("%s socket ready on %s", cfg.Program, sock.Addr())

	x := newExchange(cfg)
	var aborted atomic.Bool
	if tui != nil {
		x.Observer = tui
		go func() {
			select {
			case <-tui.Aborted():
				aborted.Store(true)
				sock.Close()
			case <-ctx.Done():
			}
		}()
	} else {
		x.Observer = console
		console.Banner(cfg.Program, cfg.Params)
	}

	before, hostErr := stats.SampleHost()
	report, err := x.Run(sock)
	if tui != nil {
		tui.Close()
	}
	if aborted.Load() {
		err = errAborted
	}
	if err != nil {
		logger.Error("%s failed: %v", cfg.Program, err)
		logger.TestResult(cfg.Program, false, cfg.Params.Address, err.Error())
		return err
	}

	var details interface{}
	switch cfg.Program {
	case msgperf.LocalLatency:
		console.EchoSummary(report.Count)
		details = fmt.Sprintf("echoed %d roundtrips of %d bytes", report.Count, report.MessageSize)
	case msgperf.RemoteLatency:
		lat := report.Latency()
		console.Latency(lat)
		details = lat
	case msgperf.LocalThroughput:
		tp := report.Throughput()
		console.Throughput(tp)
		details = tp
	case msgperf.RemoteThroughput:
		console.SendSummary(report.Count, report.TotalMB())
		details = fmt.Sprintf("sent %d messages of %d bytes", report.Count, report.MessageSize)
	}
	logger.Info("%s completed in %s", cfg.Program, ui.DurationToString(report.Elapsed))
	if hostErr == nil && cfg.LogLevel == log.LevelDebug {
		after, err := stats.SampleHost()
		if err == nil {
			logHostCounters(logger, after.Sub(before))
		}
	}
	logger.TestResult(cfg.Program, true, cfg.Params.Address, details)
	return nil
}

func newExchange(cfg *config.Config) *bench.Exchange {
	p := cfg.Params
	switch cfg.Program {
	case msgperf.LocalLatency:
		return bench.EchoServer(p.MessageSize, p.Count)
	case msgperf.RemoteLatency:
		return bench.LatencyClient(p.MessageSize, p.Count)
	case msgperf.LocalThroughput:
		return bench.ThroughputReceiver(p.MessageSize, p.Count)
	}
	x := bench.ThroughputSender(p.MessageSize, p.Count)
	x.Settle = cfg.Settle
	x.Linger = cfg.Linger
	return x
}

// newLogger assembles the diagnostics loggers: debug text on stderr, the
// progress view when it is open, and the JSON file when one is given.
func newLogger(ctx context.Context, cfg *config.Config, stderr io.Writer, tui *ui.Tui) (msgperf.Logger, func(), error) {
	var (
		loggers []msgperf.Logger
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if tui != nil {
		l := log.NewTuiLogger(cfg.LogLevel, tui)
		l.Init(ctx)
		loggers = append(loggers, l)
	} else if cfg.LogLevel == log.LevelDebug {
		l := log.NewTextLogger(stderr, cfg.LogLevel)
		l.Init(ctx)
		loggers = append(loggers, l)
		closers = append(closers, l.Close)
	}

	if cfg.OutputFile != "" {
		l, err := log.NewJSONLogger(cfg.OutputFile, cfg.LogLevel, 64)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		l.Init(ctx)
		loggers = append(loggers, l)
		closers = append(closers, func() { _ = l.Close() })
	}

	if len(loggers) == 0 {
		return log.Nop{}, closeAll, nil
	}
	return log.NewAggregateLogger(loggers...), closeAll, nil
}

func logHostCounters(logger msgperf.Logger, d stats.HostSample) {
	logger.Debug("tcp segments retransmitted during run: %d", d.TCPRetransmits)
	for _, dev := range d.Devices {
		if dev.RXPackets == 0 && dev.TXPackets == 0 {
			continue
		}
		logger.Debug("%s: rx %sB in %s packets, tx %sB in %s packets", dev.Name,
			ui.NumberToUnit(dev.RXBytes), ui.NumberToUnit(dev.RXPackets),
			ui.NumberToUnit(dev.TXBytes), ui.NumberToUnit(dev.TXPackets))
	}
}
