package ui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/microsoft/msgperf/bench"
	"github.com/microsoft/msgperf/msgperf"
	"github.com/microsoft/msgperf/stats"
)

// Console prints status lines, progress and results as plain text. It is the
// default bench.Observer.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Observe(e bench.Event) {
	switch e.Kind {
	case bench.MeasurementStarted:
		if e.Discipline != bench.OneWay {
			return
		}
		if e.Role == bench.Passive {
			fmt.Fprintln(c.out, "First message received. Starting measurement...")
		} else {
			fmt.Fprintln(c.out, "Sending messages...")
		}
	case bench.Progress:
		fmt.Fprintf(c.out, "Progress: %d%% (%d/%d)\n", e.Percent, e.Done, e.Total)
	}
}

// Banner describes the session once the socket is open.
func (c *Console) Banner(p msgperf.Program, params msgperf.Params) {
	if p.IsLocal() {
		fmt.Fprintf(c.out, "Listening on %s\n", params.Address)
	} else {
		fmt.Fprintf(c.out, "Connected to %s\n", params.Address)
	}
	fmt.Fprintf(c.out, "Message size: %d bytes\n", params.MessageSize)
	if p.IsLatency() {
		fmt.Fprintf(c.out, "Roundtrip count: %d\n", params.Count)
	} else {
		fmt.Fprintf(c.out, "Message count: %d\n", params.Count)
	}
	if p.IsLocal() {
		fmt.Fprintln(c.out, "Waiting for messages...")
	}
}

func (c *Console) Latency(l stats.Latency) {
	fmt.Fprintln(c.out, "\n=== Latency Test Results ===")
	fmt.Fprintf(c.out, "Average latency: %s us\n", FormatFloat(l.AverageUs))
	fmt.Fprintf(c.out, "Total elapsed time: %d us\n", l.Elapsed/time.Microsecond)
	fmt.Fprintf(c.out, "Message rate: %s msg/s\n", FormatFloat(l.MessageRate))
}

func (c *Console) Throughput(t stats.Throughput) {
	fmt.Fprintln(c.out, "\n=== Throughput Test Results ===")
	fmt.Fprintf(c.out, "Received: %d messages\n", t.Messages)
	fmt.Fprintf(c.out, "Message size: %d bytes\n", t.MessageSize)
	fmt.Fprintf(c.out, "Total data: %s MB\n", FormatFloat(t.TotalMB))
	fmt.Fprintf(c.out, "Elapsed time: %s seconds\n", FormatFloat(t.ElapsedSec))
	fmt.Fprintf(c.out, "Throughput: %s msg/s\n", FormatFloat(t.MsgsPerSec))
	fmt.Fprintf(c.out, "Throughput: %s Mb/s\n", FormatFloat(t.Mbps))
}

func (c *Console) EchoSummary(roundTrips int) {
	fmt.Fprintf(c.out, "\nCompleted %d roundtrips.\n", roundTrips)
}

func (c *Console) SendSummary(messages int, totalMB float64) {
	fmt.Fprintf(c.out, "\nSent %d messages successfully.\n", messages)
	fmt.Fprintf(c.out, "Total data sent: %s MB\n", FormatFloat(totalMB))
}

// FormatFloat renders v with six significant digits and no trailing zeros.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
