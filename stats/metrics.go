package stats

import (
	"fmt"
	"time"
)

// MinElapsed is the smallest elapsed time used as a rate denominator. A
// single-message throughput run measures nothing after its first message and
// may report a zero window.
const MinElapsed = time.Microsecond

const (
	mebibyte = 1024 * 1024
	megabit  = 1000 * 1000
)

func elapsedMicros(d time.Duration) float64 {
	if d < MinElapsed {
		d = MinElapsed
	}
	return float64(d) / float64(time.Microsecond)
}

// Latency is derived from a timed sequence of request/reply round trips.
type Latency struct {
	RoundTrips int
	Elapsed    time.Duration
	// AverageUs is the one-way latency in microseconds: half a round trip.
	AverageUs float64
	// MessageRate is round trips per second.
	MessageRate float64
}

func NewLatency(roundTrips int, elapsed time.Duration) Latency {
	us := elapsedMicros(elapsed)
	return Latency{
		RoundTrips:  roundTrips,
		Elapsed:     elapsed,
		AverageUs:   us / float64(roundTrips*2),
		MessageRate: float64(roundTrips) * 1e6 / us,
	}
}

func (l Latency) String() string {
	return fmt.Sprintf("avg %.3f us, %.0f msg/s over %d roundtrips", l.AverageUs, l.MessageRate, l.RoundTrips)
}

// Throughput is derived from a one-way stream of Messages messages of
// MessageSize bytes whose window starts after the first message.
type Throughput struct {
	Messages    int
	MessageSize int
	Elapsed     time.Duration
	ElapsedSec  float64
	MsgsPerSec  float64
	Mbps        float64
	// TotalMB counts every message, the first included, in MiB.
	TotalMB float64
}

func NewThroughput(messages, messageSize int, elapsed time.Duration) Throughput {
	sec := elapsedMicros(elapsed) / 1e6
	msgs := float64(messages-1) / sec
	return Throughput{
		Messages:    messages,
		MessageSize: messageSize,
		Elapsed:     elapsed,
		ElapsedSec:  sec,
		MsgsPerSec:  msgs,
		Mbps:        msgs * float64(messageSize) * 8 / megabit,
		TotalMB:     TotalMB(messages, messageSize),
	}
}

func (t Throughput) String() string {
	return fmt.Sprintf("%.0f msg/s, %.3f Mb/s over %d messages of %d bytes", t.MsgsPerSec, t.Mbps, t.Messages, t.MessageSize)
}

// TotalMB is the data volume of count messages in MiB.
func TotalMB(count, messageSize int) float64 {
	return float64(messageSize) * float64(count) / mebibyte
}
