package bench

import (
	"time"

	"github.com/microsoft/msgperf/msgperf"
	"github.com/microsoft/msgperf/stats"
)

// Socket is the transport collaborator: a blocking, message-preserving pipe
// to a single peer.
type Socket interface {
	Send([]byte) error
	Recv() ([]byte, error)
}

type Role int

const (
	// Passive endpoints bind and answer or count.
	Passive Role = iota
	// Active endpoints connect and drive the exchange.
	Active
)

func (r Role) String() string {
	if r == Active {
		return "active"
	}
	return "passive"
}

type Discipline int

const (
	RequestReply Discipline = iota
	OneWay
)

func (d Discipline) String() string {
	if d == OneWay {
		return "one-way"
	}
	return "request-reply"
}

const (
	DefaultSettle = 100 * time.Millisecond
	DefaultLinger = 100 * time.Millisecond

	progressMinCount = 100
)

// Exchange is one timed message exchange session: setup, warm-up, timed
// loop and report, for either side of either discipline.
type Exchange struct {
	Role        Role
	Discipline  Discipline
	MessageSize int
	Count       int

	Observer Observer

	// Settle and Linger pause an active one-way sender after connecting and
	// after its last message, since the one-way pattern has no
	// acknowledgment to tell when the peer is connected or has drained.
	Settle time.Duration
	Linger time.Duration

	Sleep func(time.Duration)
	Now   func() time.Time
}

func EchoServer(messageSize, roundTrips int) *Exchange {
	return &Exchange{Role: Passive, Discipline: RequestReply, MessageSize: messageSize, Count: roundTrips}
}

func LatencyClient(messageSize, roundTrips int) *Exchange {
	return &Exchange{Role: Active, Discipline: RequestReply, MessageSize: messageSize, Count: roundTrips}
}

func ThroughputReceiver(messageSize, messages int) *Exchange {
	return &Exchange{Role: Passive, Discipline: OneWay, MessageSize: messageSize, Count: messages}
}

func ThroughputSender(messageSize, messages int) *Exchange {
	return &Exchange{
		Role:        Active,
		Discipline:  OneWay,
		MessageSize: messageSize,
		Count:       messages,
		Settle:      DefaultSettle,
		Linger:      DefaultLinger,
	}
}

// Report is the outcome of a completed exchange.
type Report struct {
	Role        Role
	Discipline  Discipline
	MessageSize int
	Count       int
	Elapsed     time.Duration
}

func (r Report) Latency() stats.Latency {
	return stats.NewLatency(r.Count, r.Elapsed)
}

func (r Report) Throughput() stats.Throughput {
	return stats.NewThroughput(r.Count, r.MessageSize, r.Elapsed)
}

func (r Report) TotalMB() float64 {
	return stats.TotalMB(r.Count, r.MessageSize)
}

func (x *Exchange) Validate() error {
	if x.MessageSize <= 0 || x.Count <= 0 {
		return ErrInvalidParams
	}
	return nil
}

// Run performs the exchange on sock. Any transport failure or size mismatch
// ends the run immediately and no report is produced.
func (x *Exchange) Run(sock Socket) (Report, error) {
	err := x.Validate()
	if err != nil {
		return Report{}, err
	}
	switch {
	case x.Role == Passive && x.Discipline == RequestReply:
		return x.echo(sock)
	case x.Role == Active && x.Discipline == RequestReply:
		return x.roundTrip(sock)
	case x.Role == Passive && x.Discipline == OneWay:
		return x.receive(sock)
	case x.Role == Active && x.Discipline == OneWay:
		return x.send(sock)
	}
	return Report{}, ErrUnsupportedExchange
}

// echo answers one warm-up request and then Count timed requests with the
// received bytes unmodified.
func (x *Exchange) echo(sock Socket) (Report, error) {
	err := x.echoOnce(sock, 0, true)
	if err != nil {
		return Report{}, err
	}
	w := x.startWindow()
	for i := 0; i < x.Count; i++ {
		err = x.echoOnce(sock, i, false)
		if err != nil {
			return Report{}, err
		}
	}
	w.Stop()
	return x.report(w.Elapsed()), nil
}

func (x *Exchange) echoOnce(sock Socket, i int, warmup bool) error {
	msg, err := x.recv(sock, i, warmup)
	if err != nil {
		return err
	}
	err = sock.Send(msg)
	if err != nil {
		return &TransportError{Op: OpSend, Index: i, Warmup: warmup, Err: err}
	}
	return nil
}

// roundTrip performs one untimed warm-up exchange and then Count timed
// request/reply cycles.
func (x *Exchange) roundTrip(sock Socket) (Report, error) {
	buf := x.buffer()
	err := x.requestOnce(sock, buf, 0, true)
	if err != nil {
		return Report{}, err
	}
	w := x.startWindow()
	for i := 0; i < x.Count; i++ {
		err = x.requestOnce(sock, buf, i, false)
		if err != nil {
			return Report{}, err
		}
	}
	w.Stop()
	return x.report(w.Elapsed()), nil
}

func (x *Exchange) requestOnce(sock Socket, buf []byte, i int, warmup bool) error {
	err := sock.Send(buf)
	if err != nil {
		return &TransportError{Op: OpSend, Index: i, Warmup: warmup, Err: err}
	}
	_, err = x.recv(sock, i, warmup)
	return err
}

// receive takes the first message as the warm-up and starts the window once
// it has arrived; the first message still counts toward the total.
func (x *Exchange) receive(sock Socket) (Report, error) {
	_, err := x.recv(sock, 0, false)
	if err != nil {
		return Report{}, err
	}
	w := x.startWindow()
	for i := 1; i < x.Count; i++ {
		_, err = x.recv(sock, i, false)
		if err != nil {
			return Report{}, err
		}
		x.progress(i + 1)
	}
	w.Stop()
	return x.report(w.Elapsed()), nil
}

func (x *Exchange) send(sock Socket) (Report, error) {
	x.sleep(x.Settle)
	buf := x.buffer()
	w := x.startWindow()
	for i := 0; i < x.Count; i++ {
		err := sock.Send(buf)
		if err != nil {
			return Report{}, &TransportError{Op: OpSend, Index: i, Err: err}
		}
		x.progress(i + 1)
	}
	w.Stop()
	x.sleep(x.Linger)
	return x.report(w.Elapsed()), nil
}

func (x *Exchange) recv(sock Socket, i int, warmup bool) ([]byte, error) {
	msg, err := sock.Recv()
	if err != nil {
		return nil, &TransportError{Op: OpReceive, Index: i, Warmup: warmup, Err: err}
	}
	if len(msg) != x.MessageSize {
		return nil, &SizeMismatchError{Index: i, Warmup: warmup, Expected: x.MessageSize, Actual: len(msg)}
	}
	return msg, nil
}

func (x *Exchange) buffer() []byte {
	buf := make([]byte, x.MessageSize)
	for i := range buf {
		buf[i] = msgperf.Filler
	}
	return buf
}

func (x *Exchange) startWindow() *stats.Window {
	w := &stats.Window{Now: x.Now}
	w.Start()
	x.observe(Event{Kind: MeasurementStarted, Total: x.Count})
	return w
}

func (x *Exchange) progress(done int) {
	if x.Count <= progressMinCount || done%(x.Count/10) != 0 {
		return
	}
	x.observe(Event{
		Kind:    Progress,
		Done:    done,
		Total:   x.Count,
		Percent: done * 100 / x.Count,
	})
}

func (x *Exchange) observe(e Event) {
	if x.Observer == nil {
		return
	}
	e.Role = x.Role
	e.Discipline = x.Discipline
	x.Observer.Observe(e)
}

func (x *Exchange) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if x.Sleep != nil {
		x.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (x *Exchange) report(elapsed time.Duration) Report {
	return Report{
		Role:        x.Role,
		Discipline:  x.Discipline,
		MessageSize: x.MessageSize,
		Count:       x.Count,
		Elapsed:     elapsed,
	}
}
