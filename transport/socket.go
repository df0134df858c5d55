package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
)

type acceptor interface {
	Accept() (pipe, error)
	Addr() net.Addr
	Close() error
}

type streamAcceptor struct {
	l    net.Listener
	opts Options
}

func (a *streamAcceptor) Accept() (pipe, error) {
	conn, err := a.l.Accept()
	if err != nil {
		return nil, err
	}
	err = applyConnOptions(conn, a.opts)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return newStreamPipe(conn, a.opts.MaxMessageSize), nil
}

func (a *streamAcceptor) Addr() net.Addr {
	return a.l.Addr()
}

func (a *streamAcceptor) Close() error {
	return a.l.Close()
}

// Socket exchanges discrete messages with exactly one peer following the
// pattern of its Kind: REQ alternates Send and Recv starting with Send, REP
// alternates starting with Recv, PUSH only sends and PULL only receives.
//
// A bound socket accepts its peer on the first Send or Recv and stops
// listening afterwards. Send and Recv must not be called concurrently; Close
// may be called from any goroutine.
type Socket struct {
	kind     Kind
	endpoint Endpoint
	addr     string

	// recvNext is the REQ/REP turn: true when Recv is the only allowed call.
	recvNext bool

	mu       sync.Mutex
	acceptor acceptor
	pipe     pipe
	closed   bool
}

// Bind listens on address and returns a socket that serves one peer.
func Bind(ctx context.Context, kind Kind, address string, opts Options) (*Socket, error) {
	if kind == KindUnknown {
		return nil, fmt.Errorf("bind %s: unknown socket kind: %w", address, ErrInvalidState)
	}
	e, err := ParseEndpoint(address)
	if err != nil {
		return nil, err
	}
	var a acceptor
	if e.Scheme == SchemeWS {
		a, err = listenWebSocket(ctx, e, opts)
	} else {
		var l net.Listener
		l, err = listenStream(ctx, e, opts)
		if err == nil {
			a = &streamAcceptor{l: l, opts: opts}
		}
	}
	if err != nil {
		return nil, err
	}
	bound := e
	bound.Address = a.Addr().String()
	return &Socket{
		kind:     kind,
		endpoint: e,
		addr:     bound.String(),
		recvNext: kind == Rep,
		acceptor: a,
	}, nil
}

// Connect dials address. For inproc endpoints the connection completes once
// the peer binds.
func Connect(ctx context.Context, kind Kind, address string, opts Options) (*Socket, error) {
	if kind == KindUnknown {
		return nil, fmt.Errorf("connect %s: unknown socket kind: %w", address, ErrInvalidState)
	}
	e, err := ParseEndpoint(address)
	if err != nil {
		return nil, err
	}
	var p pipe
	if e.Scheme == SchemeWS {
		p, err = dialWebSocket(ctx, e, opts)
	} else {
		var conn net.Conn
		conn, err = dialStream(ctx, e, opts)
		if err == nil {
			p = newStreamPipe(conn, opts.MaxMessageSize)
		}
	}
	if err != nil {
		return nil, err
	}
	return &Socket{
		kind:     kind,
		endpoint: e,
		addr:     e.String(),
		recvNext: kind == Rep,
		pipe:     p,
	}, nil
}

func (s *Socket) Kind() Kind {
	return s.kind
}

// Addr is the endpoint the socket is bound or connected to. For bound
// sockets it carries the resolved address, so "tcp://127.0.0.1:0" reports
// the port actually chosen.
func (s *Socket) Addr() string {
	return s.addr
}

func (s *Socket) peer() (pipe, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.pipe != nil {
		p := s.pipe
		s.mu.Unlock()
		return p, nil
	}
	a := s.acceptor
	s.mu.Unlock()

	p, err := a.Accept()
	if err != nil {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("failed to accept peer on %s: %w", s.endpoint, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		p.Close()
		return nil, ErrClosed
	}
	s.pipe = p
	s.acceptor = nil
	_ = a.Close()
	return p, nil
}

// Send transmits b as one message. b may be reused once Send returns.
func (s *Socket) Send(b []byte) error {
	if !s.kind.canSend() || (s.kind == Req || s.kind == Rep) && s.recvNext {
		return fmt.Errorf("send on %s socket: %w", s.kind, ErrInvalidState)
	}
	p, err := s.peer()
	if err != nil {
		return err
	}
	err = p.WriteMessage(b)
	if err != nil {
		return err
	}
	if s.kind == Req || s.kind == Rep {
		s.recvNext = true
	}
	return nil
}

// Recv blocks for the next message. The returned slice is only valid until
// the next call to Recv.
func (s *Socket) Recv() ([]byte, error) {
	if !s.kind.canRecv() || (s.kind == Req || s.kind == Rep) && !s.recvNext {
		return nil, fmt.Errorf("receive on %s socket: %w", s.kind, ErrInvalidState)
	}
	p, err := s.peer()
	if err != nil {
		return nil, err
	}
	b, err := p.ReadMessage()
	if err != nil {
		return nil, err
	}
	if s.kind == Req || s.kind == Rep {
		s.recvNext = false
	}
	return b, nil
}

func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if s.acceptor != nil {
		err = s.acceptor.Close()
		s.acceptor = nil
	}
	if s.pipe != nil {
		perr := s.pipe.Close()
		if err == nil {
			err = perr
		}
		s.pipe = nil
	}
	return err
}
