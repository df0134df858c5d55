package transport

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/net/nettest"
)

var inprocSeq atomic.Int64

func uniqueInproc(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("inproc://%s-%d", t.Name(), inprocSeq.Add(1))
}

// bindAddrs returns one bind address per available scheme.
func bindAddrs(t *testing.T) map[string]string {
	t.Helper()
	addrs := map[string]string{
		SchemeTCP:    "tcp://127.0.0.1:0",
		SchemeInproc: uniqueInproc(t),
		SchemeWS:     "ws://127.0.0.1:0/bench",
	}
	if nettest.TestableNetwork("unix") {
		path, err := nettest.LocalPath()
		if err != nil {
			t.Fatalf("nettest.LocalPath: %v", err)
		}
		addrs[SchemeIPC] = "ipc://" + path
	}
	return addrs
}

func TestReqRepEcho(t *testing.T) {
	ctx := context.Background()
	sizes := []int{0, 1, 64, 4096, 1 << 20}

	for scheme, addr := range bindAddrs(t) {
		t.Run(scheme, func(t *testing.T) {
			rep, err := Bind(ctx, Rep, addr, DefaultOptions())
			if err != nil {
				t.Fatalf("Bind(%s): %v", addr, err)
			}
			defer rep.Close()

			errCh := make(chan error, 1)
			go func() {
				for range sizes {
					msg, err := rep.Recv()
					if err != nil {
						errCh <- err
						return
					}
					err = rep.Send(msg)
					if err != nil {
						errCh <- err
						return
					}
				}
				errCh <- nil
			}()

			req, err := Connect(ctx, Req, rep.Addr(), DefaultOptions())
			if err != nil {
				t.Fatalf("Connect(%s): %v", rep.Addr(), err)
			}
			defer req.Close()

			for _, size := range sizes {
				payload := make([]byte, size)
				for i := range payload {
					payload[i] = byte(i * 7)
				}
				err = req.Send(payload)
				if err != nil {
					t.Fatalf("Send(%d bytes): %v", size, err)
				}
				reply, err := req.Recv()
				if err != nil {
					t.Fatalf("Recv after %d bytes: %v", size, err)
				}
				if !bytes.Equal(reply, payload) {
					t.Fatalf("reply of %d bytes differs from request", size)
				}
			}
			if err := <-errCh; err != nil {
				t.Fatalf("server: %v", err)
			}
		})
	}
}

func TestPushPullOrder(t *testing.T) {
	ctx := context.Background()
	const count = 1000

	for scheme, addr := range bindAddrs(t) {
		t.Run(scheme, func(t *testing.T) {
			pull, err := Bind(ctx, Pull, addr, DefaultOptions())
			if err != nil {
				t.Fatalf("Bind(%s): %v", addr, err)
			}
			defer pull.Close()

			push, err := Connect(ctx, Push, pull.Addr(), DefaultOptions())
			if err != nil {
				t.Fatalf("Connect(%s): %v", pull.Addr(), err)
			}

			go func() {
				defer push.Close()
				buf := make([]byte, 8)
				for i := 0; i < count; i++ {
					binary.BigEndian.PutUint64(buf, uint64(i))
					if err := push.Send(buf); err != nil {
						return
					}
				}
			}()

			for i := 0; i < count; i++ {
				msg, err := pull.Recv()
				if err != nil {
					t.Fatalf("Recv(%d): %v", i, err)
				}
				if len(msg) != 8 {
					t.Fatalf("message %d has %d bytes, want 8", i, len(msg))
				}
				if got := binary.BigEndian.Uint64(msg); got != uint64(i) {
					t.Fatalf("message %d carries sequence %d", i, got)
				}
			}
		})
	}
}

func TestSocketState(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		kind Kind
		op   func(*Socket) error
	}{
		{
			name: "req must send first",
			kind: Req,
			op: func(s *Socket) error {
				_, err := s.Recv()
				return err
			},
		},
		{
			name: "rep must receive first",
			kind: Rep,
			op:   func(s *Socket) error { return s.Send([]byte("x")) },
		},
		{
			name: "push cannot receive",
			kind: Push,
			op: func(s *Socket) error {
				_, err := s.Recv()
				return err
			},
		},
		{
			name: "pull cannot send",
			kind: Pull,
			op:   func(s *Socket) error { return s.Send([]byte("x")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Bind(ctx, tt.kind, uniqueInproc(t), DefaultOptions())
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}
			defer s.Close()
			if err := tt.op(s); !errors.Is(err, ErrInvalidState) {
				t.Errorf("got %v, want %v", err, ErrInvalidState)
			}
		})
	}
}

func TestReqCannotSendTwice(t *testing.T) {
	ctx := context.Background()
	addr := uniqueInproc(t)

	rep, err := Bind(ctx, Rep, addr, DefaultOptions())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer rep.Close()
	go func() {
		_, _ = rep.Recv()
	}()

	req, err := Connect(ctx, Req, addr, DefaultOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer req.Close()

	if err := req.Send([]byte("first")); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if err := req.Send([]byte("second")); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Send = %v, want %v", err, ErrInvalidState)
	}
}

func TestMessageTooLarge(t *testing.T) {
	ctx := context.Background()
	small := DefaultOptions()
	small.MaxMessageSize = 16

	for _, scheme := range []string{SchemeTCP, SchemeWS} {
		t.Run(scheme, func(t *testing.T) {
			addr := bindAddrs(t)[scheme]
			pull, err := Bind(ctx, Pull, addr, small)
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}
			defer pull.Close()

			push, err := Connect(ctx, Push, pull.Addr(), DefaultOptions())
			if err != nil {
				t.Fatalf("Connect: %v", err)
			}
			defer push.Close()

			if err := push.Send(make([]byte, 32)); err != nil {
				t.Fatalf("Send: %v", err)
			}
			if _, err := pull.Recv(); !errors.Is(err, ErrMessageTooLarge) {
				t.Errorf("Recv = %v, want %v", err, ErrMessageTooLarge)
			}
		})
	}

	t.Run("outgoing", func(t *testing.T) {
		addr := uniqueInproc(t)
		pull, err := Bind(ctx, Pull, addr, DefaultOptions())
		if err != nil {
			t.Fatalf("Bind: %v", err)
		}
		defer pull.Close()
		push, err := Connect(ctx, Push, addr, small)
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
		defer push.Close()
		if err := push.Send(make([]byte, 17)); !errors.Is(err, ErrMessageTooLarge) {
			t.Errorf("Send = %v, want %v", err, ErrMessageTooLarge)
		}
	})
}

func TestInprocConnectBeforeBind(t *testing.T) {
	ctx := context.Background()
	addr := uniqueInproc(t)

	push, err := Connect(ctx, Push, addr, DefaultOptions())
	if err != nil {
		t.Fatalf("Connect before bind: %v", err)
	}
	defer push.Close()
	go func() {
		_ = push.Send([]byte("early"))
	}()

	pull, err := Bind(ctx, Pull, addr, DefaultOptions())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer pull.Close()

	msg, err := pull.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if string(msg) != "early" {
		t.Errorf("Recv = %q, want %q", msg, "early")
	}
}

func TestInprocAddrInUse(t *testing.T) {
	ctx := context.Background()
	addr := uniqueInproc(t)

	first, err := Bind(ctx, Pull, addr, DefaultOptions())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer first.Close()

	_, err = Bind(ctx, Pull, addr, DefaultOptions())
	if !errors.Is(err, ErrAddrInUse) {
		t.Errorf("second Bind = %v, want %v", err, ErrAddrInUse)
	}
}

func TestCloseUnblocksAccept(t *testing.T) {
	ctx := context.Background()

	for scheme, addr := range bindAddrs(t) {
		t.Run(scheme, func(t *testing.T) {
			pull, err := Bind(ctx, Pull, addr, DefaultOptions())
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}

			errCh := make(chan error, 1)
			go func() {
				_, err := pull.Recv()
				errCh <- err
			}()

			time.Sleep(10 * time.Millisecond)
			if err := pull.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			select {
			case err := <-errCh:
				if !errors.Is(err, ErrClosed) {
					t.Errorf("Recv after Close = %v, want %v", err, ErrClosed)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Recv still blocked after Close")
			}
		})
	}
}

func TestConnectRefused(t *testing.T) {
	ctx := context.Background()

	l, err := nettest.NewLocalListener("tcp")
	if err != nil {
		t.Fatalf("NewLocalListener: %v", err)
	}
	addr := "tcp://" + l.Addr().String()
	l.Close()

	if _, err := Connect(ctx, Req, addr, DefaultOptions()); err == nil {
		t.Fatalf("Connect(%s) to a closed port succeeded", addr)
	}
}

func TestPeerClosedIsReported(t *testing.T) {
	ctx := context.Background()

	pull, err := Bind(ctx, Pull, "tcp://127.0.0.1:0", DefaultOptions())
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer pull.Close()

	push, err := Connect(ctx, Push, pull.Addr(), DefaultOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := push.Send([]byte("last")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	push.Close()

	if msg, err := pull.Recv(); err != nil || string(msg) != "last" {
		t.Fatalf("Recv = %q, %v; want %q", msg, err, "last")
	}
	if _, err := pull.Recv(); err == nil {
		t.Fatal("Recv after peer close returned no error")
	}
}
