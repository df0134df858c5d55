package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const wsBufferSize = 64 * 1024

// wsPipe sends each message as one binary WebSocket frame.
type wsPipe struct {
	conn *websocket.Conn
}

func newWSPipe(conn *websocket.Conn, maxSize int) *wsPipe {
	if maxSize > 0 {
		conn.SetReadLimit(int64(maxSize))
	}
	return &wsPipe{conn: conn}
}

func (p *wsPipe) ReadMessage() ([]byte, error) {
	_, data, err := p.conn.ReadMessage()
	if errors.Is(err, websocket.ErrReadLimit) {
		return nil, fmt.Errorf("incoming websocket message: %w", ErrMessageTooLarge)
	}
	return data, err
}

func (p *wsPipe) WriteMessage(b []byte) error {
	return p.conn.WriteMessage(websocket.BinaryMessage, b)
}

func (p *wsPipe) Close() error {
	return p.conn.Close()
}

func dialWebSocket(ctx context.Context, e Endpoint, o Options) (*wsPipe, error) {
	dialer := websocket.Dialer{
		NetDialContext:  (&net.Dialer{Control: o.control}).DialContext,
		ReadBufferSize:  wsBufferSize,
		WriteBufferSize: wsBufferSize,
	}
	conn, resp, err := dialer.DialContext(ctx, e.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("error dialing %s: %w", e, err)
	}
	err = applyConnOptions(conn.NetConn(), o)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return newWSPipe(conn, o.MaxMessageSize), nil
}

// wsAcceptor serves the upgrade handshake for exactly one peer.
type wsAcceptor struct {
	srv      *http.Server
	addr     net.Addr
	opts     Options
	upgrader websocket.Upgrader
	conns    chan *websocket.Conn
	done     chan struct{}
	once     sync.Once
	taken    atomic.Bool
}

func listenWebSocket(ctx context.Context, e Endpoint, o Options) (*wsAcceptor, error) {
	lc := net.ListenConfig{Control: o.control}
	l, err := lc.Listen(ctx, "tcp", e.Address)
	if err != nil {
		return nil, fmt.Errorf("unable to listen on %s: %w", e, err)
	}
	a := &wsAcceptor{
		addr: l.Addr(),
		opts: o,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsBufferSize,
			WriteBufferSize: wsBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(chan *websocket.Conn, 1),
		done:  make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(e.Path, a.upgrade)
	a.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		_ = a.srv.Serve(l)
	}()
	return a, nil
}

func (a *wsAcceptor) upgrade(w http.ResponseWriter, r *http.Request) {
	if !a.taken.CompareAndSwap(false, true) {
		http.Error(w, ErrPeerExists.Error(), http.StatusConflict)
		return
	}
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		a.taken.Store(false)
		return
	}
	a.conns <- conn
}

func (a *wsAcceptor) Accept() (pipe, error) {
	select {
	case conn := <-a.conns:
		err := applyConnOptions(conn.NetConn(), a.opts)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return newWSPipe(conn, a.opts.MaxMessageSize), nil
	case <-a.done:
		return nil, ErrClosed
	}
}

func (a *wsAcceptor) Addr() net.Addr {
	return a.addr
}

func (a *wsAcceptor) Close() error {
	var err error
	a.once.Do(func() {
		close(a.done)
		err = a.srv.Close()
	})
	return err
}
