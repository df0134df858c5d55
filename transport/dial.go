package transport

import (
	"context"
	"fmt"
	"net"
	"syscall"
)

func (o Options) control(network, address string, rc syscall.RawConn) error {
	var serr error
	err := rc.Control(func(fd uintptr) {
		serr = setTOS(fd, network, o.TOS)
	})
	if err != nil {
		return err
	}
	return serr
}

func dialStream(ctx context.Context, e Endpoint, o Options) (net.Conn, error) {
	if e.Scheme == SchemeInproc {
		return dialInproc(e.Address)
	}
	dialer := &net.Dialer{Control: o.control}
	conn, err := dialer.DialContext(ctx, e.network(), e.Address)
	if err != nil {
		return nil, fmt.Errorf("error dialing %s: %w", e, err)
	}
	err = applyConnOptions(conn, o)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func listenStream(ctx context.Context, e Endpoint, o Options) (net.Listener, error) {
	if e.Scheme == SchemeInproc {
		return listenInproc(e.Address)
	}
	lc := net.ListenConfig{Control: o.control}
	l, err := lc.Listen(ctx, e.network(), e.Address)
	if err != nil {
		return nil, fmt.Errorf("unable to listen on %s: %w", e, err)
	}
	return l, nil
}

type bufferedConn interface {
	SetReadBuffer(bytes int) error
	SetWriteBuffer(bytes int) error
}

func applyConnOptions(conn net.Conn, o Options) error {
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		err := tcpConn.SetNoDelay(o.NoDelay)
		if err != nil {
			return fmt.Errorf("failed to set TCP_NODELAY: %w", err)
		}
	}
	bc, ok := conn.(bufferedConn)
	if !ok {
		return nil
	}
	if o.SendBuffer > 0 {
		err := bc.SetWriteBuffer(o.SendBuffer)
		if err != nil {
			return fmt.Errorf("failed to set send buffer to %d: %w", o.SendBuffer, err)
		}
	}
	if o.RecvBuffer > 0 {
		err := bc.SetReadBuffer(o.RecvBuffer)
		if err != nil {
			return fmt.Errorf("failed to set receive buffer to %d: %w", o.RecvBuffer, err)
		}
	}
	return nil
}
