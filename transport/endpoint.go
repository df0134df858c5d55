package transport

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	SchemeTCP    = "tcp"
	SchemeIPC    = "ipc"
	SchemeInproc = "inproc"
	SchemeWS     = "ws"
)

// Endpoint is a parsed "scheme://address" string.
//
//	tcp://host:port      "*" as host binds all interfaces
//	ipc:///path/to/sock  Unix domain stream socket
//	inproc://name        in-process pipe
//	ws://host:port/path  WebSocket, one binary frame per message
type Endpoint struct {
	Scheme  string
	Address string
	// Path is the HTTP path for ws endpoints.
	Path string
}

func ParseEndpoint(s string) (Endpoint, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok || rest == "" {
		return Endpoint{}, fmt.Errorf("%q: %w", s, ErrInvalidEndpoint)
	}
	e := Endpoint{Scheme: strings.ToLower(scheme), Address: rest}
	switch e.Scheme {
	case SchemeTCP:
		host, port, err := net.SplitHostPort(rest)
		if err != nil {
			return Endpoint{}, fmt.Errorf("%q: %v: %w", s, err, ErrInvalidEndpoint)
		}
		if host == "*" {
			host = ""
		}
		e.Address = net.JoinHostPort(host, port)
	case SchemeIPC, SchemeInproc:
	case SchemeWS:
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return Endpoint{}, fmt.Errorf("%q: %w", s, ErrInvalidEndpoint)
		}
		host := u.Hostname()
		if host == "*" {
			host = ""
		}
		e.Address = net.JoinHostPort(host, u.Port())
		e.Path = u.Path
		if e.Path == "" {
			e.Path = "/"
		}
	default:
		return Endpoint{}, fmt.Errorf("%q: %w", scheme, ErrUnsupportedScheme)
	}
	return e, nil
}

func (e Endpoint) String() string {
	if e.Scheme == SchemeWS {
		return e.Scheme + "://" + e.Address + e.Path
	}
	return e.Scheme + "://" + e.Address
}

func (e Endpoint) network() string {
	switch e.Scheme {
	case SchemeIPC:
		return "unix"
	case SchemeInproc:
		return SchemeInproc
	}
	return "tcp"
}
