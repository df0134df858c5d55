package transport

import (
	"fmt"
	"net"
	"sync"
)

// In-process endpoints are kept in a process-wide registry. A connect may
// happen before the matching bind: the pipe waits in the endpoint until the
// bound side accepts it.
var (
	inprocLock      sync.Mutex
	inprocEndpoints = make(map[string]*inprocEndpoint)
)

type inprocEndpoint struct {
	name    string
	bound   bool
	pending chan net.Conn
}

func getInprocEndpoint(name string) *inprocEndpoint {
	ep, ok := inprocEndpoints[name]
	if !ok {
		ep = &inprocEndpoint{name: name, pending: make(chan net.Conn, 1)}
		inprocEndpoints[name] = ep
	}
	return ep
}

func dialInproc(name string) (net.Conn, error) {
	inprocLock.Lock()
	defer inprocLock.Unlock()
	ep := getInprocEndpoint(name)
	client, server := net.Pipe()
	select {
	case ep.pending <- server:
		return client, nil
	default:
		client.Close()
		server.Close()
		return nil, fmt.Errorf("inproc://%s: %w", name, ErrPeerExists)
	}
}

func listenInproc(name string) (net.Listener, error) {
	inprocLock.Lock()
	defer inprocLock.Unlock()
	ep := getInprocEndpoint(name)
	if ep.bound {
		return nil, fmt.Errorf("inproc://%s: %w", name, ErrAddrInUse)
	}
	ep.bound = true
	return &inprocListener{ep: ep, done: make(chan struct{})}, nil
}

type inprocListener struct {
	ep   *inprocEndpoint
	done chan struct{}
	once sync.Once
}

func (l *inprocListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.ep.pending:
		return conn, nil
	case <-l.done:
		return nil, ErrClosed
	}
}

func (l *inprocListener) Close() error {
	l.once.Do(func() {
		close(l.done)
		inprocLock.Lock()
		if inprocEndpoints[l.ep.name] == l.ep {
			delete(inprocEndpoints, l.ep.name)
		}
		inprocLock.Unlock()
	})
	return nil
}

func (l *inprocListener) Addr() net.Addr {
	return inprocAddr(l.ep.name)
}

type inprocAddr string

func (a inprocAddr) Network() string { return SchemeInproc }
func (a inprocAddr) String() string  { return string(a) }
