package log

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// lineWriter serializes queued lines onto w from a single goroutine. Lines
// queued before Init or after Close are dropped.
type lineWriter struct {
	w     io.Writer
	lines chan string
	done  chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool
}

func newLineWriter(w io.Writer, bufferSize int) *lineWriter {
	return &lineWriter{
		w:     w,
		lines: make(chan string, bufferSize),
		done:  make(chan struct{}),
	}
}

func (lw *lineWriter) Init(ctx context.Context) {
	lw.mu.Lock()
	if lw.started || lw.closed {
		lw.mu.Unlock()
		return
	}
	lw.started = true
	lw.mu.Unlock()

	go lw.writeLines()
	go func() {
		select {
		case <-ctx.Done():
			lw.Close()
		case <-lw.done:
		}
	}()
}

func (lw *lineWriter) writeLines() {
	defer close(lw.done)
	for line := range lw.lines {
		fmt.Fprintln(lw.w, line)
	}
}

func (lw *lineWriter) active() bool {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.started && !lw.closed
}

func (lw *lineWriter) queue(line string) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if !lw.started || lw.closed {
		return
	}
	lw.lines <- line
}

// Close stops accepting lines and waits until the queued ones are written.
func (lw *lineWriter) Close() {
	lw.mu.Lock()
	if lw.closed {
		lw.mu.Unlock()
		if lw.started {
			<-lw.done
		}
		return
	}
	lw.closed = true
	started := lw.started
	close(lw.lines)
	lw.mu.Unlock()

	if started {
		<-lw.done
	}
}
