package stats

import "time"

// Window brackets the measured part of a test. The zero value uses the
// wall clock; Now can be replaced to make timings deterministic.
type Window struct {
	Now func() time.Time

	start   time.Time
	end     time.Time
	started bool
	stopped bool
}

func (w *Window) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Window) Start() {
	w.start = w.now()
	w.started = true
	w.stopped = false
}

func (w *Window) Stop() {
	if !w.started {
		return
	}
	w.end = w.now()
	w.stopped = true
}

// Elapsed is the length of a stopped window, or the time since Start while it
// is still open. It is 0 before Start.
func (w *Window) Elapsed() time.Duration {
	switch {
	case !w.started:
		return 0
	case !w.stopped:
		return w.now().Sub(w.start)
	}
	return w.end.Sub(w.start)
}
