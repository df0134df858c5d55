package ui

import (
	"fmt"
	"sync"
	"time"

	tm "github.com/nsf/termbox-go"

	"github.com/microsoft/msgperf/bench"
	"github.com/microsoft/msgperf/msgperf"
)

const (
	tuiMinW   = 60
	tuiMinH   = 20
	ringLines = 4
)

// Tui is a full-screen progress view. Esc or Ctrl-C closes Aborted; the
// caller decides how to stop the run.
type Tui struct {
	title   string
	program msgperf.Program
	params  msgperf.Params

	mu       sync.Mutex
	phase    string
	done     int
	msgRing  []string
	errRing  []string
	started  time.Time
	now      func() time.Time
	aborted  chan struct{}
	stop     chan struct{}
	finished chan struct{}
	once     sync.Once
}

func NewTui(title string, program msgperf.Program, params msgperf.Params) (*Tui, error) {
	err := tm.Init()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize terminal: %w", err)
	}
	w, h := tm.Size()
	if w < tuiMinW || h < tuiMinH {
		tm.Close()
		return nil, fmt.Errorf("terminal too small (%dwx%dh), must be at least %dhx%dw", w, h, tuiMinH, tuiMinW)
	}
	tm.SetInputMode(tm.InputEsc)
	tm.SetCursor(0, 0)

	t := newTui(title, program, params)
	go t.pollEvents()
	go t.paintLoop()
	return t, nil
}

func newTui(title string, program msgperf.Program, params msgperf.Params) *Tui {
	return &Tui{
		title:    title,
		program:  program,
		params:   params,
		phase:    "Waiting for peer",
		msgRing:  make([]string, ringLines),
		errRing:  make([]string, ringLines),
		now:      time.Now,
		aborted:  make(chan struct{}),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Aborted is closed when the user asks to quit.
func (t *Tui) Aborted() <-chan struct{} {
	return t.aborted
}

func (t *Tui) pollEvents() {
	for {
		switch ev := tm.PollEvent(); ev.Type {
		case tm.EventKey:
			if ev.Key == tm.KeyEsc || ev.Key == tm.KeyCtrlC {
				close(t.aborted)
				return
			}
		case tm.EventError:
			return
		}
	}
}

func (t *Tui) paintLoop() {
	defer close(t.finished)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		t.Paint()
		select {
		case <-t.stop:
			return
		case <-ticker.C:
		}
	}
}

// Close restores the terminal. The event poller is left blocked; the process
// exits right after.
func (t *Tui) Close() {
	t.once.Do(func() {
		close(t.stop)
		<-t.finished
		tm.Close()
	})
}

func (t *Tui) Observe(e bench.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e.Kind {
	case bench.MeasurementStarted:
		t.started = t.now()
		if e.Discipline == bench.OneWay {
			t.phase = "Transferring"
			t.done = 1
			if e.Role == bench.Active {
				t.done = 0
			}
		} else {
			t.phase = "Measuring round trips"
		}
	case bench.Progress:
		t.done = e.Done
	}
}

func (t *Tui) AddInfoMsg(msg string) {
	t.addToRing(&t.msgRing, msg)
}

func (t *Tui) AddErrorMsg(msg string) {
	t.addToRing(&t.errRing, msg)
}

func (t *Tui) addToRing(ring *[]string, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := *ring
	copy(r, r[1:])
	r[len(r)-1] = msg
}

// status returns the lines below the progress bar.
func (t *Tui) status() (phase, counter, elapsed string, done int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	phase = t.phase
	done = t.done
	unit := "messages"
	if t.program.IsLatency() {
		unit = "roundtrips"
	}
	counter = fmt.Sprintf("%d/%d %s", t.done, t.params.Count, unit)
	if !t.started.IsZero() {
		d := t.now().Sub(t.started)
		elapsed = "Elapsed: " + DurationToString(d)
		if !t.program.IsLatency() && t.done > 1 && d > 0 {
			bps := float64(t.done-1) * float64(t.params.MessageSize) / d.Seconds()
			elapsed += "  Rate: " + BytesToRate(uint64(bps)) + "b/s"
		}
	}
	return phase, counter, elapsed, done
}

func (t *Tui) Paint() {
	w, _ := tm.Size()
	tm.Clear(tm.ColorDefault, tm.ColorDefault)
	defer tm.Flush()

	printCenterText(0, 0, w, t.title, tm.ColorBlack, tm.ColorWhite)

	printHLineText(0, 2, w, "Test")
	verb := "Connected to"
	if t.program.IsLocal() {
		verb = "Listening on"
	}
	printText(1, 3, w-2, verb+" "+t.params.Address, tm.ColorDefault, tm.ColorDefault)
	printText(1, 4, w-2, fmt.Sprintf("Message size: %d bytes (%sB)", t.params.MessageSize,
		NumberToUnit(uint64(t.params.MessageSize))), tm.ColorDefault, tm.ColorDefault)

	phase, counter, elapsed, done := t.status()
	printHLineText(0, 6, w, "Progress")
	printText(1, 7, w-2, phase, tm.ColorDefault, tm.ColorDefault)
	if t.program.IsLatency() {
		printText(1, 8, w-2, fmt.Sprintf("%d roundtrips", t.params.Count), tm.ColorDefault, tm.ColorDefault)
	} else {
		barW := w - 10
		printProgressBar(1, 8, barW, done, t.params.Count, tm.ColorGreen)
		printText(barW+2, 8, 7, fmt.Sprintf("%3d%%", done*100/t.params.Count), tm.ColorDefault, tm.ColorDefault)
		printText(1, 9, w-2, counter, tm.ColorDefault, tm.ColorDefault)
	}
	printText(1, 10, w-2, elapsed, tm.ColorDefault, tm.ColorDefault)

	printHLineText(0, 11, w, "Messages")
	t.mu.Lock()
	for i, s := range t.msgRing {
		printText(1, 12+i, w-2, s, tm.ColorDefault, tm.ColorDefault)
	}
	y := 12 + len(t.msgRing)
	for i, s := range t.errRing {
		if s != "" {
			printText(1, y+i, w-2, s, tm.ColorRed, tm.ColorDefault)
		}
	}
	t.mu.Unlock()
}
