package log

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/microsoft/msgperf/msgperf"
)

// MessageSink is a screen area that can show log lines.
type MessageSink interface {
	AddInfoMsg(string)
	AddErrorMsg(string)
}

// TuiLogger shows log lines inside the terminal progress view while it is
// open, since writes to stderr would corrupt the screen.
type TuiLogger struct {
	ui     MessageSink
	ll     LogLevel
	active atomic.Bool
}

func NewTuiLogger(ll LogLevel, ui MessageSink) *TuiLogger {
	return &TuiLogger{
		ui: ui,
		ll: ll,
	}
}

func (l *TuiLogger) Init(ctx context.Context) {
	l.active.Store(true)
	go func() {
		<-ctx.Done()
		l.active.Store(false)
	}()
}

func (l *TuiLogger) Error(format string, args ...interface{}) {
	if l.active.Load() {
		l.ui.AddErrorMsg(fmt.Sprintf(format, args...))
	}
}

func (l *TuiLogger) Info(format string, args ...interface{}) {
	if l.ll <= LevelInfo && l.active.Load() {
		l.ui.AddInfoMsg(fmt.Sprintf(format, args...))
	}
}

func (l *TuiLogger) Debug(format string, args ...interface{}) {
	if l.ll == LevelDebug && l.active.Load() {
		l.ui.AddInfoMsg(fmt.Sprintf(format, args...))
	}
}

func (l *TuiLogger) TestResult(msgperf.Program, bool, string, interface{}) {
	// the result screen replaces the view
}
