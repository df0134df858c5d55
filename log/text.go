package log

import (
	"fmt"
	"io"

	"github.com/microsoft/msgperf/msgperf"
)

// TextLogger writes "[LEVEL] timestamp - message" lines, typically to stderr.
type TextLogger struct {
	*lineWriter
	ll LogLevel
}

func NewTextLogger(w io.Writer, ll LogLevel) *TextLogger {
	return &TextLogger{
		lineWriter: newLineWriter(w, 64),
		ll:         ll,
	}
}

func (l *TextLogger) queueMessage(msg Message) {
	if msg.Level < l.ll {
		return
	}
	l.queue(fmt.Sprintf("[%s] %s - %s", msg.Level.String(), msg.Timestamp, msg.Message))
}

func (l *TextLogger) Error(format string, args ...interface{}) {
	l.queueMessage(NewMessage(LevelError, fmt.Sprintf(format, args...)))
}

func (l *TextLogger) Info(format string, args ...interface{}) {
	l.queueMessage(NewMessage(LevelInfo, fmt.Sprintf(format, args...)))
}

func (l *TextLogger) Debug(format string, args ...interface{}) {
	l.queueMessage(NewMessage(LevelDebug, fmt.Sprintf(format, args...)))
}

var NoDetails StaticStringer

type StaticStringer string

func (s StaticStringer) String() string {
	return "UNKNOWN DETAILS"
}

func (l *TextLogger) TestResult(p msgperf.Program, success bool, address string, details interface{}) {
	status := "FAILURE"
	if success {
		status = "SUCCESS"
	}
	result, ok := details.(fmt.Stringer)
	if !ok {
		result = NoDetails
	}
	l.queue(fmt.Sprintf("[RESULT] %s: %s - %s:: %s", p, status, address, result))
}
