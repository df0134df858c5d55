package log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/microsoft/msgperf/msgperf"
)

// JSONLogger appends one JSON record per line to a file. Every record of a
// process carries the same run ID so results from both ends of a test can be
// told apart from earlier runs in the same file.
type JSONLogger struct {
	*lineWriter
	logFile *os.File
	ll      LogLevel
	runID   string
}

func NewJSONLogger(filename string, ll LogLevel, bufferSize int) (*JSONLogger, error) {
	if filename == "" {
		return nil, errors.New("filename required")
	}
	logFile, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("unable to open the log file (%s): %w", filename, err)
	}
	return &JSONLogger{
		lineWriter: newLineWriter(logFile, bufferSize),
		logFile:    logFile,
		ll:         ll,
		runID:      uuid.NewString(),
	}, nil
}

func (l *JSONLogger) RunID() string {
	return l.runID
}

// Close flushes queued records and closes the file.
func (l *JSONLogger) Close() error {
	l.lineWriter.Close()
	return l.logFile.Close()
}

func (l *JSONLogger) queueRecord(v interface{}) {
	line, err := json.Marshal(v)
	if err != nil {
		return
	}
	l.queue(string(line))
}

func (l *JSONLogger) queueMessage(msg Message) {
	if msg.Level < l.ll || !l.active() {
		return
	}
	msg.RunID = l.runID
	l.queueRecord(msg)
}

func (l *JSONLogger) Error(format string, args ...interface{}) {
	l.queueMessage(NewMessage(LevelError, fmt.Sprintf(format, args...)))
}

func (l *JSONLogger) Info(format string, args ...interface{}) {
	l.queueMessage(NewMessage(LevelInfo, fmt.Sprintf(format, args...)))
}

func (l *JSONLogger) Debug(format string, args ...interface{}) {
	l.queueMessage(NewMessage(LevelDebug, fmt.Sprintf(format, args...)))
}

func (l *JSONLogger) TestResult(p msgperf.Program, success bool, address string, details interface{}) {
	if !l.active() {
		return
	}
	r := NewTestResultLog(p, success, address, details)
	r.RunID = l.runID
	l.queueRecord(r)
}
