package log

import "github.com/microsoft/msgperf/msgperf"

type AggregateLogger struct {
	loggers []msgperf.Logger
}

func NewAggregateLogger(loggers ...msgperf.Logger) *AggregateLogger {
	return &AggregateLogger{loggers: loggers}
}

func (l *AggregateLogger) Error(format string, args ...interface{}) {
	for _, logger := range l.loggers {
		logger.Error(format, args...)
	}
}

func (l *AggregateLogger) Info(format string, args ...interface{}) {
	for _, logger := range l.loggers {
		logger.Info(format, args...)
	}
}

func (l *AggregateLogger) Debug(format string, args ...interface{}) {
	for _, logger := range l.loggers {
		logger.Debug(format, args...)
	}
}

func (l *AggregateLogger) TestResult(p msgperf.Program, success bool, address string, details interface{}) {
	for _, logger := range l.loggers {
		logger.TestResult(p, success, address, details)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Error(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Debug(string, ...interface{}) {}

func (Nop) TestResult(msgperf.Program, bool, string, interface{}) {}
