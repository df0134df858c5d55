package msgperf

type Logger interface {
	Error(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	TestResult(p Program, success bool, address string, details interface{})
}
