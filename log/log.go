package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/microsoft/msgperf/msgperf"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelError
)

func (l LogLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l LogLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level: %q", s)
}

type Message struct {
	Timestamp string
	RunID     string `json:",omitempty"`
	Level     LogLevel
	Message   string
}

func NewMessage(ll LogLevel, msg string) Message {
	return Message{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     ll,
		Message:   msg,
	}
}

type TestResultLog struct {
	Timestamp string
	RunID     string `json:",omitempty"`
	Program   msgperf.Program
	Address   string
	Success   bool
	Details   interface{}
}

func NewTestResultLog(p msgperf.Program, success bool, address string, details interface{}) TestResultLog {
	return TestResultLog{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Program:   p,
		Address:   address,
		Success:   success,
		Details:   details,
	}
}
