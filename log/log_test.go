package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/microsoft/msgperf/msgperf"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Message{Level: LevelError, Message: "boom"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(b), `"Level":"ERROR"`) {
		t.Errorf("Marshal() = %s", b)
	}
}

func TestTextLoggerLevels(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  []string
	}{
		{LevelDebug, []string{"[DEBUG]", "[INFO]", "[ERROR]"}},
		{LevelInfo, []string{"[INFO]", "[ERROR]"}},
		{LevelError, []string{"[ERROR]"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := NewTextLogger(&buf, tt.level)
			l.Init(context.Background())
			l.Debug("d %d", 1)
			l.Info("i %d", 2)
			l.Error("e %d", 3)
			l.Close()

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d: %q", len(lines), len(tt.want), lines)
			}
			for i, prefix := range tt.want {
				if !strings.HasPrefix(lines[i], prefix) {
					t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
				}
			}
		})
	}
}

func TestTextLoggerDropsBeforeInit(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, LevelDebug)
	l.Error("lost")
	l.Close()
	if buf.Len() != 0 {
		t.Errorf("wrote %q before Init", buf.String())
	}
}

type result struct{}

func (r result) String() string { return "rate ok" }

func TestTextLoggerTestResult(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, LevelInfo)
	l.Init(context.Background())
	l.TestResult(msgperf.RemoteLatency, true, "tcp://localhost:5555", result{})
	l.TestResult(msgperf.LocalThroughput, false, "tcp://*:5556", 42)
	l.Close()

	want := "[RESULT] remote_lat: SUCCESS - tcp://localhost:5555:: rate ok\n" +
		"[RESULT] local_thr: FAILURE - tcp://*:5556:: UNKNOWN DETAILS\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestJSONLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msgperf.log")
	l, err := NewJSONLogger(path, LevelInfo, 16)
	if err != nil {
		t.Fatalf("NewJSONLogger() error = %v", err)
	}
	l.Init(context.Background())
	l.Debug("hidden")
	l.Info("listening on %s", "tcp://*:5555")
	l.TestResult(msgperf.LocalLatency, true, "tcp://*:5555", map[string]int{"roundtrips": 100})
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var records []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]interface{}
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %q is not JSON: %v", sc.Text(), err)
		}
		records = append(records, rec)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["Level"] != "INFO" || records[0]["Message"] != "listening on tcp://*:5555" {
		t.Errorf("message record = %v", records[0])
	}
	if records[1]["Program"] != "local_lat" || records[1]["Success"] != true {
		t.Errorf("result record = %v", records[1])
	}
	for i, rec := range records {
		id, _ := rec["RunID"].(string)
		if id != l.RunID() {
			t.Errorf("record %d RunID = %q, want %q", i, id, l.RunID())
		}
	}
	if _, err := uuid.Parse(l.RunID()); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", l.RunID(), err)
	}
}

func TestJSONLoggerRequiresFilename(t *testing.T) {
	if _, err := NewJSONLogger("", LevelInfo, 1); err == nil {
		t.Fatal("NewJSONLogger(\"\") succeeded")
	}
}

type recorder struct {
	lines   []string
	results int
}

func (r *recorder) Error(format string, args ...interface{}) { r.lines = append(r.lines, "E:"+format) }
func (r *recorder) Info(format string, args ...interface{})  { r.lines = append(r.lines, "I:"+format) }
func (r *recorder) Debug(format string, args ...interface{}) { r.lines = append(r.lines, "D:"+format) }
func (r *recorder) TestResult(msgperf.Program, bool, string, interface{}) {
	r.results++
}

func TestAggregateLogger(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	l := NewAggregateLogger(a, b, Nop{})
	l.Info("x")
	l.Error("y")
	l.Debug("z")
	l.TestResult(msgperf.RemoteThroughput, true, "", nil)
	for _, r := range []*recorder{a, b} {
		if strings.Join(r.lines, ",") != "I:x,E:y,D:z" || r.results != 1 {
			t.Errorf("recorder got %v and %d results", r.lines, r.results)
		}
	}
}

type sink struct{ info, errs []string }

func (s *sink) AddInfoMsg(m string)  { s.info = append(s.info, m) }
func (s *sink) AddErrorMsg(m string) { s.errs = append(s.errs, m) }

func TestTuiLogger(t *testing.T) {
	s := &sink{}
	l := NewTuiLogger(LevelInfo, s)
	l.Info("before init")
	l.Init(context.Background())
	l.Info("connected")
	l.Debug("hidden")
	l.Error("failed")
	if len(s.info) != 1 || s.info[0] != "connected" {
		t.Errorf("info = %v", s.info)
	}
	if len(s.errs) != 1 || s.errs[0] != "failed" {
		t.Errorf("errors = %v", s.errs)
	}
}
