package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestLogger(sink Sink) *Logger {
	l := New(sink)
	l.now = func() time.Time { return fixedTime }
	return l
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LogLevel(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	if got := LevelFromVerbosity(0); got != LevelInfo {
		t.Errorf("LevelFromVerbosity(0) = %v, want INFO", got)
	}
	if got := LevelFromVerbosity(3); got != LevelDebug {
		t.Errorf("LevelFromVerbosity(3) = %v, want DEBUG", got)
	}
}

func TestLoggerEmitsOrderedEvents(t *testing.T) {
	rec := NewRecorder()
	l := newTestLogger(rec)

	l.Info("environment", "Windows version check passed", "version", "10.0.19045")
	l.Warn("config", "config.json not found")
	l.Error("artifact", "No Onekey executable found", "dir", ".", "dangling")

	want := []Event{
		{Time: fixedTime, Level: LevelInfo, Stage: "environment", Message: "Windows version check passed",
			Properties: map[string]interface{}{"version": "10.0.19045"}},
		{Time: fixedTime, Level: LevelWarn, Stage: "config", Message: "config.json not found"},
		{Time: fixedTime, Level: LevelError, Stage: "artifact", Message: "No Onekey executable found",
			Properties: map[string]interface{}{"dir": "."}},
	}
	if diff := cmp.Diff(want, rec.Events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if got := rec.Count(LevelError); got != 1 {
		t.Errorf("Count(ERROR) = %d, want 1", got)
	}
	if diff := cmp.Diff([]string{"environment", "config", "artifact"}, rec.Stages()); diff != "" {
		t.Errorf("stages mismatch (-want +got):\n%s", diff)
	}
}

func TestLoggerSurvivesPanickingSink(t *testing.T) {
	l := newTestLogger(SinkFunc(func(Event) { panic("boom") }))
	l.Error("integrity", "still fine")
}

func TestNilSinkDiscards(t *testing.T) {
	New(nil).Info("stage", "nothing happens")
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	l := newTestLogger(Multi{a, nil, b})
	l.Info("artifact", "found")

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatalf("expected one event in each recorder, got %d and %d", len(a.Events()), len(b.Events()))
	}
}

func TestConsoleFiltersAndFormats(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, LevelInfo)
	c.SetColor(false)
	l := newTestLogger(c)

	l.Debug("integrity", "hidden")
	l.Info("artifact", "Found Onekey executable", "file", "Onekey_v3.exe")
	l.Error("config", "Missing key", "field", "QA1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message rendered at INFO level:\n%s", out)
	}
	if !strings.Contains(out, "[2025-03-14 09:26:53] INFO  [artifact] Found Onekey executable file=Onekey_v3.exe") {
		t.Errorf("info line not rendered as expected:\n%s", out)
	}
	if !strings.Contains(out, "----------------------------------------\n[2025-03-14 09:26:53] ERROR [config] Missing key field=QA1") {
		t.Errorf("error line not rendered with separator:\n%s", out)
	}
}

func TestConsoleColors(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(NewConsole(&buf, LevelDebug))

	l.Error("config", "bad")
	if !strings.Contains(buf.String(), colorRed) || !strings.Contains(buf.String(), colorReset) {
		t.Errorf("error line not colored red: %q", buf.String())
	}

	buf.Reset()
	l.Info("integrity", "ok", "result", "pass")
	if !strings.HasPrefix(buf.String(), colorGreen) {
		t.Errorf("passing check not colored green: %q", buf.String())
	}
}

func TestConsoleMultilineProperties(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, LevelInfo)
	c.SetColor(false)
	newTestLogger(c).Info("environment", "probe", "a", 1, "b", 2, "c", 3, "d", 4, "e", 5)

	if !strings.Contains(buf.String(), "\n        a: 1\n        b: 2") {
		t.Errorf("expected one property per line, got:\n%s", buf.String())
	}
}

func TestTranscriptJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(NewTranscript(&buf, FormatJSONLines))

	l.Info("artifact", "found", "file", "onekey.exe")
	l.Error("integrity", "mismatch", "error", errors.New("digest differs"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}

	var entry LogEntry
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry.Level != "ERROR" || entry.Stage != "integrity" || entry.Message != "mismatch" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Properties["error"] != "digest differs" {
		t.Errorf("error property = %v, want message text", entry.Properties["error"])
	}
	if entry.Timestamp != fixedTime.Format(time.RFC3339) {
		t.Errorf("Timestamp = %q", entry.Timestamp)
	}
}

func TestOpenTranscriptYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	tr, err := OpenTranscript(path)
	if err != nil {
		t.Fatalf("OpenTranscript() error = %v", err)
	}
	newTestLogger(tr).Warn("config", "config.json not found")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "---\n") {
		t.Errorf("YAML transcript should start with a document marker:\n%s", data)
	}

	var entry LogEntry
	if err := yaml.Unmarshal(bytes.TrimPrefix(data, []byte("---\n")), &entry); err != nil {
		t.Fatalf("transcript is not YAML: %v", err)
	}
	if entry.Level != "WARN" || entry.Stage != "config" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}
