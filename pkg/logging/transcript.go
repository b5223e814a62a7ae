// pkg/logging/transcript.go - structured transcript of a run for external tools.

package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects the transcript encoding.
type Format int

const (
	FormatJSONLines Format = iota
	FormatYAML
)

// LogEntry represents a structured transcript entry.
type LogEntry struct {
	Time       int64                  `json:"time" yaml:"time"`                                 // Unix timestamp
	Timestamp  string                 `json:"timestamp" yaml:"timestamp"`                       // ISO 8601 formatted time
	Level      string                 `json:"level" yaml:"level"`                               // Log level
	Stage      string                 `json:"stage" yaml:"stage"`                               // Pipeline stage
	Message    string                 `json:"message" yaml:"message"`                           // Log message
	PID        int64                  `json:"pid" yaml:"pid"`                                   // Process ID
	Hostname   string                 `json:"hostname" yaml:"hostname"`                         // System hostname
	SessionID  string                 `json:"session_id" yaml:"session_id"`                     // Unique session identifier
	Properties map[string]interface{} `json:"properties,omitempty" yaml:"properties,omitempty"` // Additional structured data
}

// Transcript writes events to w in the selected format.
type Transcript struct {
	mu        sync.Mutex
	w         io.Writer
	closer    io.Closer
	format    Format
	hostname  string
	pid       int64
	sessionID string
}

// NewTranscript creates a transcript writer on w.
func NewTranscript(w io.Writer, format Format) *Transcript {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	return &Transcript{
		w:         w,
		format:    format,
		hostname:  hostname,
		pid:       int64(os.Getpid()),
		sessionID: generateSessionID(time.Now()),
	}
}

// OpenTranscript creates the file at path and picks the format from its
// extension: .yaml and .yml write YAML documents, anything else JSON lines.
func OpenTranscript(path string) (*Transcript, error) {
	format := FormatJSONLines
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript file: %w", err)
	}
	t := NewTranscript(f, format)
	t.closer = f
	return t, nil
}

// generateSessionID creates a unique session identifier
func generateSessionID(now time.Time) string {
	return fmt.Sprintf("onekeycheck-%d-%s", now.Unix(), now.Format("2006-01-02-150405"))
}

// Emit writes e. Write errors are dropped; the transcript is best effort.
func (t *Transcript) Emit(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := LogEntry{
		Time:       e.Time.Unix(),
		Timestamp:  e.Time.Format(time.RFC3339),
		Level:      e.Level.String(),
		Stage:      e.Stage,
		Message:    e.Message,
		PID:        t.pid,
		Hostname:   t.hostname,
		SessionID:  t.sessionID,
		Properties: stringifyErrors(e.Properties),
	}

	switch t.format {
	case FormatYAML:
		if data, err := yaml.Marshal(entry); err == nil {
			_, _ = io.WriteString(t.w, "---\n"+string(data))
		}
	default:
		if data, err := json.Marshal(entry); err == nil {
			_, _ = t.w.Write(append(data, '\n'))
		}
	}
}

// Close closes the underlying file when the transcript owns one.
func (t *Transcript) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

// stringifyErrors replaces error values, which encode as {} in JSON, with
// their messages.
func stringifyErrors(props map[string]interface{}) map[string]interface{} {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		if err, ok := v.(error); ok {
			out[k] = err.Error()
			continue
		}
		out[k] = v
	}
	return out
}
