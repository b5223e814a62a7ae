// pkg/logging/logging.go - leveled event logging for onekeycheck.
//
// Every check outcome is emitted as an Event. Sinks decide what happens to
// events:
// - Console prints timestamped, colored lines for the operator
// - Recorder keeps the ordered stream in memory
// - Transcript persists the stream as JSON lines or YAML documents

package logging

import (
	"fmt"
	"time"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	// Define log levels.
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the LogLevel.
func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// LevelFromVerbosity maps the number of -v flags to the console level.
// Check results are info messages, so the quietest setting still shows them.
func LevelFromVerbosity(verbosity int) LogLevel {
	if verbosity > 0 {
		return LevelDebug
	}
	return LevelInfo
}

// Event is a single entry of the ordered event stream.
type Event struct {
	Time       time.Time
	Level      LogLevel
	Stage      string
	Message    string
	Properties map[string]interface{}
}

// Sink receives events. Implementations must not panic and have no way to
// report failure back to the caller.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Multi fans an event out to several sinks in order.
type Multi []Sink

// Emit forwards e to every non-nil sink.
func (m Multi) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Logger builds events and hands them to a sink.
type Logger struct {
	sink Sink
	now  func() time.Time
}

// New creates a Logger writing to sink. A nil sink discards everything.
func New(sink Sink) *Logger {
	if sink == nil {
		sink = Discard
	}
	return &Logger{sink: sink, now: time.Now}
}

// Info logs informational messages.
func (l *Logger) Info(stage, message string, keyValues ...interface{}) {
	l.logMessage(LevelInfo, stage, message, keyValues...)
}

// Debug logs debug messages.
func (l *Logger) Debug(stage, message string, keyValues ...interface{}) {
	l.logMessage(LevelDebug, stage, message, keyValues...)
}

// Warn logs warning messages.
func (l *Logger) Warn(stage, message string, keyValues ...interface{}) {
	l.logMessage(LevelWarn, stage, message, keyValues...)
}

// Error logs error messages.
func (l *Logger) Error(stage, message string, keyValues ...interface{}) {
	l.logMessage(LevelError, stage, message, keyValues...)
}

// logMessage converts keyValues to properties and emits the event.
// A misbehaving sink never takes the caller down with it.
func (l *Logger) logMessage(level LogLevel, stage, message string, keyValues ...interface{}) {
	defer func() {
		_ = recover()
	}()

	var properties map[string]interface{}
	if len(keyValues) > 1 {
		properties = make(map[string]interface{}, len(keyValues)/2)
		for i := 0; i+1 < len(keyValues); i += 2 {
			key := fmt.Sprintf("%v", keyValues[i])
			properties[key] = keyValues[i+1]
		}
	}

	l.sink.Emit(Event{
		Time:       l.now(),
		Level:      level,
		Stage:      stage,
		Message:    message,
		Properties: properties,
	})
}
