// pkg/logging/console.go - colored console renderer for the event stream.

package logging

import (
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGreen  = "\033[32m"
)

// Console prints events as timestamped lines.
type Console struct {
	mu     sync.Mutex
	logger *log.Logger
	level  LogLevel
	color  bool
}

// NewConsole creates a console renderer that shows events up to level.
func NewConsole(w io.Writer, level LogLevel) *Console {
	return &Console{
		logger: log.New(w, "", 0),
		level:  level,
		color:  true,
	}
}

// SetColor toggles ANSI coloring.
func (c *Console) SetColor(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = enabled
}

// SetOutput changes the output destination.
func (c *Console) SetOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.SetOutput(w)
}

// Emit renders e if its level is enabled.
func (c *Console) Emit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.Level > c.level {
		return
	}

	line := formatLine(e)
	if !c.color {
		c.logger.Println(line)
		return
	}
	c.logger.Printf("%s%s%s", levelColor(e), line, colorReset)
}

// formatLine renders the traditional "[ts] LEVEL [stage] message k=v" line.
func formatLine(e Event) string {
	ts := e.Time.Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %-5s", ts, e.Level)
	if e.Stage != "" {
		line += fmt.Sprintf(" [%s]", e.Stage)
	}
	line += " " + e.Message

	keys := make([]string, 0, len(e.Properties))
	for k := range e.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Long property lists read better one per line.
	if len(keys) > 4 {
		for _, k := range keys {
			line += fmt.Sprintf("\n        %s: %v", k, e.Properties[k])
		}
	} else {
		for _, k := range keys {
			line += fmt.Sprintf(" %s=%v", k, e.Properties[k])
		}
	}

	if e.Level == LevelError {
		line = "----------------------------------------\n" + line
	}
	return line
}

func levelColor(e Event) string {
	switch e.Level {
	case LevelError:
		return colorRed
	case LevelWarn:
		return colorYellow
	case LevelDebug:
		return colorBlue
	}
	if passed, ok := e.Properties["result"].(string); ok && passed == "pass" {
		return colorGreen
	}
	return ""
}
