// pkg/locator/locator.go - finds the Onekey executable next to the checker.

package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Marker must appear, case-insensitively, in the executable name.
	Marker = "onekey"
	// Suffix is the platform executable suffix.
	Suffix = ".exe"
)

// ErrNotFound is returned when no directory entry looks like the artifact.
var ErrNotFound = errors.New("onekey executable not found")

// Artifact is the located executable.
type Artifact struct {
	Name string
	Path string
}

// Matches reports whether name looks like the Onekey executable.
func Matches(name string) bool {
	return strings.Contains(strings.ToLower(name), Marker) && strings.HasSuffix(name, Suffix)
}

// Find returns the first regular file in dir whose name matches. The scan is
// not recursive. os.ReadDir sorts by name, so the first match is stable.
func Find(dir string) (Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Artifact{}, fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !Matches(entry.Name()) {
			continue
		}
		return Artifact{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		}, nil
	}
	return Artifact{}, ErrNotFound
}
