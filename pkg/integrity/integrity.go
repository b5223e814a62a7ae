// pkg/integrity/integrity.go - MD5 verification of the Onekey executable.

package integrity

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// SidecarName holds the expected digest next to the executable.
	SidecarName = "md5.md5"
	// BlockSize is the read size used while hashing.
	BlockSize = 4096
)

// ErrSidecarMissing means there is nothing to verify against.
var ErrSidecarMissing = errors.New("digest sidecar not found")

// Outcome is the result of a verification.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeMatch
	OutcomeMismatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	default:
		return "skipped"
	}
}

// DigestFunc computes the digest of the file at path.
type DigestFunc func(path string) (string, error)

// SidecarPath returns the location of md5.md5 inside dir.
func SidecarPath(dir string) string {
	return filepath.Join(dir, SidecarName)
}

// ReadExpected returns the trimmed digest stored in dir's sidecar. A missing
// or blank sidecar yields ErrSidecarMissing.
func ReadExpected(dir string) (string, error) {
	path := SidecarPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSidecarMissing, path)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	expected := strings.TrimSpace(string(data))
	if expected == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrSidecarMissing, path)
	}
	return expected, nil
}

// FileMD5 returns the lowercase hex MD5 of a file, read in BlockSize chunks.
func FileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, BlockSize)
	if _, err := io.CopyBuffer(h, onlyReader{f}, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// onlyReader hides *os.File's WriterTo so io.CopyBuffer uses buf.
type onlyReader struct {
	io.Reader
}

// Verify hashes path with digest and compares the result to expected. The
// comparison ignores case so uppercase sidecars match.
func Verify(path, expected string, digest DigestFunc) (Outcome, string, error) {
	if digest == nil {
		digest = FileMD5
	}
	actual, err := digest(path)
	if err != nil {
		return OutcomeSkipped, "", fmt.Errorf("hashing %s: %w", path, err)
	}
	if strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return OutcomeMatch, actual, nil
	}
	return OutcomeMismatch, actual, nil
}
