// pkg/config/config.go - loading and validating Onekey's config.json.

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration document Onekey reads from its directory.
const FileName = "config.json"

// Required keys, in the order they are validated.
const (
	KeyGithubToken     = "Github_Personal_Token"
	KeyCustomSteamPath = "Custom_Steam_Path"
	KeyQA              = "QA1"
	KeyTutorial        = "教程"
)

// RequiredKeys lists every key config.json must contain.
var RequiredKeys = []string{KeyGithubToken, KeyCustomSteamPath, KeyQA, KeyTutorial}

var (
	ErrMissingFile  = errors.New("configuration file not found")
	ErrMissingField = errors.New("missing required field")
	ErrTypeMismatch = errors.New("field is not a string")
)

// FieldError names the field that failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%v: %s", e.Err, e.Field) }
func (e *FieldError) Unwrap() error { return e.Err }

// MalformedError reports a document that is not a JSON object.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("configuration file %s is not a valid JSON object: %v", e.Path, e.Err)
}
func (e *MalformedError) Unwrap() error { return e.Err }

// Configuration holds the validated contents of config.json.
type Configuration struct {
	GithubToken     string
	CustomSteamPath string
	QA              json.RawMessage
	Tutorial        json.RawMessage
}

// Path returns the location of config.json inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether config.json is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// Load reads and validates config.json from dir.
func Load(dir string) (*Configuration, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("reading configuration file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	var malformed *MalformedError
	if errors.As(err, &malformed) {
		malformed.Path = path
	}
	return cfg, err
}

// Parse validates a config.json document. Only the first violation is
// reported: missing keys in RequiredKeys order, then the path type.
func Parse(data []byte) (*Configuration, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &MalformedError{Err: err}
	}
	if fields == nil {
		return nil, &MalformedError{Err: errors.New("document is null")}
	}

	for _, key := range RequiredKeys {
		if _, ok := fields[key]; !ok {
			return nil, &FieldError{Field: key, Err: ErrMissingField}
		}
	}

	steamPath, ok := decodeString(fields[KeyCustomSteamPath])
	if !ok {
		return nil, &FieldError{Field: KeyCustomSteamPath, Err: ErrTypeMismatch}
	}

	token, ok := decodeString(fields[KeyGithubToken])
	if !ok {
		token = string(fields[KeyGithubToken])
	}

	return &Configuration{
		GithubToken:     token,
		CustomSteamPath: steamPath,
		QA:              fields[KeyQA],
		Tutorial:        fields[KeyTutorial],
	}, nil
}

// decodeString returns the value of a JSON string. null is not a string.
func decodeString(raw json.RawMessage) (string, bool) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Redact hides all but the first four characters of a secret.
func Redact(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "********"
	default:
		return secret[:4] + "********"
	}
}

// YAML renders the configuration for display with the token redacted.
func (c *Configuration) YAML() ([]byte, error) {
	view := struct {
		GithubToken     string      `yaml:"Github_Personal_Token"`
		CustomSteamPath string      `yaml:"Custom_Steam_Path"`
		QA              interface{} `yaml:"QA1"`
		Tutorial        interface{} `yaml:"教程"`
	}{
		GithubToken:     Redact(c.GithubToken),
		CustomSteamPath: c.CustomSteamPath,
	}
	if err := unmarshalRaw(c.QA, &view.QA); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", KeyQA, err)
	}
	if err := unmarshalRaw(c.Tutorial, &view.Tutorial); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", KeyTutorial, err)
	}
	return yaml.Marshal(view)
}

func unmarshalRaw(raw json.RawMessage, dst *interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
