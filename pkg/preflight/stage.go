// pkg/preflight/stage.go - pipeline states and the error taxonomy.

package preflight

import "fmt"

// Stage is the furthest state the pipeline reached.
type Stage int

const (
	StageStart Stage = iota
	StageEnvironmentOK
	StageArtifactFound
	StageConfigPresent
	StageConfigValid
	StagePathResolved
	StagePathAndPluginOK
	StageIntegrityChecked
	StageDone
)

var stageNames = [...]string{
	StageStart:            "Start",
	StageEnvironmentOK:    "EnvironmentOK",
	StageArtifactFound:    "ArtifactFound",
	StageConfigPresent:    "ConfigPresent",
	StageConfigValid:      "ConfigValid",
	StagePathResolved:     "PathResolved",
	StagePathAndPluginOK:  "PathAndPluginOK",
	StageIntegrityChecked: "IntegrityChecked",
	StageDone:             "Done",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Check names used as the stage label of emitted events.
const (
	CheckEnvironment = "environment"
	CheckArtifact    = "artifact"
	CheckConfig      = "config"
	CheckSteamPath   = "steam-path"
	CheckPlugin      = "plugin"
	CheckIntegrity   = "integrity"
	CheckSummary     = "summary"
)

// ErrorKind classifies check failures.
type ErrorKind int

const (
	KindEnvironmentUnsupported ErrorKind = iota + 1
	KindArtifactNotFound
	KindConfigMissing
	KindConfigMalformed
	KindConfigFieldMissing
	KindConfigFieldTypeMismatch
	KindPathResolutionFailed
	KindPathInvalid
	KindPluginDirMissing
	KindDigestSidecarMissing
	KindDigestUnreadable
	KindDigestMismatch
)

var kindNames = map[ErrorKind]string{
	KindEnvironmentUnsupported:  "EnvironmentUnsupported",
	KindArtifactNotFound:        "ArtifactNotFound",
	KindConfigMissing:           "ConfigMissing",
	KindConfigMalformed:         "ConfigMalformed",
	KindConfigFieldMissing:      "ConfigFieldMissing",
	KindConfigFieldTypeMismatch: "ConfigFieldTypeMismatch",
	KindPathResolutionFailed:    "PathResolutionFailed",
	KindPathInvalid:             "PathInvalid",
	KindPluginDirMissing:        "PluginDirMissing",
	KindDigestSidecarMissing:    "DigestSidecarMissing",
	KindDigestUnreadable:        "DigestUnreadable",
	KindDigestMismatch:          "DigestMismatch",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Soft kinds never halt the pipeline.
func (k ErrorKind) Soft() bool {
	switch k {
	case KindConfigMissing, KindDigestSidecarMissing, KindDigestUnreadable, KindDigestMismatch:
		return true
	}
	return false
}

// StageError records why a check failed.
type StageError struct {
	Check string
	Kind  ErrorKind
	// Field is set for configuration field errors.
	Field string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s check failed (%s): %v", e.Check, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
