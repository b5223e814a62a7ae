// pkg/preflight/preflight.go - ordered environment checks for Onekey.

package preflight

import (
	"context"
	"errors"

	"github.com/windowsadmins/onekeycheck/pkg/config"
	"github.com/windowsadmins/onekeycheck/pkg/host"
	"github.com/windowsadmins/onekeycheck/pkg/integrity"
	"github.com/windowsadmins/onekeycheck/pkg/locator"
	"github.com/windowsadmins/onekeycheck/pkg/logging"
	"github.com/windowsadmins/onekeycheck/pkg/steampath"
)

const (
	summaryHealthy = "Test complete, no environment problems found with your Onekey"
	summaryDamaged = "Test complete, but the Onekey executable did not pass the integrity check"
)

// Runner runs the checks against Dir. Zero-value fields fall back to the
// real host, the registry, MD5 and a discarding sink.
type Runner struct {
	Dir    string
	Prober host.Prober
	// Lookup is only called when config.json leaves Custom_Steam_Path empty.
	Lookup func() steampath.PathLookup
	Digest integrity.DigestFunc
	Sink   logging.Sink
}

// Report is the outcome of one run.
type Report struct {
	Reached Stage
	// Err is the failure that halted the pipeline, nil when it reached Done.
	Err *StageError
	// Notices are soft failures that did not halt the pipeline.
	Notices []*StageError

	Environment host.Environment
	Artifact    locator.Artifact
	Config      *config.Configuration
	InstallPath string
	Integrity   integrity.Outcome
	Digest      string
}

// Completed reports whether every check ran.
func (r Report) Completed() bool {
	return r.Reached == StageDone
}

// Healthy reports whether the run completed without any integrity problem.
func (r Report) Healthy() bool {
	return r.Completed() && r.intact()
}

// intact reports whether no notice so far puts the artifact in doubt.
func (r Report) intact() bool {
	for _, n := range r.Notices {
		if n.Kind == KindDigestMismatch || n.Kind == KindDigestUnreadable {
			return false
		}
	}
	return true
}

// Notice returns the first soft failure of kind, or nil.
func (r Report) Notice(kind ErrorKind) *StageError {
	for _, n := range r.Notices {
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

// Run executes the checks in order and stops at the first hard failure.
// Failures are reported through the sink and the returned Report; Run never
// returns an error.
func (r *Runner) Run(ctx context.Context) Report {
	log := logging.New(r.Sink)
	rep := Report{Reached: StageStart}
	dir := r.Dir
	if dir == "" {
		dir = "."
	}

	prober := r.Prober
	if prober == nil {
		prober = host.NewProber()
	}
	env, err := prober.Probe(ctx)
	rep.Environment = env
	if err == nil {
		err = host.Supported(env)
	}
	if err != nil {
		log.Error(CheckEnvironment, "Onekey only supports Windows 10 and later, please check your system version",
			"family", env.Family.String(), "version", env.Version, "error", err)
		return record(rep, CheckEnvironment, KindEnvironmentUnsupported, err)
	}
	log.Info(CheckEnvironment, "System version check passed, running Windows 10 or later",
		"platform", env.Platform, "version", env.Version, "result", "pass")
	rep.Reached = StageEnvironmentOK

	artifact, err := locator.Find(dir)
	if err != nil {
		log.Error(CheckArtifact, "No Onekey executable found in the current directory", "dir", dir, "error", err)
		return record(rep, CheckArtifact, KindArtifactNotFound, err)
	}
	log.Info(CheckArtifact, "Found Onekey executable", "file", artifact.Name, "result", "pass")
	rep.Artifact = artifact
	rep.Reached = StageArtifactFound

	if config.Exists(dir) {
		var stop bool
		rep, stop = r.checkConfig(log, rep, dir)
		if stop {
			return rep
		}
	} else {
		log.Warn(CheckConfig, "Configuration file config.json not found, skipping configuration checks",
			"path", config.Path(dir))
		rep = record(rep, CheckConfig, KindConfigMissing, config.ErrMissingFile)
	}

	rep = r.checkIntegrity(log, rep, dir)
	rep.Reached = StageIntegrityChecked

	if rep.intact() {
		log.Info(CheckSummary, summaryHealthy, "result", "pass")
	} else {
		log.Warn(CheckSummary, summaryDamaged)
	}
	rep.Reached = StageDone
	return rep
}

// checkConfig runs the configuration-dependent sub-chain. It only runs when
// config.json exists.
func (r *Runner) checkConfig(log *logging.Logger, rep Report, dir string) (Report, bool) {
	log.Info(CheckConfig, "Configuration file config.json found", "path", config.Path(dir))
	rep.Reached = StageConfigPresent

	cfg, err := config.Load(dir)
	if err != nil {
		kind, field := classifyConfigError(err)
		switch kind {
		case KindConfigFieldMissing:
			log.Error(CheckConfig, "config.json is missing a required key", "field", field)
		case KindConfigFieldTypeMismatch:
			log.Error(CheckConfig, "Custom_Steam_Path is not a valid string", "field", field)
		default:
			log.Error(CheckConfig, "config.json could not be read", "error", err)
		}
		rep = record(rep, CheckConfig, kind, err)
		rep.Err.Field = field
		return rep, true
	}
	log.Info(CheckConfig, "config.json format validated", "result", "pass")
	rep.Config = cfg
	rep.Reached = StageConfigValid

	if cfg.CustomSteamPath == "" {
		log.Debug(CheckSteamPath, "Custom_Steam_Path is empty, reading Steam path from the registry",
			"key", steampath.RegistryKey, "value", steampath.RegistryValue)
	}
	path, err := steampath.Resolve(cfg, lazyLookup(r.Lookup))
	if err != nil {
		log.Error(CheckSteamPath, "Steam path from the registry is invalid, please check your Steam installation", "error", err)
		return record(rep, CheckSteamPath, KindPathResolutionFailed, err), true
	}
	rep.InstallPath = path
	rep.Reached = StagePathResolved

	if err := steampath.CheckInstall(path); err != nil {
		if errors.Is(err, steampath.ErrMissingPluginDir) {
			log.Error(CheckPlugin, "SteamTools plugin directory not found, please check your SteamTools installation",
				"path", path, "plugin_dir", steampath.PluginDir)
			return record(rep, CheckPlugin, KindPluginDirMissing, err), true
		}
		log.Error(CheckSteamPath, "Steam path is invalid", "path", path)
		return record(rep, CheckSteamPath, KindPathInvalid, err), true
	}
	log.Info(CheckSteamPath, "Steam path verified", "path", path, "result", "pass")
	rep.Reached = StagePathAndPluginOK
	return rep, false
}

// checkIntegrity compares the artifact against md5.md5. Every outcome is
// soft: a missing sidecar skips the check, a mismatch is recorded.
func (r *Runner) checkIntegrity(log *logging.Logger, rep Report, dir string) Report {
	expected, err := integrity.ReadExpected(dir)
	switch {
	case errors.Is(err, integrity.ErrSidecarMissing):
		log.Warn(CheckIntegrity, "MD5 file not available, skipping integrity check",
			"path", integrity.SidecarPath(dir), "error", err)
		return record(rep, CheckIntegrity, KindDigestSidecarMissing, err)
	case err != nil:
		log.Error(CheckIntegrity, "MD5 file could not be read", "path", integrity.SidecarPath(dir), "error", err)
		return record(rep, CheckIntegrity, KindDigestUnreadable, err)
	}
	log.Info(CheckIntegrity, "Read expected MD5 from file", "path", integrity.SidecarPath(dir))

	outcome, actual, err := integrity.Verify(rep.Artifact.Path, expected, r.Digest)
	rep.Integrity = outcome
	rep.Digest = actual
	switch {
	case err != nil:
		log.Error(CheckIntegrity, "Onekey executable could not be hashed", "file", rep.Artifact.Name, "error", err)
		rep = record(rep, CheckIntegrity, KindDigestUnreadable, err)
	case outcome == integrity.OutcomeMismatch:
		log.Error(CheckIntegrity, "Onekey executable failed the integrity check, please make sure the download is complete",
			"expected", expected, "actual", actual)
		rep = record(rep, CheckIntegrity, KindDigestMismatch,
			errors.New("digest mismatch: expected "+expected+", got "+actual))
	default:
		log.Info(CheckIntegrity, "Onekey executable integrity verified", "md5", actual, "result", "pass")
	}
	return rep
}

// record files a failure on rep: soft kinds become notices, anything else
// halts the run.
func record(rep Report, check string, kind ErrorKind, err error) Report {
	e := &StageError{Check: check, Kind: kind, Err: err}
	if kind.Soft() {
		rep.Notices = append(rep.Notices, e)
		return rep
	}
	rep.Err = e
	return rep
}

func classifyConfigError(err error) (ErrorKind, string) {
	var fieldErr *config.FieldError
	field := ""
	if errors.As(err, &fieldErr) {
		field = fieldErr.Field
	}
	switch {
	case errors.Is(err, config.ErrMissingField):
		return KindConfigFieldMissing, field
	case errors.Is(err, config.ErrTypeMismatch):
		return KindConfigFieldTypeMismatch, field
	default:
		return KindConfigMalformed, field
	}
}

// lazyLookup defers building the registry lookup until the path is asked for.
type lazyLookup func() steampath.PathLookup

func (l lazyLookup) SteamPath() string {
	factory := l
	if factory == nil {
		factory = steampath.NewRegistryLookup
	}
	lookup := factory()
	if lookup == nil {
		return ""
	}
	return lookup.SteamPath()
}
