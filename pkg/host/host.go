// pkg/host/host.go - host operating system probe.

package host

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	version "github.com/hashicorp/go-version"
	pshost "github.com/shirou/gopsutil/v3/host"
)

// MinimumWindowsMajor is the oldest Windows major version Onekey runs on.
const MinimumWindowsMajor = 10

// ErrUnsupported is returned by Supported for hosts Onekey cannot run on.
var ErrUnsupported = errors.New("unsupported operating system")

// Family is the host operating system family.
type Family int

const (
	FamilyOther Family = iota
	FamilyWindows
)

func (f Family) String() string {
	if f == FamilyWindows {
		return "Windows"
	}
	return "Other"
}

// Environment describes the host. VersionMajor is only set for Windows.
type Environment struct {
	Family       Family
	VersionMajor int
	Version      string
	Platform     string
}

// Prober reads the host environment.
type Prober interface {
	Probe(ctx context.Context) (Environment, error)
}

// RealProber implements Prober using gopsutil, with a WMI fallback for the
// version string on Windows.
type RealProber struct {
	goos            string
	platformInfo    func(ctx context.Context) (platform, family, version string, err error)
	fallbackVersion func() (string, error)
}

// NewProber creates a prober for the running host.
func NewProber() Prober {
	return &RealProber{
		goos:            runtime.GOOS,
		platformInfo:    pshost.PlatformInformationWithContext,
		fallbackVersion: wmiVersion,
	}
}

// Probe returns the host environment. On Windows an unreadable or unparsable
// version is an error; on other families the version is informational only.
func (p *RealProber) Probe(ctx context.Context) (Environment, error) {
	env := Environment{Family: familyOf(p.goos)}

	platform, _, ver, err := p.platformInfo(ctx)
	if err != nil && ctx.Err() != nil {
		return env, fmt.Errorf("host probe cancelled: %w", ctx.Err())
	}
	env.Platform = strings.TrimSpace(platform)
	env.Version = strings.TrimSpace(ver)

	if env.Family != FamilyWindows {
		return env, nil
	}

	if env.Version == "" && p.fallbackVersion != nil {
		if v, ferr := p.fallbackVersion(); ferr == nil {
			env.Version = strings.TrimSpace(v)
		} else if err == nil {
			err = ferr
		}
	}
	if env.Version == "" {
		if err == nil {
			err = errors.New("empty version string")
		}
		return env, fmt.Errorf("could not determine Windows version: %w", err)
	}

	major, err := ParseMajor(env.Version)
	if err != nil {
		return env, err
	}
	env.VersionMajor = major
	return env, nil
}

// ParseMajor returns the first segment of a version string such as
// "10.0.22631 Build 22631".
func ParseMajor(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty version string")
	}
	v, err := version.NewVersion(fields[0])
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", s, err)
	}
	return v.Segments()[0], nil
}

// Supported reports whether Onekey can run on env.
func Supported(env Environment) error {
	if env.Family != FamilyWindows {
		return fmt.Errorf("%w: %s family, Windows %d or later required", ErrUnsupported, env.Family, MinimumWindowsMajor)
	}
	if env.VersionMajor < MinimumWindowsMajor {
		return fmt.Errorf("%w: Windows %d, Windows %d or later required", ErrUnsupported, env.VersionMajor, MinimumWindowsMajor)
	}
	return nil
}

func familyOf(goos string) Family {
	if goos == "windows" {
		return FamilyWindows
	}
	return FamilyOther
}
