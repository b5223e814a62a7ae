// pkg/steampath/steampath.go - Steam installation path resolution and checks.

package steampath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/windowsadmins/onekeycheck/pkg/config"
)

// Registry location of the Steam client settings under HKEY_CURRENT_USER.
const (
	RegistryKey   = `Software\Valve\Steam`
	RegistryValue = "SteamPath"
)

// PluginDir is the SteamTools plugin directory relative to the Steam root.
var PluginDir = filepath.Join("config", "stplug-in")

var (
	ErrResolutionFailed = errors.New("steam path could not be resolved")
	ErrInvalidPath      = errors.New("steam path does not exist")
	ErrMissingPluginDir = errors.New("steamtools plugin directory not found")
)

// PathLookup finds the Steam installation. Implementations swallow every
// failure and return "" when nothing was found.
type PathLookup interface {
	SteamPath() string
}

// Static is a PathLookup returning a fixed path.
type Static string

// SteamPath returns s.
func (s Static) SteamPath() string { return string(s) }

// Resolve picks the installation path. An empty Custom_Steam_Path defers to
// lookup and the result must exist. A configured path is returned as is and
// left for CheckInstall to validate.
func Resolve(cfg *config.Configuration, lookup PathLookup) (string, error) {
	if cfg != nil && cfg.CustomSteamPath != "" {
		return cfg.CustomSteamPath, nil
	}

	if lookup == nil {
		return "", fmt.Errorf("%w: no registry lookup available", ErrResolutionFailed)
	}
	path := strings.TrimSpace(lookup.SteamPath())
	if path == "" {
		return "", fmt.Errorf("%w: %s\\%s not set", ErrResolutionFailed, RegistryKey, RegistryValue)
	}
	path = filepath.Clean(path)
	if !exists(path) {
		return "", fmt.Errorf("%w: %s does not exist", ErrResolutionFailed, path)
	}
	return path, nil
}

// CheckInstall verifies that path exists and contains the plugin directory.
func CheckInstall(path string) error {
	if path == "" || !exists(path) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	plugin := filepath.Join(path, PluginDir)
	if !exists(plugin) {
		return fmt.Errorf("%w: %s", ErrMissingPluginDir, plugin)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
