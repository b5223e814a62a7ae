//go:build windows
// +build windows

package steampath

import (
	"golang.org/x/sys/windows/registry"
)

// RegistryLookup reads the Steam path from HKEY_CURRENT_USER.
type RegistryLookup struct{}

// NewRegistryLookup returns the registry-backed PathLookup.
func NewRegistryLookup() PathLookup {
	return RegistryLookup{}
}

// SteamPath returns the SteamPath value or "" on any failure.
func (RegistryLookup) SteamPath() string {
	key, err := registry.OpenKey(registry.CURRENT_USER, RegistryKey, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer key.Close()

	val, _, err := key.GetStringValue(RegistryValue)
	if err != nil {
		return ""
	}
	return val
}
