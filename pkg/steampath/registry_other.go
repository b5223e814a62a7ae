//go:build !windows
// +build !windows

package steampath

// RegistryLookup has no registry to read outside Windows.
type RegistryLookup struct{}

// NewRegistryLookup returns a PathLookup that never finds anything.
func NewRegistryLookup() PathLookup {
	return RegistryLookup{}
}

// SteamPath always returns "".
func (RegistryLookup) SteamPath() string { return "" }
