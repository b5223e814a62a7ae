//go:build windows
// +build windows

package host

import (
	"errors"

	"github.com/yusufpapurcu/wmi"
)

// Win32_OperatingSystem is the WMI class holding the OS version.
type Win32_OperatingSystem struct {
	Version string `wmi:"Version"`
}

// wmiVersion asks WMI for the version when gopsutil could not read it.
func wmiVersion() (string, error) {
	var systems []Win32_OperatingSystem
	if err := wmi.Query("SELECT Version FROM Win32_OperatingSystem", &systems); err != nil {
		return "", err
	}
	if len(systems) == 0 {
		return "", errors.New("no Win32_OperatingSystem instance")
	}
	return systems[0].Version, nil
}
