//go:build !windows
// +build !windows

package host

import "errors"

func wmiVersion() (string, error) {
	return "", errors.New("WMI is only available on Windows")
}
