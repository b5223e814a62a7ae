//go:build !windows
// +build !windows

package main

// enableANSIConsole is a no-op; other terminals understand ANSI already.
func enableANSIConsole() {}
