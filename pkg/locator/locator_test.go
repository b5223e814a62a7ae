package locator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("MZ"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"onekey.exe", true},
		{"Onekey_v3.2.1.exe", true},
		{"ONEKEY.exe", true},
		{"my-onekey-build.exe", true},
		{"onekey.EXE", false},
		{"onekey.exe.bak", false},
		{"onekey", false},
		{"steam.exe", false},
		{"one_key.exe", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.name); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFindSingleCandidate(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.txt")
	touch(t, dir, "onekey_test.exe")
	touch(t, dir, "md5.md5")

	got, err := Find(dir)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	want := Artifact{Name: "onekey_test.exe", Path: filepath.Join(dir, "onekey_test.exe")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Onekey_b.exe")
	touch(t, dir, "Onekey_a.exe")

	for i := 0; i < 3; i++ {
		got, err := Find(dir)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if got.Name != "Onekey_a.exe" {
			t.Errorf("Find() = %q, want the first entry in listing order", got.Name)
		}
	}
}

func TestFindSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "onekey.exe"), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := Find(dir); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find() error = %v, want ErrNotFound", err)
	}
}

func TestFindNoMatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "config.json")
	touch(t, dir, "steam.exe")

	if _, err := Find(dir); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find() error = %v, want ErrNotFound", err)
	}
}

func TestFindMissingDir(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope"))
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Find() error = %v, want a read error", err)
	}
}
