package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(customCache, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"", defaultOutput},
		{"tree", "tree"},
		{"tree.svg", "tree"},
		{"tree.PNG", "tree.PNG"},
		{"dir/tree.json", "dir/tree"},
		{"tree.v2", "tree.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestSnapshotDirUnderDataHome(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, "snapshot", "save", "paths", "1"); err != nil {
		t.Fatalf("save error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "data", appName, "snapshots"))
	if err != nil {
		t.Fatalf("snapshot dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".json") {
		t.Errorf("snapshot dir holds %v, want one .json file", entries)
	}
}
