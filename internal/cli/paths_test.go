package cli

import (
	"path/filepath"
	"testing"
)

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(customCache, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		output, input string
		want          string
	}{
		{"", "maps/puc19.json", "maps/puc19"},
		{"", "-", appName},
		{"out/map", "puc19.json", "out/map"},
		{"out/map.svg", "puc19.json", "out/map"},
		{"out/map.v2", "puc19.json", "out/map.v2"},
	}
	for _, tt := range tests {
		if got := outputBase(tt.output, tt.input); got != tt.want {
			t.Errorf("outputBase(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	if got := artifactPath("puc19", "svg"); got != "puc19.svg" {
		t.Errorf("artifactPath(svg) = %q", got)
	}
	if got := artifactPath("puc19", "json"); got != "puc19.layout.json" {
		t.Errorf("artifactPath(json) = %q", got)
	}
}
