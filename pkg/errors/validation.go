package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePlasmidName validates a display name for the map title.
// Names end up inside SVG text nodes, so control characters are rejected.
func ValidatePlasmidName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "plasmid name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "plasmid name contains invalid control characters")
		}
	}

	return nil
}

// configExtensions lists the file extensions accepted by config loading.
var configExtensions = map[string]bool{".toml": true, ".yaml": true, ".yml": true, ".json": true}

// ValidateConfigFilename checks that a config path has a supported extension.
func ValidateConfigFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "config path cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !configExtensions[ext] {
		return New(ErrCodeInvalidConfig, "unsupported config extension %q (must be .toml, .yaml, .yml or .json)", ext)
	}

	return nil
}
