package errors

import (
	"strings"
	"testing"
)

func TestValidatePlasmidName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "pUC19", false},
		{"with spaces", "pET-28a(+) vector", false},

		{"too long", strings.Repeat("x", 300), true},
		{"newline", "p\nUC", true},
		{"null byte", "p\x00UC", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlasmidName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlasmidName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfigFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"toml", "plasmap.toml", false},
		{"yaml", "config/map.yaml", false},
		{"yml upper", "MAP.YML", false},

		{"empty", "", true},
		{"json", "map.json", false},
		{"ini", "map.ini", true},
		{"no extension", "plasmap", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfigFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
