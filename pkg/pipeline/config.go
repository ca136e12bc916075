package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/plasmap/pkg/errors"
)

// LoadConfig reads pipeline options from a .toml, .yaml/.yml or .json
// file. Unknown keys are rejected so typos do not silently fall back to
// defaults.
//
//	topology = "linear"
//	formats = ["svg", "png"]
//
//	[map]
//	plasmid_name = "pUC19"
//	cutters = [1, 2]
func LoadConfig(path string) (Options, error) {
	if err := errors.ValidateConfigFilename(path); err != nil {
		return Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes options in the format named by ext.
func ParseConfig(data []byte, ext string) (Options, error) {
	var o Options
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		md, err := toml.Decode(string(data), &o)
		if err != nil {
			return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&o); err != nil && err != io.EOF {
			return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&o); err != nil {
			return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode json")
		}
	default:
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .json)", ext)
	}
	return o, o.Validate()
}
