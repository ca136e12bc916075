// Package pipeline runs the read → layout → render sequence shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Read: decode a feature list into a [feature.Sequence]
//  2. Layout: draw a circular or linear map onto an in-memory scene
//  3. Render: serialize the scene as SVG, PNG, PDF or JSON
//
// A [Runner] wraps the stages with a [cache.Cache] so repeated requests for
// the same feature list and options skip straight to the stored artifacts:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{Topology: "circular", Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, data, opts)
//	svg := result.Artifacts["svg"]
//
// Options can also be loaded from a TOML or YAML file with [LoadConfig].
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/matzehuels/plasmap/pkg/cache"
	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/feature"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
	"github.com/matzehuels/plasmap/pkg/render/plasmid"
)

const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options configures a pipeline run. The tagged fields can come from a
// config file, JSON request or flags.
type Options struct {
	Topology string   `json:"topology,omitempty" toml:"topology" yaml:"topology,omitempty"`
	Formats  []string `json:"formats,omitempty" toml:"formats" yaml:"formats,omitempty"`
	// Scale multiplies the map size for PNG output.
	Scale float64 `json:"scale,omitempty" toml:"scale" yaml:"scale,omitempty"`
	// Static drops hover styles and scripts from SVG output.
	Static bool `json:"static,omitempty" toml:"static" yaml:"static,omitempty"`
	// PureGo rasterizes PNGs without rsvg-convert, at the cost of labels.
	PureGo bool            `json:"pure_go,omitempty" toml:"pure_go" yaml:"pure_go,omitempty"`
	Map    plasmid.Options `json:"map" toml:"map" yaml:"map"`

	// Source names the input in logs and hooks.
	Source  string      `json:"-" toml:"-" yaml:"-"`
	Refresh bool        `json:"-" toml:"-" yaml:"-"`
	Logger  *log.Logger `json:"-" toml:"-" yaml:"-"`
}

// SetDefaults fills unset fields. Map defaults are applied by the map
// itself, since they depend on the topology.
func (o *Options) SetDefaults() {
	if o.Topology == "" {
		o.Topology = string(plasmid.Circular)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = lo.Uniq(o.Formats)
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Source == "" {
		o.Source = "input"
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Map.Logger == nil {
		o.Map.Logger = o.Logger
	}
}

// Validate checks every field that can be checked without input.
func (o Options) Validate() error {
	if _, err := plasmid.ParseTopology(o.Topology); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be a positive number, got %g", o.Scale)
	}
	return o.Map.Validate()
}

// ValidateFormat checks that a format is supported. Formats are
// case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// LayoutKeyOpts returns the inputs that determine the drawn map.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Topology: o.Topology, Options: o.Map}
}

// ArtifactKeyOpts returns the inputs that determine one rendered format.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Static = o.Static
	case FormatPNG:
		k.Scale = o.Scale
		k.Static = o.PureGo
	}
	return k
}

// Result holds everything a run produced.
type Result struct {
	Sequence     *feature.Sequence
	SequenceHash string

	// Map and Scene are nil when the artifacts came from the cache.
	Map   *plasmid.Map
	Scene *canvas.Scene

	Layout    plasmid.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

type Stats struct {
	FeatureCount int
	ParseTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	ParseHit  bool
	LayoutHit bool
	RenderHit bool
}
