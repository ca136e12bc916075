package plasmid

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/feature"
)

// Topology selects the map shape.
type Topology string

const (
	Circular Topology = "circular"
	Linear   Topology = "linear"
)

// ParseTopology accepts "circular" or "linear" (case-insensitive). An empty
// string yields Circular.
func ParseTopology(s string) (Topology, error) {
	switch Topology(strings.ToLower(strings.TrimSpace(s))) {
	case "", Circular:
		return Circular, nil
	case Linear:
		return Linear, nil
	}
	return "", errors.New(errors.ErrCodeInvalidTopology, "unknown topology %q (want circular or linear)", s)
}

const (
	DefaultMapDOMID         = "giraffe-draw-map"
	DefaultMapWidth         = 640
	DefaultMapHeight        = 640
	DefaultOpacity          = 0.7
	DefaultDigestFadeFactor = 0.15

	DefaultCircularLabelOffset = 10
	DefaultLinearLabelOffset   = 50
)

// Options configures a map. Optional scalars are pointers so that an
// explicit zero (opacity 0, no tick marks) can be told apart from unset.
type Options struct {
	MapDOMID          string   `json:"map_dom_id,omitempty" toml:"map_dom_id" yaml:"map_dom_id,omitempty"`
	MapWidth          int      `json:"map_width,omitempty" toml:"map_width" yaml:"map_width,omitempty"`
	MapHeight         int      `json:"map_height,omitempty" toml:"map_height" yaml:"map_height,omitempty"`
	PlasmidName       string   `json:"plasmid_name,omitempty" toml:"plasmid_name" yaml:"plasmid_name,omitempty"`
	LabelOffset       *int     `json:"label_offset,omitempty" toml:"label_offset" yaml:"label_offset,omitempty"`
	Cutters           []int    `json:"cutters,omitempty" toml:"cutters" yaml:"cutters,omitempty"`
	Opacity           *float64 `json:"opacity,omitempty" toml:"opacity" yaml:"opacity,omitempty"`
	FadeTime          int      `json:"fade_time,omitempty" toml:"fade_time" yaml:"fade_time,omitempty"`
	Digest            bool     `json:"digest,omitempty" toml:"digest" yaml:"digest,omitempty"`
	DigestFadeFactor  *float64 `json:"digest_fade_factor,omitempty" toml:"digest_fade_factor" yaml:"digest_fade_factor,omitempty"`
	DrawTicMarks      *bool    `json:"draw_tic_mark,omitempty" toml:"draw_tic_mark" yaml:"draw_tic_mark,omitempty"`
	DrawPlasmidSize   *bool    `json:"draw_plasmid_size,omitempty" toml:"draw_plasmid_size" yaml:"draw_plasmid_size,omitempty"`
	RegionStartOffset int      `json:"region_start_offset,omitempty" toml:"region_start_offset" yaml:"region_start_offset,omitempty"`
	ShowExtraFeatures bool     `json:"show_extra_features,omitempty" toml:"show_extra_features" yaml:"show_extra_features,omitempty"`

	// FeatureClick is called with the clicked feature.
	FeatureClick func(*feature.Feature) `json:"-" toml:"-" yaml:"-"`
	Logger       *log.Logger            `json:"-" toml:"-" yaml:"-"`
}

// SetDefaults fills unset fields. The label offset default depends on the
// topology.
func (o *Options) SetDefaults(t Topology) {
	if o.MapDOMID == "" {
		o.MapDOMID = DefaultMapDOMID
	}
	if o.MapWidth <= 0 {
		o.MapWidth = DefaultMapWidth
	}
	if o.MapHeight <= 0 {
		o.MapHeight = DefaultMapHeight
	}
	if o.LabelOffset == nil {
		v := DefaultCircularLabelOffset
		if t == Linear {
			v = DefaultLinearLabelOffset
		}
		o.LabelOffset = &v
	}
	if o.Cutters == nil {
		o.Cutters = []int{1}
	}
	if o.Opacity == nil {
		o.Opacity = ptr(DefaultOpacity)
	}
	if o.DigestFadeFactor == nil {
		o.DigestFadeFactor = ptr(DefaultDigestFadeFactor)
	}
	if o.DrawTicMarks == nil {
		o.DrawTicMarks = ptr(true)
	}
	if o.DrawPlasmidSize == nil {
		o.DrawPlasmidSize = ptr(true)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate rejects values no map can be drawn with.
func (o Options) Validate() error {
	if err := errors.ValidatePlasmidName(o.PlasmidName); err != nil {
		return err
	}
	if o.Opacity != nil && !unit(*o.Opacity) {
		return errors.New(errors.ErrCodeInvalidConfig, "opacity must be within [0, 1], got %g", *o.Opacity)
	}
	if o.DigestFadeFactor != nil && !unit(*o.DigestFadeFactor) {
		return errors.New(errors.ErrCodeInvalidConfig, "digest_fade_factor must be within [0, 1], got %g", *o.DigestFadeFactor)
	}
	if o.FadeTime < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fade_time must not be negative")
	}
	if o.LabelOffset != nil && *o.LabelOffset < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "label_offset must not be negative")
	}
	for _, c := range o.Cutters {
		if c <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "cutter counts must be positive, got %d", c)
		}
	}
	return nil
}

// unit reports whether v is a finite number in [0, 1]. NaN fails every
// comparison, so it is checked first.
func unit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func (o Options) fadeDuration() time.Duration {
	return time.Duration(o.FadeTime) * time.Millisecond
}

func ptr[T any](v T) *T { return &v }
