package cli

import (
	"github.com/spf13/pflag"

	"github.com/matzehuels/plasmap/pkg/pipeline"
)

// mapFlags holds the map options shared by render, inspect and view. Only
// flags the user set override the config file.
type mapFlags struct {
	config      string
	topology    string
	name        string
	domID       string
	width       int
	height      int
	labelOffset int
	opacity     float64
	fadeTime    int
	digest      bool
	digestFade  float64
	cutters     string
	extra       bool
	noTicks     bool
	noSize      bool
	offset      int
}

func (f *mapFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.config, "config", "c", "", "options file (.toml, .yaml or .json)")
	fs.StringVarP(&f.topology, "topology", "t", "circular", "map topology: circular or linear")
	fs.StringVar(&f.name, "name", "", "plasmid name drawn in the centre")
	fs.StringVar(&f.domID, "dom-id", "", "id of the svg element")
	fs.IntVar(&f.width, "width", 0, "map width in pixels")
	fs.IntVar(&f.height, "height", 0, "map height in pixels")
	fs.IntVar(&f.labelOffset, "label-offset", 0, "gap between the outermost lane and the labels")
	fs.Float64Var(&f.opacity, "opacity", 0, "feature opacity")
	fs.IntVar(&f.fadeTime, "fade-time", 0, "hover transition in milliseconds")
	fs.BoolVar(&f.digest, "digest", false, "fade everything but enzymes")
	fs.Float64Var(&f.digestFade, "digest-fade", 0, "opacity factor for faded features in digest mode")
	fs.StringVar(&f.cutters, "cutters", "", `enzyme cut counts to show, e.g. "1,2", or "none"`)
	fs.BoolVar(&f.extra, "extra", false, "also draw features hidden by default")
	fs.BoolVar(&f.noTicks, "no-ticks", false, "do not draw tick marks")
	fs.BoolVar(&f.noSize, "no-size", false, "do not draw the plasmid size")
	fs.IntVar(&f.offset, "offset", 0, "position of the first base in labels and ticks")
}

// options loads the config file, if any, and applies the changed flags on
// top of it.
func (f *mapFlags) options(fs *pflag.FlagSet) (pipeline.Options, error) {
	var o pipeline.Options
	if f.config != "" {
		var err error
		if o, err = pipeline.LoadConfig(f.config); err != nil {
			return o, err
		}
	}

	set := fs.Changed
	if set("topology") || o.Topology == "" {
		o.Topology = f.topology
	}
	if set("name") {
		o.Map.PlasmidName = f.name
	}
	if set("dom-id") {
		o.Map.MapDOMID = f.domID
	}
	if set("width") {
		o.Map.MapWidth = f.width
	}
	if set("height") {
		o.Map.MapHeight = f.height
	}
	if set("label-offset") {
		o.Map.LabelOffset = &f.labelOffset
	}
	if set("opacity") {
		o.Map.Opacity = &f.opacity
	}
	if set("fade-time") {
		o.Map.FadeTime = f.fadeTime
	}
	if set("digest") {
		o.Map.Digest = f.digest
	}
	if set("digest-fade") {
		o.Map.DigestFadeFactor = &f.digestFade
	}
	if set("cutters") {
		cutters, err := parseCutters(f.cutters)
		if err != nil {
			return o, err
		}
		o.Map.Cutters = cutters
	}
	if set("extra") {
		o.Map.ShowExtraFeatures = f.extra
	}
	if set("no-ticks") {
		ticks := !f.noTicks
		o.Map.DrawTicMarks = &ticks
	}
	if set("no-size") {
		size := !f.noSize
		o.Map.DrawPlasmidSize = &size
	}
	if set("offset") {
		o.Map.RegionStartOffset = f.offset
	}
	return o, nil
}
