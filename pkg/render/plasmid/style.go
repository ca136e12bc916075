package plasmid

import "github.com/matzehuels/plasmap/pkg/feature"

// Colours used on the map.
const (
	ColorFeature = "#f00"
	ColorPrimer  = "#090"
	ColorOrigin  = "#333"
	ColorEnzyme  = "#00c"
	ColorORF     = "#00c8c8"
	ColorPlasmid = "#000"
	ColorBgText  = "#aaa"
)

const (
	featureWidth     = 15.0
	enzymeWidth      = 25.0
	enzymeWeight     = 2.0
	enzymeBoldWeight = 3.0
	boldOpacity      = 1.0
	labelLineWeight  = 1.0
	labelLineBold    = 1.5 * labelLineWeight
	labelLineOpacity = 0.5
	labelFontSize    = "13pt"
	plasmidFontSize  = "16pt"
	ticMarkLength    = 15.0
	laneSpacing      = 20.0
	drawSize         = 800.0
	maxResolveRounds = 11
)

// featureStyle is the type-dependent look of a feature.
type featureStyle struct {
	color    string
	width    float64
	drawHead bool
}

func styleFor(t feature.Type) featureStyle {
	s := featureStyle{color: ColorFeature, width: featureWidth}
	switch t {
	case feature.TypePromoter, feature.TypePrimer:
		s.color, s.drawHead = ColorPrimer, true
	case feature.TypeTerminator:
		s.color = ColorPrimer
	case feature.TypeRegulatory, feature.TypeOrigin:
		s.color = ColorOrigin
	case feature.TypeEnzyme:
		s.color, s.width = ColorEnzyme, enzymeWidth
	case feature.TypeORF:
		s.color, s.drawHead = ColorORF, true
	case feature.TypeGene:
		s.drawHead = true
	}
	return s
}

// ColorFor returns the colour features of type t are drawn in.
func ColorFor(t feature.Type) string { return styleFor(t).color }

// svg path builders

func move(x, y float64) string { return "M " + num(x) + " " + num(y) + " " }
func line(x, y float64) string { return "L " + num(x) + " " + num(y) + " " }
func closePath() string        { return "Z" }

func arc(r, x, y float64, large bool) string {
	flag := "0"
	if large {
		flag = "1"
	}
	return "A " + num(r) + " " + num(r) + " 0 " + flag + " 0 " + num(x) + " " + num(y) + " "
}
