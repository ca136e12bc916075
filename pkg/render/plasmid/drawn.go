package plasmid

import (
	"github.com/matzehuels/plasmap/pkg/feature"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
)

// drawnFeature is the per-map state of a feature: its lane, visibility and
// the graphics currently on the canvas. The underlying Feature is shared
// and never modified.
type drawnFeature struct {
	*feature.Feature
	m *Map

	lane   int
	pushed []*drawnFeature

	visible    bool
	labeled    bool
	labelDrawn bool

	color    string
	width    float64
	drawHead bool
	opacity  float64

	// featureSet holds the arrow plus the label line, labelSet the label
	// line plus the label text.
	featureSet *canvas.Set
	arrowSet   *canvas.Set
	labelSet   *canvas.Set
	labelLine  canvas.Element
}

func newDrawnFeature(f *feature.Feature, m *Map) *drawnFeature {
	st := styleFor(f.Type)
	df := &drawnFeature{
		Feature:  f,
		m:        m,
		visible:  f.DefaultShow || m.showAll,
		labeled:  true,
		color:    st.color,
		width:    st.width,
		drawHead: st.drawHead,
		opacity:  *m.opts.Opacity,
	}
	if m.opts.Digest && !f.IsEnzyme() {
		df.opacity *= *m.opts.DigestFadeFactor
	}
	return df
}

func (f *drawnFeature) initialize() {
	f.featureSet = canvas.NewSet()
	f.arrowSet = canvas.NewSet()
	f.labelSet = canvas.NewSet()
	f.labelLine = nil
}

func (f *drawnFeature) hide() {
	if !f.visible {
		return
	}
	if f.featureSet != nil {
		f.featureSet.Hide()
	}
	if f.labelSet != nil {
		f.labelSet.Hide()
	}
	f.visible = false
	f.labeled = false
}

func (f *drawnFeature) show() {
	if f.visible {
		return
	}
	if f.featureSet != nil {
		f.featureSet.Show()
	}
	if !f.labeled && f.labelSet != nil {
		f.labelSet.Hide()
	}
	f.visible = true
}

func (f *drawnFeature) hideLabel() {
	if !f.labeled {
		return
	}
	if f.labelSet != nil {
		f.labelSet.Hide()
	}
	f.labeled = false
}

func (f *drawnFeature) showLabel() {
	if f.labeled {
		return
	}
	if f.labelSet != nil {
		f.labelSet.Show()
	}
	f.labeled = true
}

func (f *drawnFeature) clearLabel() {
	if !f.labelDrawn {
		return
	}
	if f.labelSet != nil {
		f.labelSet.Unbind()
		f.labelSet.Remove()
		f.labelSet = canvas.NewSet()
	}
	f.labelLine = nil
	f.labeled = false
	f.labelDrawn = false
}

func (f *drawnFeature) shouldDrawLabel() bool {
	return f.visible && f.labeled
}

// bindArrow attaches the interaction handlers and the feature-wide style
// once the arrow primitives are in arrowSet.
func (f *drawnFeature) bindArrow() {
	f.arrowSet.Click(f.click)
	f.arrowSet.Hover(f.bolder, f.lighter)
	f.featureSet.Push(f.arrowSet)
	f.featureSet.Attr(canvas.Attrs{
		"stroke":         f.color,
		"stroke-linecap": "butt",
		"opacity":        f.opacity,
		"data-feature":   f.ID,
	})
	if f.m.opts.Digest && !f.IsEnzyme() {
		f.featureSet.Attr(canvas.Attrs{"title": f.LabelName()})
	}
}

// attachLabel records a freshly drawn label line and text.
func (f *drawnFeature) attachLabel(lineEl, text canvas.Element) {
	lineEl.Attr(canvas.Attrs{
		"stroke":       ColorBgText,
		"stroke-width": labelLineWeight,
		"opacity":      labelLineOpacity,
		"data-feature": f.ID,
	})
	text.Attr(canvas.Attrs{
		"fill":         f.color,
		"font-size":    labelFontSize,
		"opacity":      1.0,
		"data-feature": f.ID,
	})
	f.labelLine = lineEl
	f.labelSet.Push(lineEl, text)
	f.labelSet.Click(f.click)
	f.labelSet.Hover(f.bolder, f.lighter)

	// Only the line joins the feature set so fading leaves the text alone.
	f.featureSet.Push(lineEl)

	f.labeled = true
	f.labelDrawn = true
}

func (f *drawnFeature) fade(props, lineProps canvas.Attrs) {
	sets := canvas.NewSet(f.featureSet)
	lines := canvas.NewSet()
	lines.Push(f.labelLine)

	// Multi-cutters light up together.
	if f.IsEnzyme() {
		for _, id := range f.OtherCutters() {
			o := f.m.features[id]
			sets.Push(o.featureSet)
			lines.Push(o.labelLine)
		}
	}

	if d := f.m.opts.fadeDuration(); d > 0 {
		sets.Animate(props, d)
		lines.Animate(lineProps, d)
		return
	}
	sets.Attr(props)
	lines.Attr(lineProps)
}

func (f *drawnFeature) bolder() {
	props := canvas.Attrs{"opacity": boldOpacity, "font-weight": "bold"}
	if f.IsEnzyme() {
		props["stroke-width"] = enzymeBoldWeight
	}
	f.fade(props, canvas.Attrs{"stroke": ColorPlasmid, "stroke-width": labelLineBold})
}

func (f *drawnFeature) lighter() {
	props := canvas.Attrs{"opacity": f.opacity, "font-weight": "normal"}
	if f.IsEnzyme() {
		props["stroke-width"] = enzymeWeight
	}
	f.fade(props, canvas.Attrs{"stroke": ColorBgText, "stroke-width": labelLineWeight})
}

func (f *drawnFeature) click() {
	if cb := f.m.opts.FeatureClick; cb != nil {
		cb(f.Feature)
	}
}
