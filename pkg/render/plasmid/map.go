package plasmid

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/feature"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
)

// topology is the shape-specific half of a map: geometry, label lists,
// bounding box and drawing. The Map drives it through update.
type topology interface {
	kind() Topology
	// reset restores the drawing geometry changed by the bounding box.
	reset()
	laneValue(lane int) float64
	extent(lane int) float64
	tolerance() tolerance
	// period is the length of the sweep axis for wrapping shapes, 0 for
	// open ones.
	period() float64
	excluded(f *drawnFeature) bool
	span(f *drawnFeature) span
	geometry(f *drawnFeature) Geometry
	// size is the drawing size after the bounding box pass.
	size() (width, height float64)

	setLabelLists()
	setBoundingBox()
	drawPlasmid()
	drawFeature(f *drawnFeature)
	drawLabels()
	rescale()
}

// Map lays out and draws the features of a sequence on a Canvas. A Map is
// owned by a single goroutine; independent maps over the same Sequence may
// run concurrently.
type Map struct {
	seq      *feature.Sequence
	opts     Options
	canvas   canvas.Canvas
	logger   *log.Logger
	topo     topology
	features []*drawnFeature

	cutters   []int
	showAll   bool
	maxExtent float64
	labelPos  float64
	resolved  bool
}

// NewCircularMap prepares a circular map of seq on c. Nothing is drawn
// until Draw is called.
func NewCircularMap(seq *feature.Sequence, c canvas.Canvas, opts Options) (*Map, error) {
	m, err := newMap(seq, c, opts, Circular)
	if err != nil {
		return nil, err
	}
	m.topo = newCircular(m)
	return m, nil
}

// NewLinearMap prepares a linear map of seq on c. Features that cross the
// origin are neither drawn nor labelled.
func NewLinearMap(seq *feature.Sequence, c canvas.Canvas, opts Options) (*Map, error) {
	m, err := newMap(seq, c, opts, Linear)
	if err != nil {
		return nil, err
	}
	m.topo = newLinear(m)
	return m, nil
}

// New dispatches on t.
func New(t Topology, seq *feature.Sequence, c canvas.Canvas, opts Options) (*Map, error) {
	switch t {
	case Circular:
		return NewCircularMap(seq, c, opts)
	case Linear:
		return NewLinearMap(seq, c, opts)
	}
	return nil, errors.New(errors.ErrCodeInvalidTopology, "unknown topology %q", t)
}

func newMap(seq *feature.Sequence, c canvas.Canvas, opts Options, t Topology) (*Map, error) {
	if seq == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no sequence")
	}
	if seq.Length <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSequenceLength, "sequence length must be positive, got %d", seq.Length)
	}
	if c == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no canvas")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.SetDefaults(t)

	m := &Map{
		seq:     seq,
		opts:    opts,
		canvas:  c,
		logger:  opts.Logger,
		cutters: slices.Clone(opts.Cutters),
		showAll: opts.ShowExtraFeatures,
	}
	m.features = make([]*drawnFeature, len(seq.Features))
	for i, f := range seq.Features {
		m.features[i] = newDrawnFeature(f, m)
	}
	return m, nil
}

// Draw resolves lanes and draws the whole map.
func (m *Map) Draw() { m.update(true) }

// Redraw clears the canvas and draws again. With recalc the lanes are
// resolved anew; otherwise the current lanes are kept.
func (m *Map) Redraw(recalc bool) { m.update(recalc) }

// RedrawCutters shows only enzymes whose cut count is in cutters. A nil
// slice hides every enzyme.
func (m *Map) RedrawCutters(cutters []int) {
	if cutters == nil {
		cutters = []int{}
	}
	m.cutters = slices.Clone(cutters)
	m.Redraw(false)
}

// Cutters returns the cut counts currently shown.
func (m *Map) Cutters() []int { return slices.Clone(m.cutters) }

func (m *Map) HideFeatureType(t feature.Type) {
	m.applyToType(t, (*drawnFeature).hide)
	m.Redraw(true)
}

func (m *Map) ShowFeatureType(t feature.Type) {
	m.applyToType(t, (*drawnFeature).show, (*drawnFeature).showLabel)
	m.Redraw(true)
}

func (m *Map) ShowFeatureLabelType(t feature.Type) {
	m.applyToType(t, (*drawnFeature).showLabel)
	m.Redraw(false)
}

func (m *Map) HideFeatureLabelType(t feature.Type) {
	m.applyToType(t, (*drawnFeature).hideLabel)
	m.Redraw(false)
}

// ShowExtraFeatures draws features that are hidden by default.
func (m *Map) ShowExtraFeatures() {
	m.showAll = true
	for _, f := range m.features {
		if !f.DefaultShow {
			f.show()
			f.showLabel()
		}
	}
	m.Redraw(true)
}

// HideExtraFeatures hides features that are hidden by default again.
func (m *Map) HideExtraFeatures() {
	m.showAll = false
	for _, f := range m.features {
		if !f.DefaultShow {
			f.hide()
			f.clearLabel()
		}
	}
	m.Redraw(true)
}

// ShowFeature, HideFeature, ShowFeatureLabel and HideFeatureLabel act on the
// current drawing only. Lanes and labels are not recomputed.

func (m *Map) ShowFeature(id int) error {
	return m.applyToFeature(id, (*drawnFeature).show, (*drawnFeature).showLabel)
}

func (m *Map) HideFeature(id int) error {
	return m.applyToFeature(id, (*drawnFeature).hideLabel, (*drawnFeature).hide)
}

func (m *Map) ShowFeatureLabel(id int) error {
	return m.applyToFeature(id, (*drawnFeature).showLabel)
}

func (m *Map) HideFeatureLabel(id int) error {
	return m.applyToFeature(id, (*drawnFeature).hideLabel)
}

func (m *Map) applyToType(t feature.Type, fns ...func(*drawnFeature)) {
	for _, f := range m.features {
		if f.Type != t {
			continue
		}
		for _, fn := range fns {
			fn(f)
		}
	}
}

func (m *Map) applyToFeature(id int, fns ...func(*drawnFeature)) error {
	if id < 0 || id >= len(m.features) {
		return errors.New(errors.ErrCodeFeatureNotFound, "no feature with id %d", id)
	}
	for _, fn := range fns {
		fn(m.features[id])
	}
	return nil
}

func (m *Map) update(recalc bool) {
	m.topo.reset()

	if recalc || !m.resolved {
		m.maxExtent = m.resolveConflicts()
		m.labelPos = m.maxExtent + float64(*m.opts.LabelOffset)
		m.resolved = true
	}

	if m.opts.Digest {
		for _, f := range m.features {
			if !f.IsEnzyme() {
				f.hideLabel()
			}
		}
	}

	m.showHideCutters()
	m.topo.setLabelLists()
	m.topo.setBoundingBox()

	w, h := m.topo.size()
	m.canvas.Reset(w, h)
	for _, f := range m.features {
		f.initialize()
		f.labelDrawn = false
	}

	m.topo.drawPlasmid()
	for _, f := range m.features {
		if f.visible {
			m.topo.drawFeature(f)
		}
	}
	m.topo.drawLabels()
	m.topo.rescale()
}

func (m *Map) showHideCutters() {
	for _, f := range m.features {
		if !f.DefaultShow && !m.showAll {
			f.hide()
			f.clearLabel()
			continue
		}
		if !f.IsEnzyme() {
			continue
		}
		if slices.Contains(m.cutters, f.CutCount()) {
			f.show()
			f.showLabel()
		} else {
			f.hide()
			f.clearLabel()
		}
	}
}
