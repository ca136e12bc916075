package plasmid

import (
	"github.com/samber/lo"

	"github.com/matzehuels/plasmap/pkg/feature"
)

// Geometry is the resolved placement of a feature. On circular maps the
// positions are angles in degrees and LaneValue is the radius; on linear
// maps they are x coordinates and LaneValue is the offset from the
// plasmid line.
type Geometry struct {
	Lane      int     `json:"lane"`
	LaneValue float64 `json:"lane_value"`
	Start     float64 `json:"real_start"`
	End       float64 `json:"real_end"`
	Size      float64 `json:"real_size"`
	Center    float64 `json:"real_center"`
}

// FeatureLayout describes one feature of a drawn map.
type FeatureLayout struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	Type    string `json:"type"`
	Visible bool   `json:"visible"`
	Labeled bool   `json:"labeled"`
	Geometry
}

// Layout is a snapshot of a map after its last update.
type Layout struct {
	Topology  Topology        `json:"topology"`
	Length    int             `json:"length"`
	Name      string          `json:"name,omitempty"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	MaxExtent float64         `json:"max_extent"`
	LabelPos  float64         `json:"label_pos"`
	Cutters   []int           `json:"cutters"`
	Features  []FeatureLayout `json:"features"`
}

// Layout returns the current placement of every feature.
func (m *Map) Layout() Layout {
	w, h := m.topo.size()
	return Layout{
		Topology:  m.topo.kind(),
		Length:    m.seq.Length,
		Name:      m.opts.PlasmidName,
		Width:     w,
		Height:    h,
		MaxExtent: m.maxExtent,
		LabelPos:  m.labelPos,
		Cutters:   m.Cutters(),
		Features: lo.Map(m.features, func(f *drawnFeature, _ int) FeatureLayout {
			return FeatureLayout{
				ID:       f.ID,
				Name:     f.Name,
				Label:    f.LabelName(),
				Type:     f.Type.String(),
				Visible:  f.visible,
				Labeled:  f.visible && f.labeled,
				Geometry: m.topo.geometry(f),
			}
		}),
	}
}

func (m *Map) Topology() Topology          { return m.topo.kind() }
func (m *Map) Sequence() *feature.Sequence { return m.seq }
func (m *Map) Options() Options            { return m.opts }

// MaxExtent is the largest radius (circular) or lane offset (linear)
// reached by the last lane resolution.
func (m *Map) MaxExtent() float64 { return m.maxExtent }

// LabelPos is where label lists start: MaxExtent plus the label offset.
func (m *Map) LabelPos() float64 { return m.labelPos }

// Visible reports whether feature id is currently shown.
func (m *Map) Visible(id int) bool {
	return id >= 0 && id < len(m.features) && m.features[id].visible
}

// Labeled reports whether feature id currently carries a label.
func (m *Map) Labeled(id int) bool {
	return m.Visible(id) && m.features[id].labeled
}

// Types lists the feature types present in the map, in type order.
func (m *Map) Types() []feature.Type {
	counts := m.seq.TypeCounts()
	return lo.Filter(feature.Types, func(t feature.Type, _ int) bool { return counts[t] > 0 })
}
