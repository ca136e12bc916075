package sink

import (
	"encoding/json"

	"github.com/matzehuels/plasmap/pkg/render/canvas"
	"github.com/matzehuels/plasmap/pkg/render/plasmid"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	scene *canvas.Scene
}

// WithJSONScene adds the painted shapes of s to the output, so external
// tools can draw the map without recomputing it.
func WithJSONScene(s *canvas.Scene) JSONOption { return func(r *jsonRenderer) { r.scene = s } }

type jsonOutput struct {
	plasmid.Layout
	ViewBox *canvas.Box `json:"view_box,omitempty"`
	Output  *jsonSize   `json:"output,omitempty"`
	Shapes  []jsonShape `json:"shapes,omitempty"`
}

type jsonSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonShape struct {
	Kind    string         `json:"kind"`
	Feature *int           `json:"feature,omitempty"`
	X       float64        `json:"x,omitempty"`
	Y       float64        `json:"y,omitempty"`
	R       float64        `json:"r,omitempty"`
	D       string         `json:"d,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// RenderJSON exports the map layout as a pretty-printed JSON document: lanes,
// real geometry and visibility per feature, plus the drawing when a scene
// is attached. It returns an error only if marshaling fails.
func RenderJSON(l plasmid.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Layout: l}
	if r.scene != nil {
		vb := r.scene.ViewBox()
		w, h := r.scene.OutputSize()
		out.ViewBox = &vb
		out.Output = &jsonSize{Width: w, Height: h}
		out.Shapes = buildJSONShapes(r.scene)
	}
	return json.MarshalIndent(out, "", "  ")
}

func buildJSONShapes(s *canvas.Scene) []jsonShape {
	visible := s.Visible()
	shapes := make([]jsonShape, 0, len(visible))
	for _, sh := range visible {
		js := jsonShape{Kind: sh.Kind().String()}
		switch sh.Kind() {
		case canvas.KindCircle:
			js.X, js.Y, js.R = sh.X, sh.Y, sh.R
		case canvas.KindPath:
			js.D = sh.D
		case canvas.KindText:
			js.X, js.Y, js.Text = sh.X, sh.Y, sh.Text
		}
		js.Attrs = sh.Attrs()
		if id, ok := js.Attrs["data-feature"].(int); ok {
			js.Feature = &id
			delete(js.Attrs, "data-feature")
		}
		shapes = append(shapes, js)
	}
	return shapes
}
