package sink

import (
	"bytes"
	"fmt"
	"html"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/plasmap/pkg/feature"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
	"github.com/matzehuels/plasmap/pkg/render/plasmid"
)

const featureInteractionCSS = `
    .feature { transition: opacity %[1]dms ease, stroke-width %[1]dms ease; cursor: pointer; }
    .feature.highlight { opacity: 1; font-weight: bold; }
    .enzyme.highlight { stroke-width: 3; }
    .label-line.highlight { stroke: #000; stroke-width: 1.5; }`

const featureInteractionJS = `
    function highlight(group) {
      document.querySelectorAll('.feature').forEach(el => el.classList.toggle('highlight', el.dataset.group === group));
    }
    function clearHighlight() {
      document.querySelectorAll('.feature').forEach(el => el.classList.remove('highlight'));
    }
    document.querySelectorAll('.feature').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.group));
      el.addEventListener('mouseleave', clearHighlight);
      el.addEventListener('click', () => el.dispatchEvent(new CustomEvent('featureclick', {
        bubbles: true, detail: { id: Number(el.dataset.feature) }
      })));
    });`

const (
	defaultFontFamily = "Arial, sans-serif"
	lineHeight        = 1.2
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	seq    *feature.Sequence
	domID  string
	fade   time.Duration
	static bool
}

// WithSequence lets the SVG group every site of a multi-cutter enzyme so
// they highlight together.
func WithSequence(seq *feature.Sequence) SVGOption { return func(r *svgRenderer) { r.seq = seq } }
func WithDOMID(id string) SVGOption                { return func(r *svgRenderer) { r.domID = id } }
func WithFadeTime(d time.Duration) SVGOption       { return func(r *svgRenderer) { r.fade = d } }

// WithStatic drops the hover styles and script, for rasterizers and print.
func WithStatic() SVGOption { return func(r *svgRenderer) { r.static = true } }

// RenderSVG serializes the painted shapes of s as a standalone SVG
// document. Hidden shapes are left out.
func RenderSVG(s *canvas.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{domID: plasmid.DefaultMapDOMID}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	doc := svg.New(&buf)

	vb := s.ViewBox()
	w, h := s.OutputSize()
	aspect := "xMidYMid meet"
	if !s.KeepAspect() {
		aspect = "none"
	}
	doc.Startraw(
		attr("id", r.domID),
		attr("width", canvas.Num(math.Round(w))),
		attr("height", canvas.Num(math.Round(h))),
		attr("viewBox", fmt.Sprintf("%s %s %s %s", canvas.Num(vb.X), canvas.Num(vb.Y), canvas.Num(vb.Width), canvas.Num(vb.Height))),
		attr("preserveAspectRatio", aspect),
	)
	if !r.static {
		doc.Style("text/css", fmt.Sprintf(featureInteractionCSS, r.fade.Milliseconds()))
	}

	doc.Group(attr("font-family", defaultFontFamily), attr("font-size", canvas.Num(canvas.DefaultFontSize)))
	for _, sh := range s.Visible() {
		r.renderShape(doc, sh)
	}
	doc.Gend()

	if !r.static {
		doc.Script("text/javascript", featureInteractionJS)
	}
	doc.End()
	return buf.Bytes()
}

func (r *svgRenderer) renderShape(doc *svg.SVG, sh *canvas.Shape) {
	attrs := r.shapeAttrs(sh)
	title, _ := sh.Get("title")

	switch sh.Kind() {
	case canvas.KindCircle:
		r.withTitle(doc, title, func() { doc.Circle(sh.X, sh.Y, sh.R, attrs...) })
	case canvas.KindPath:
		r.withTitle(doc, title, func() { doc.Path(sh.D, attrs...) })
	case canvas.KindText:
		r.withTitle(doc, title, func() { renderText(doc, sh, attrs) })
	}
}

func (r *svgRenderer) withTitle(doc *svg.SVG, title any, draw func()) {
	t, ok := title.(string)
	if !ok || t == "" {
		draw()
		return
	}
	doc.Group()
	doc.Title(t)
	draw()
	doc.Gend()
}

// renderText centres multi-line text vertically on y, as the interactive
// canvas does.
func renderText(doc *svg.SVG, sh *canvas.Shape, attrs []string) {
	if _, ok := sh.Get("text-anchor"); !ok {
		attrs = append(attrs, attr("text-anchor", "middle"))
	}
	fs, _ := sh.Get("font-size")
	size := canvas.FontSizePx(fs, canvas.DefaultFontSize)

	lines := strings.Split(sh.Text, "\n")
	top := sh.Y - float64(len(lines)-1)*size*lineHeight/2
	for i, ln := range lines {
		if ln == "" {
			continue
		}
		y := top + float64(i)*size*lineHeight
		doc.Text(sh.X, y, ln, append(attrs, attr("dy", ".35em"))...)
	}
}

// shapeAttrs turns the shape attributes into svgo attribute strings in a
// stable order.
func (r *svgRenderer) shapeAttrs(sh *canvas.Shape) []string {
	a := sh.Attrs()
	var out []string
	if id, ok := a["data-feature"].(int); ok {
		out = append(out, r.featureAttrs(sh, id)...)
	}
	if t := sh.Transition(); t > 0 && r.fade == 0 {
		out = append(out, attr("style", fmt.Sprintf("transition: all %dms", t.Milliseconds())))
	}
	for _, k := range slices.Sorted(maps.Keys(a)) {
		switch k {
		case "data-feature", "title":
			continue
		}
		out = append(out, attr(k, formatValue(a[k])))
	}
	return out
}

// featureAttrs tags a feature shape with its id, its highlight group and
// its role for the hover styles.
func (r *svgRenderer) featureAttrs(sh *canvas.Shape, id int) []string {
	group := id
	enzyme := false
	if r.seq != nil {
		if f, ok := r.seq.Feature(id); ok && f.IsEnzyme() {
			enzyme = true
			if ids := f.OtherCutters(); len(ids) > 0 {
				group = ids[0]
			}
		}
	}

	classes := []string{"feature"}
	stroke, _ := sh.Get("stroke")
	switch {
	case sh.Kind() == canvas.KindPath && stroke == plasmid.ColorBgText:
		classes = append(classes, "label-line")
	case enzyme && sh.Kind() == canvas.KindPath:
		classes = append(classes, "enzyme")
	}
	return []string{
		attr("class", strings.Join(classes, " ")),
		attr("data-feature", strconv.Itoa(id)),
		attr("data-group", strconv.Itoa(group)),
	}
}

func attr(k, v string) string {
	return k + `="` + html.EscapeString(v) + `"`
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return canvas.Num(v)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}
