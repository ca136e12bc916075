package canvas

import (
	"slices"
	"time"
)

// Scene is an in-memory Canvas. It keeps every primitive, its attributes
// and handlers in paint order so sinks can serialize it and callers can
// replay interaction (clicks, hovers) without a browser.
//
// A Scene is not safe for concurrent use; each map owns its own.
type Scene struct {
	width, height   float64
	outW, outH      float64
	keepAspect      bool
	shapes          []*Shape
	nextID          int
	resized         bool
	defaultFontSize float64
}

// NewScene returns an empty scene of the given drawing size.
func NewScene(width, height float64) *Scene {
	s := &Scene{defaultFontSize: DefaultFontSize}
	s.Reset(width, height)
	return s
}

// Reset discards every shape and starts a new drawing.
func (s *Scene) Reset(width, height float64) {
	s.width, s.height = width, height
	s.outW, s.outH = width, height
	s.keepAspect = false
	s.resized = false
	s.shapes = nil
}

// Resize records the output size the drawing is scaled to.
func (s *Scene) Resize(width, height float64, keepAspect bool) {
	s.outW, s.outH = width, height
	s.keepAspect = keepAspect
	s.resized = true
}

// ViewBox returns the drawing-space extent.
func (s *Scene) ViewBox() Box { return Box{Width: s.width, Height: s.height} }

// OutputSize returns the final output size.
func (s *Scene) OutputSize() (width, height float64) { return s.outW, s.outH }

// KeepAspect reports whether the last Resize asked to preserve proportions.
func (s *Scene) KeepAspect() bool { return s.keepAspect }

// Resized reports whether Resize was called since the last Reset.
func (s *Scene) Resized() bool { return s.resized }

// Circle adds a circle centred at (cx, cy).
func (s *Scene) Circle(cx, cy, r float64) Element {
	return s.add(&Shape{kind: KindCircle, X: cx, Y: cy, R: r})
}

// Path adds an SVG path.
func (s *Scene) Path(d string) Element {
	return s.add(&Shape{kind: KindPath, D: d})
}

// Text adds a text node anchored at (x, y). Newlines start new lines.
func (s *Scene) Text(x, y float64, str string) Element {
	return s.add(&Shape{kind: KindText, X: x, Y: y, Text: str})
}

func (s *Scene) add(sh *Shape) *Shape {
	s.nextID++
	sh.id = s.nextID
	sh.scene = s
	sh.attrs = Attrs{}
	s.shapes = append(s.shapes, sh)
	return sh
}

// Shapes returns every shape in paint order, hidden ones included.
func (s *Scene) Shapes() []*Shape {
	return slices.Clone(s.shapes)
}

// Visible returns the shapes that would be painted.
func (s *Scene) Visible() []*Shape {
	out := make([]*Shape, 0, len(s.shapes))
	for _, sh := range s.shapes {
		if !sh.hidden {
			out = append(out, sh)
		}
	}
	return out
}

// Lookup returns the shape with the given id.
func (s *Scene) Lookup(id int) (*Shape, bool) {
	for _, sh := range s.shapes {
		if sh.id == id {
			return sh, true
		}
	}
	return nil, false
}

// Click fires the click handlers bound to shape id.
func (s *Scene) Click(id int) bool {
	sh, ok := s.Lookup(id)
	if !ok {
		return false
	}
	for _, h := range sh.onClick {
		h()
	}
	return len(sh.onClick) > 0
}

// HoverIn fires the hover-in handlers bound to shape id.
func (s *Scene) HoverIn(id int) bool {
	sh, ok := s.Lookup(id)
	if !ok {
		return false
	}
	for _, h := range sh.onIn {
		h()
	}
	return len(sh.onIn) > 0
}

// HoverOut fires the hover-out handlers bound to shape id.
func (s *Scene) HoverOut(id int) bool {
	sh, ok := s.Lookup(id)
	if !ok {
		return false
	}
	for _, h := range sh.onOut {
		h()
	}
	return len(sh.onOut) > 0
}

func (s *Scene) remove(sh *Shape) {
	s.shapes = slices.DeleteFunc(s.shapes, func(o *Shape) bool { return o == sh })
}

func (s *Scene) toBack(sh *Shape) {
	s.remove(sh)
	s.shapes = append([]*Shape{sh}, s.shapes...)
}

// Shape is a primitive stored in a Scene.
type Shape struct {
	scene *Scene
	id    int
	kind  Kind

	X, Y, R float64
	D       string
	Text    string

	attrs      Attrs
	hidden     bool
	transition time.Duration

	onClick     []Handler
	onIn, onOut []Handler
}

func (sh *Shape) ID() int    { return sh.id }
func (sh *Shape) Kind() Kind { return sh.kind }

// Attrs returns a copy of the current attributes.
func (sh *Shape) Attrs() Attrs {
	out := make(Attrs, len(sh.attrs))
	for k, v := range sh.attrs {
		out[k] = v
	}
	return out
}

func (sh *Shape) Get(key string) (any, bool) {
	v, ok := sh.attrs[key]
	return v, ok
}

func (sh *Shape) Attr(a Attrs) {
	for k, v := range a {
		sh.attrs[k] = v
	}
}

// Animate applies a and records d as the transition duration, so sinks can
// emit a matching CSS transition.
func (sh *Shape) Animate(a Attrs, d time.Duration) {
	sh.Attr(a)
	sh.transition = d
}

// Transition returns the duration of the last animation.
func (sh *Shape) Transition() time.Duration { return sh.transition }

func (sh *Shape) Hide()        { sh.hidden = true }
func (sh *Shape) Show()        { sh.hidden = false }
func (sh *Shape) Hidden() bool { return sh.hidden }

func (sh *Shape) Remove() {
	if sh.scene != nil {
		sh.scene.remove(sh)
	}
	sh.Unbind()
}

func (sh *Shape) ToBack() {
	if sh.scene != nil {
		sh.scene.toBack(sh)
	}
}

func (sh *Shape) Click(h Handler) {
	if h != nil {
		sh.onClick = append(sh.onClick, h)
	}
}

func (sh *Shape) Hover(in, out Handler) {
	if in != nil {
		sh.onIn = append(sh.onIn, in)
	}
	if out != nil {
		sh.onOut = append(sh.onOut, out)
	}
}

// Interactive reports whether any handler is bound.
func (sh *Shape) Interactive() bool {
	return len(sh.onClick)+len(sh.onIn)+len(sh.onOut) > 0
}

func (sh *Shape) Unbind() {
	sh.onClick, sh.onIn, sh.onOut = nil, nil, nil
}

func (sh *Shape) BBox() Box {
	switch sh.kind {
	case KindCircle:
		return Box{X: sh.X - sh.R, Y: sh.Y - sh.R, Width: 2 * sh.R, Height: 2 * sh.R}
	case KindPath:
		return PathBBox(sh.D)
	case KindText:
		size := sh.scene.defaultFontSize
		if v, ok := sh.attrs["font-size"]; ok {
			size = FontSizePx(v, size)
		}
		anchor, _ := sh.attrs["text-anchor"].(string)
		return TextBBox(sh.X, sh.Y, sh.Text, size, anchor)
	}
	return Box{}
}

var (
	_ Canvas  = (*Scene)(nil)
	_ Element = (*Shape)(nil)
)
