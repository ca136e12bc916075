package canvas

import (
	"strconv"
	"time"
)

// Attrs is an attribute map applied to drawn elements: "stroke",
// "stroke-width", "opacity", "fill", "font-size", "text-anchor", "title" and
// so on. Values are strings or numbers.
type Attrs map[string]any

// Box is an axis-aligned rectangle in drawing coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Union returns the smallest box enclosing both b and o. A zero box is
// treated as empty.
func (b Box) Union(o Box) Box {
	if b == (Box{}) {
		return o
	}
	if o == (Box{}) {
		return b
	}
	x0, y0 := min(b.X, o.X), min(b.Y, o.Y)
	x1, y1 := max(b.Right(), o.Right()), max(b.Bottom(), o.Bottom())
	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Handler is an interaction callback attached with Click or Hover.
type Handler func()

// Node is anything that can be styled, shown, hidden and bound to
// interaction handlers: a single element or a set of them.
type Node interface {
	Attr(a Attrs)
	Animate(a Attrs, d time.Duration)
	Hide()
	Show()
	Remove()
	Click(h Handler)
	Hover(in, out Handler)
	Unbind()
}

// Kind identifies the primitive behind an element.
type Kind int

const (
	KindCircle Kind = iota
	KindPath
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPath:
		return "path"
	case KindText:
		return "text"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Element is a single drawn primitive.
type Element interface {
	Node
	ID() int
	Kind() Kind
	Get(key string) (any, bool)
	Hidden() bool
	// BBox returns the element extent. Text extents are estimated from the
	// font size, since no font metrics are available before rasterization.
	BBox() Box
	// ToBack moves the element below every other element.
	ToBack()
}

// Canvas is the drawing surface a map renders onto. Coordinates are in
// drawing space (the size given to Reset); Resize sets the final output
// size the drawing is scaled to.
type Canvas interface {
	// Reset discards every element and starts a new drawing of the given size.
	Reset(width, height float64)
	Circle(cx, cy, r float64) Element
	Path(d string) Element
	Text(x, y float64, s string) Element
	// Resize scales the drawing to width x height. With keepAspect the
	// drawing keeps its proportions inside the output box.
	Resize(width, height float64, keepAspect bool)
}

// Num formats a float for attribute values and path data.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
