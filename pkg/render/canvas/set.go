package canvas

import "time"

// Set groups nodes so they can be styled and toggled together. Sets may
// contain other sets.
type Set struct {
	nodes []Node
}

// NewSet returns a set holding nodes.
func NewSet(nodes ...Node) *Set {
	return &Set{nodes: append([]Node(nil), nodes...)}
}

// Push appends nodes to the set. Nil nodes are ignored.
func (s *Set) Push(nodes ...Node) {
	for _, n := range nodes {
		if n != nil {
			s.nodes = append(s.nodes, n)
		}
	}
}

// Len returns the number of direct members.
func (s *Set) Len() int { return len(s.nodes) }

// At returns the i-th direct member, or nil when out of range.
func (s *Set) At(i int) Node {
	if i < 0 || i >= len(s.nodes) {
		return nil
	}
	return s.nodes[i]
}

// Elements flattens nested sets into their elements.
func (s *Set) Elements() []Element {
	var out []Element
	for _, n := range s.nodes {
		switch v := n.(type) {
		case Element:
			out = append(out, v)
		case *Set:
			out = append(out, v.Elements()...)
		}
	}
	return out
}

// BBox returns the union of the member extents.
func (s *Set) BBox() Box {
	var b Box
	for _, e := range s.Elements() {
		if !e.Hidden() {
			b = b.Union(e.BBox())
		}
	}
	return b
}

func (s *Set) each(fn func(Node)) {
	for _, n := range s.nodes {
		fn(n)
	}
}

func (s *Set) Attr(a Attrs)                     { s.each(func(n Node) { n.Attr(a) }) }
func (s *Set) Animate(a Attrs, d time.Duration) { s.each(func(n Node) { n.Animate(a, d) }) }
func (s *Set) Hide()                            { s.each(func(n Node) { n.Hide() }) }
func (s *Set) Show()                            { s.each(func(n Node) { n.Show() }) }
func (s *Set) Click(h Handler)                  { s.each(func(n Node) { n.Click(h) }) }
func (s *Set) Hover(in, out Handler)            { s.each(func(n Node) { n.Hover(in, out) }) }
func (s *Set) Unbind()                          { s.each(func(n Node) { n.Unbind() }) }

// Remove removes every member from the canvas and empties the set.
func (s *Set) Remove() {
	s.each(func(n Node) { n.Remove() })
	s.nodes = nil
}

var _ Node = (*Set)(nil)
