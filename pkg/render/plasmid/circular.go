package plasmid

import (
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/plasmap/pkg/render/canvas"
)

const (
	plasmidRadius = 200.0
	innerRadius   = plasmidRadius - laneSpacing
	outerRadius   = plasmidRadius + laneSpacing

	circHeadWidth  = 25.0
	circHeadLength = 7.0

	nSections          = 8
	labelSectionDegree = 45.0
	xShiftOnLabels     = 60.0
	circLetterHeight   = 15.0
	circLetterWidth    = 12.0
)

var circularTolerance = tolerance{cutoff: -0.1, pct: 0.01, minSize: 0.5}

type circular struct {
	m    *Map
	conv CircularConverter

	width, height float64

	// sections holds, per 45 degree slice, the features labelled there in
	// reverse declaration order; sorted by angle before drawing.
	sections [nSections][]labelEntry
	listPos  [nSections]Point
}

type labelEntry struct {
	f     *drawnFeature
	angle float64 // centre angle folded into [0, 360)
}

func newCircular(m *Map) *circular {
	c := &circular{m: m}
	c.reset()
	return c
}

func (c *circular) kind() Topology { return Circular }

func (c *circular) reset() {
	c.width, c.height = drawSize, drawSize
	c.conv = CircularConverter{Length: c.m.seq.Length, CX: drawSize / 2, CY: drawSize / 2}
}

func (c *circular) size() (float64, float64) { return c.width, c.height }

func (c *circular) laneValue(lane int) float64 { return plasmidRadius + float64(lane)*laneSpacing }
func (c *circular) extent(lane int) float64    { return c.laneValue(lane) }
func (c *circular) tolerance() tolerance       { return circularTolerance }
func (c *circular) period() float64            { return 360 }
func (c *circular) excluded(*drawnFeature) bool {
	return false
}

func (c *circular) radius(f *drawnFeature) float64 { return c.laneValue(f.lane) }

// headAngle is the angular length of an arrowhead at radius r.
func headAngle(r float64) float64 {
	return deg(math.Asin(circHeadLength / math.Sqrt(r*r+circHeadLength*circHeadLength)))
}

func (c *circular) realSize(f *drawnFeature) float64 {
	sz := c.conv.SeqLengthToAngle(f.BPSize(c.m.seq.Length))
	if f.drawHead {
		sz = max(sz, headAngle(c.radius(f)))
	}
	return sz
}

func (c *circular) realStart(f *drawnFeature) float64 {
	if f.drawHead && f.Clockwise {
		return normalizeAngle(c.conv.PosToAngle(f.End) + c.realSize(f))
	}
	return normalizeAngle(c.conv.PosToAngle(f.Start))
}

func (c *circular) realEnd(f *drawnFeature) float64 {
	if f.drawHead && !f.Clockwise {
		return normalizeAngle(c.conv.PosToAngle(f.Start) - c.realSize(f))
	}
	return normalizeAngle(c.conv.PosToAngle(f.End))
}

func (c *circular) realCenter(f *drawnFeature) float64 {
	return normalizeAngle(c.realStart(f) - c.realSize(f)/2)
}

// span measures degrees clockwise from the top of the circle.
func (c *circular) span(f *drawnFeature) span {
	s := PlasmidStart - c.realStart(f)
	e := PlasmidStart - c.realEnd(f)
	if e < s {
		e += 360
	}
	return span{start: s, end: e, size: c.realSize(f)}
}

func (c *circular) geometry(f *drawnFeature) Geometry {
	return Geometry{
		Lane:      f.lane,
		LaneValue: c.radius(f),
		Start:     c.realStart(f),
		End:       c.realEnd(f),
		Size:      c.realSize(f),
		Center:    c.realCenter(f),
	}
}

// labelAngle is where the label line starts: the cut site for enzymes,
// otherwise the middle of the arc.
func (c *circular) labelAngle(f *drawnFeature) float64 {
	if f.IsEnzyme() {
		return c.conv.PosToAngle(f.CutPosition())
	}
	return c.realCenter(f)
}

func sectionOf(a float64) int {
	s := int(math.Floor((PlasmidStart-a)/labelSectionDegree)) % nSections
	if s < 0 {
		s += nSections
	}
	return s
}

func sectionAngle(section int) float64 {
	return PlasmidStart - labelSectionDegree/2 - float64(section)*labelSectionDegree
}

func (c *circular) setLabelLists() {
	for i := range c.sections {
		c.sections[i] = nil
	}
	for i := len(c.m.features) - 1; i >= 0; i-- {
		f := c.m.features[i]
		if !f.shouldDrawLabel() {
			continue
		}
		a := c.labelAngle(f)
		adj := a
		if adj < 0 {
			adj += 360
		}
		s := sectionOf(a)
		c.sections[s] = append(c.sections[s], labelEntry{f: f, angle: adj})
	}
}

// sectionBase is the anchor of a label list before the per-list height
// adjustment.
func (c *circular) sectionBase(section int) Point {
	p := c.conv.PolarToRect(c.m.labelPos, sectionAngle(section))
	if section < 4 {
		p.X += xShiftOnLabels
	} else {
		p.X -= xShiftOnLabels
	}
	return p
}

func (c *circular) setBoundingBox() {
	minX, maxX := c.width/2, c.width/2
	minY, maxY := c.height/2, c.height/2

	for s, list := range c.sections {
		letters := 0
		for _, e := range list {
			letters = max(letters, utf8.RuneCountInString(e.f.LabelName()))
		}
		listHeight := float64(len(list)+1) * circLetterHeight
		listWidth := float64(letters) * circLetterWidth
		p := c.sectionBase(s)

		switch s {
		case 0, 1: // upper right
			minY = min(minY, p.Y-listHeight)
			maxX = max(maxX, p.X+listWidth)
		case 2, 3: // lower right
			maxY = max(maxY, p.Y+listHeight)
			maxX = max(maxX, p.X+listWidth)
		case 4, 5: // lower left
			maxY = max(maxY, p.Y+listHeight)
			minX = min(minX, p.X-listWidth)
		default: // upper left
			minY = min(minY, p.Y-listHeight)
			minX = min(minX, p.X-listWidth)
		}
	}

	reach := outerRadius + float64(*c.m.opts.LabelOffset)
	cx, cy := c.conv.CX, c.conv.CY
	maxX = max(maxX, cx+reach)
	minX = min(minX, cx-reach)
	maxY = max(maxY, cy+reach)
	minY = min(minY, cy-reach)

	c.width = maxX - minX
	c.height = maxY - minY
	c.conv.CX = cx - minX
	c.conv.CY = cy - minY
}

func (c *circular) drawPlasmid() {
	cv := c.m.canvas
	o := c.m.opts

	plasmid := cv.Circle(c.conv.CX, c.conv.CY, plasmidRadius)
	plasmid.Attr(canvas.Attrs{"stroke": ColorPlasmid, "fill": "none"})

	title := ""
	if *o.DrawPlasmidSize {
		title = strconv.Itoa(c.m.seq.Length) + " bp"
	}
	if o.PlasmidName != "" {
		if title != "" {
			title = o.PlasmidName + "\n\n" + title
		} else {
			title = o.PlasmidName
		}
	}
	if title != "" {
		t := cv.Text(c.conv.CX, c.conv.CY, title)
		t.Attr(canvas.Attrs{"fill": ColorPlasmid, "font-size": plasmidFontSize, "text-anchor": "middle"})
	}

	if !*o.DrawTicMarks {
		return
	}
	ticRadius := innerRadius - ticMarkLength/2
	labelRadius := ticRadius - 1.5*ticMarkLength
	for a := 0.0; a < 360; a += 30 {
		p0 := c.conv.PolarToRect(ticRadius-ticMarkLength/2, a)
		p1 := c.conv.PolarToRect(ticRadius+ticMarkLength/2, a)
		tic := cv.Path(move(p0.X, p0.Y) + line(p1.X, p1.Y))
		tic.Attr(canvas.Attrs{"stroke": ColorBgText})

		pos := c.conv.AngleToPos(a)
		if pos == 1 {
			pos = c.m.seq.Length
		}
		pl := c.conv.PolarToRect(labelRadius, a)
		label := cv.Text(pl.X, pl.Y, strconv.Itoa(pos))

		anchor := "middle"
		switch {
		case a < PlasmidStart || a > 360-PlasmidStart:
			anchor = "end"
		case a > PlasmidStart && a < 360-PlasmidStart:
			anchor = "start"
		}
		label.Attr(canvas.Attrs{"fill": ColorBgText, "text-anchor": anchor})
	}
}

func (c *circular) drawFeature(f *drawnFeature) {
	cv := c.m.canvas
	r := c.radius(f)
	a0 := c.conv.PosToAngle(f.Start)
	a1 := c.conv.PosToAngle(f.End)
	if a1 == a0 && !f.drawHead {
		// A single base still gets one base of arc.
		a1 = a0 - c.conv.SeqLengthToAngle(1)
	}

	if f.drawHead {
		ap := headAngle(r)
		var tip, base float64
		if f.Clockwise {
			base = math.Mod(a1+ap, 360)
			tip, a1 = a1, base
		} else {
			base = math.Mod(a0-ap, 360)
			tip, a0 = a0, base
		}
		pt := c.conv.PolarToRect(r, tip)
		pb := c.conv.PolarToRect(r-circHeadWidth/2, base)
		pu := c.conv.PolarToRect(r+circHeadWidth/2, base)
		head := cv.Path(move(pt.X, pt.Y) + line(pb.X, pb.Y) + line(pu.X, pu.Y) + closePath())
		head.Attr(canvas.Attrs{"stroke-width": 0, "fill": f.color})
		f.arrowSet.Push(head)
	}

	switch {
	case f.IsEnzyme():
		cut := c.conv.PosToAngle(f.CutPosition())
		p0 := c.conv.PolarToRect(r-enzymeWidth/2, cut)
		p1 := c.conv.PolarToRect(r+enzymeWidth/2, cut)
		mark := cv.Path(move(p0.X, p0.Y) + line(p1.X, p1.Y))
		mark.Attr(canvas.Attrs{"stroke-width": enzymeWeight})
		mark.ToBack()
		f.arrowSet.Push(mark)
	case f.CrossesBoundary() || a1 < a0:
		// Arcs run counter-clockwise on screen, from the end to the start.
		p0 := c.conv.PolarToRect(r, a1)
		p1 := c.conv.PolarToRect(r, a0)
		body := cv.Path(move(p0.X, p0.Y) + arc(r, p1.X, p1.Y, c.realSize(f) > 180))
		body.Attr(canvas.Attrs{"stroke-width": f.width, "fill": "none"})
		f.arrowSet.Push(body)
	}

	f.bindArrow()
}

func (c *circular) drawLabels() {
	for s := range c.sections {
		slices.SortStableFunc(c.sections[s], func(a, b labelEntry) int {
			switch {
			case a.angle < b.angle:
				return -1
			case a.angle > b.angle:
				return 1
			}
			return 0
		})
		p := c.sectionBase(s)
		if s >= 2 && s <= 5 {
			p.Y += float64(len(c.sections[s])) * circLetterHeight
		}
		c.listPos[s] = p
	}

	for i := len(c.m.features) - 1; i >= 0; i-- {
		c.drawLabel(c.m.features[i])
	}
}

func (c *circular) drawLabel(f *drawnFeature) {
	if !f.shouldDrawLabel() {
		return
	}
	if f.labelDrawn {
		f.clearLabel()
	}

	a := c.labelAngle(f)
	s := sectionOf(a)
	list := c.sections[s]
	slot := slices.IndexFunc(list, func(e labelEntry) bool { return e.f == f })
	if slot < 0 {
		return
	}

	from := c.conv.PolarToRect(c.radius(f), a)
	to := c.listPos[s]
	shift := float64(slot) * circLetterHeight
	if s <= 3 {
		to.Y -= shift
	} else {
		to.Y = to.Y - float64(len(list))*circLetterHeight + shift
	}

	cv := c.m.canvas
	ln := cv.Path(move(from.X, from.Y) + line(to.X, to.Y))
	text := cv.Text(to.X, to.Y, f.LabelName())
	anchor := "start"
	if s > 3 {
		anchor = "end"
	}
	text.Attr(canvas.Attrs{"text-anchor": anchor})
	f.attachLabel(ln, text)
}

func (c *circular) rescale() {
	c.m.canvas.Resize(float64(c.m.opts.MapWidth), float64(c.m.opts.MapHeight), true)
}
