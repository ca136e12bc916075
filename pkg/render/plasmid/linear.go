package plasmid

import (
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/plasmap/pkg/render/canvas"
)

const (
	linPlasmidFraction = 0.9
	linHeadWidth       = 25.0
	linHeadLength      = 5.0

	nLists          = 6
	listOffset      = 20.0
	labelHeight     = 13.0
	labelSortFactor = 0.55
	linLetterHeight = 17.0
	linLetterWidth  = 8.0
)

var linearTolerance = tolerance{cutoff: -1, pct: 0, minSize: 0}

type linear struct {
	m    *Map
	conv LinearConverter

	width, height float64
	cx, cy        float64
	plasmidY      float64
	right         float64

	// lists[i] holds the labels of the i-th sixth of the plasmid: above
	// the line for even i, below for odd i.
	lists   [nLists][]*drawnFeature
	listPos [nLists]float64
}

func newLinear(m *Map) *linear {
	l := &linear{m: m}
	l.reset()
	return l
}

func (l *linear) kind() Topology { return Linear }

func (l *linear) reset() {
	l.width, l.height = drawSize, drawSize
	l.cx, l.cy = drawSize/2, drawSize/2
	l.plasmidY = l.cy
	w := drawSize * linPlasmidFraction
	left := (drawSize - w) / 2
	l.right = left + w
	l.conv = LinearConverter{Length: l.m.seq.Length, Left: left, Width: w}
}

func (l *linear) size() (float64, float64) { return l.width, l.height }

func (l *linear) laneValue(lane int) float64 { return float64(lane) * laneSpacing }
func (l *linear) extent(lane int) float64    { return math.Abs(l.laneValue(lane)) }
func (l *linear) tolerance() tolerance       { return linearTolerance }
func (l *linear) period() float64            { return 0 }

// Features across the origin have no place on a line.
func (l *linear) excluded(f *drawnFeature) bool { return f.CrossesBoundary() }

func (l *linear) realSize(f *drawnFeature) float64 {
	sz := l.conv.PosToX(f.End) - l.conv.PosToX(f.Start)
	if f.drawHead {
		sz = max(sz, linHeadLength)
	}
	return sz
}

func (l *linear) realStart(f *drawnFeature) float64 {
	if f.drawHead && f.Clockwise {
		return l.conv.PosToX(f.End) - l.realSize(f)
	}
	return l.conv.PosToX(f.Start)
}

func (l *linear) realEnd(f *drawnFeature) float64 {
	if f.drawHead && !f.Clockwise {
		return min(l.conv.PosToX(f.Start)+l.realSize(f), l.right)
	}
	return l.conv.PosToX(f.End)
}

func (l *linear) realCenter(f *drawnFeature) float64 {
	return (l.realStart(f) + l.realEnd(f)) / 2
}

func (l *linear) span(f *drawnFeature) span {
	return span{start: l.realStart(f), end: l.realEnd(f), size: l.realSize(f)}
}

func (l *linear) geometry(f *drawnFeature) Geometry {
	return Geometry{
		Lane:      f.lane,
		LaneValue: l.laneValue(f.lane),
		Start:     l.realStart(f),
		End:       l.realEnd(f),
		Size:      l.realSize(f),
		Center:    l.realCenter(f),
	}
}

func (l *linear) labelX(f *drawnFeature) float64 {
	if f.IsEnzyme() {
		return l.conv.PosToX(f.CutPosition())
	}
	return l.realCenter(f)
}

func (l *linear) shouldDrawLabel(f *drawnFeature) bool {
	return f.shouldDrawLabel() && !f.CrossesBoundary()
}

func (l *linear) setLabelLists() {
	for i := range l.lists {
		l.lists[i] = nil
	}
	for _, f := range l.m.features {
		if !l.shouldDrawLabel(f) {
			continue
		}
		s := int(math.Floor(nLists * (l.labelX(f) - l.conv.Left) / l.conv.Width))
		s = min(max(s, 0), nLists-1)
		l.lists[s] = append(l.lists[s], f)
	}

	step := l.conv.Width / nLists
	for i, list := range l.lists {
		top := i%2 == 0
		switch {
		case top && len(list) > 0:
			l.listPos[i] = l.realEnd(list[len(list)-1]) + listOffset
		case top:
			l.listPos[i] = l.conv.Left + float64(i)*step + listOffset
		case len(list) > 0:
			l.listPos[i] = l.realStart(list[0]) - listOffset
		default:
			l.listPos[i] = l.conv.Left + (float64(i)+0.5)*step - listOffset
		}
	}
}

func (l *linear) setBoundingBox() {
	minY, maxY := l.plasmidY, l.plasmidY
	// The plasmid already spans the page; only grow, never zoom in.
	minX, maxX := 0.0, l.width

	for i, list := range l.lists {
		letters := 0
		for _, f := range list {
			letters = max(letters, utf8.RuneCountInString(f.LabelName()))
		}
		nTop, nBottom := len(list), 0
		if i%2 == 1 {
			nTop, nBottom = 0, len(list)
		}

		minY = min(minY, l.plasmidY-l.m.labelPos-linLetterHeight*float64(nTop+1))
		maxY = max(maxY, l.plasmidY+l.m.labelPos+linLetterHeight*float64(nBottom+1))
		if i%2 == 0 {
			maxX = max(maxX, l.listPos[i]+linLetterWidth*float64(letters))
		} else {
			minX = min(minX, l.listPos[i]-linLetterWidth*float64(letters))
		}
	}

	l.width = maxX - minX
	l.height = maxY - minY
	l.cx -= minX
	l.cy -= minY
	l.plasmidY = l.cy
	l.conv.Left -= minX
	l.right -= minX
	for i := range l.listPos {
		l.listPos[i] -= minX
	}
}

func (l *linear) drawPlasmid() {
	cv := l.m.canvas
	o := l.m.opts
	length := l.m.seq.Length

	plasmid := cv.Path(move(l.conv.Left, l.plasmidY) + line(l.right, l.plasmidY))
	plasmid.Attr(canvas.Attrs{"stroke": ColorPlasmid})

	title := ""
	if *o.DrawPlasmidSize {
		title = strconv.Itoa(length) + " bp"
		if o.RegionStartOffset != 0 {
			title = strconv.Itoa(o.RegionStartOffset+1) + " - " + strconv.Itoa(o.RegionStartOffset+length)
		}
	}
	if o.PlasmidName != "" {
		if title != "" {
			title = o.PlasmidName + ": " + title
		} else {
			title = o.PlasmidName
		}
	}
	if title != "" {
		t := cv.Text(l.cx, 1.5*laneSpacing, title)
		t.Attr(canvas.Attrs{"fill": ColorPlasmid, "font-size": plasmidFontSize, "text-anchor": "middle"})
	}

	if !*o.DrawTicMarks {
		return
	}
	ticY := l.plasmidY + 2*laneSpacing
	labelY := ticY + 1.5*ticMarkLength
	tic := func(p int) {
		x := l.conv.PosToX(p)
		mark := cv.Path(move(x, ticY-ticMarkLength/2) + line(x, ticY+ticMarkLength/2))
		mark.Attr(canvas.Attrs{"stroke": ColorBgText})
		label := cv.Text(x, labelY, strconv.Itoa(p+o.RegionStartOffset))
		label.Attr(canvas.Attrs{"fill": ColorBgText, "text-anchor": "middle"})
	}

	// Ticks every order of magnitude of the length: 10, 100, 1000, ...
	scale := int(math.Pow(10, math.Floor(math.Log10(float64(length)))))
	tic(1)
	for p := scale; p <= length; p += scale {
		tic(p)
	}
	tic(length)
}

func (l *linear) drawFeature(f *drawnFeature) {
	if f.CrossesBoundary() {
		return
	}
	cv := l.m.canvas
	x0 := l.conv.PosToX(f.Start)
	x1 := l.conv.PosToX(f.End)
	if x1 == x0 && !f.drawHead {
		x1 = x0 + l.conv.PosToX(2) - l.conv.PosToX(1)
	}
	y := l.plasmidY + l.laneValue(f.lane)

	if f.drawHead {
		var tip, back float64
		if f.Clockwise {
			tip = x1
			x1 -= linHeadLength
			back = x1
		} else {
			tip = x0
			x0 += linHeadLength
			back = x0
		}
		head := cv.Path(move(tip, y) + line(back, y-linHeadWidth/2) + line(back, y+linHeadWidth/2) + closePath())
		head.Attr(canvas.Attrs{"stroke-width": 0, "fill": f.color})
		f.arrowSet.Push(head)
	}

	switch {
	case f.IsEnzyme():
		xm := l.conv.PosToX(f.CutPosition())
		mark := cv.Path(move(xm, y-f.width/2) + line(xm, y+f.width/2))
		mark.Attr(canvas.Attrs{"stroke-width": enzymeWeight})
		mark.ToBack()
		f.arrowSet.Push(mark)
	case x0 < x1:
		body := cv.Path(move(x0, y) + line(x1, y))
		body.Attr(canvas.Attrs{"stroke-width": f.width})
		f.arrowSet.Push(body)
	}

	f.bindArrow()
}

func (l *linear) drawLabels() {
	for i, list := range l.lists {
		slices.SortStableFunc(list, func(a, b *drawnFeature) int {
			ka := l.realCenter(a) + labelSortFactor*l.laneValue(a.lane)
			kb := l.realCenter(b) + labelSortFactor*l.laneValue(b.lane)
			switch {
			case ka < kb:
				return -1
			case ka > kb:
				return 1
			}
			return 0
		})

		n := len(list)
		for k, f := range list {
			var height float64
			if i%2 == 1 {
				height = l.plasmidY + l.m.labelPos + float64(k)*labelHeight
			} else {
				height = l.plasmidY - l.m.labelPos - float64(n-1-k)*labelHeight
			}
			l.drawLabel(f, height, l.listPos[i])
		}
	}
}

func (l *linear) drawLabel(f *drawnFeature, height, pos float64) {
	if !l.shouldDrawLabel(f) {
		return
	}
	if f.labelDrawn {
		f.clearLabel()
	}

	cv := l.m.canvas
	xc := l.labelX(f)
	text := cv.Text(pos, height, f.LabelName())
	anchor := "start"
	if height >= l.plasmidY {
		anchor = "end"
	}
	text.Attr(canvas.Attrs{"text-anchor": anchor})
	ln := cv.Path(move(xc, l.plasmidY+l.laneValue(f.lane)) + line(pos, height))
	f.attachLabel(ln, text)
}

// rescale locks the width and derives the height from the drawing's
// proportions.
func (l *linear) rescale() {
	w := float64(l.m.opts.MapWidth)
	l.m.canvas.Resize(w, w*l.height/l.width, true)
}
