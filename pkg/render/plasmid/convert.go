package plasmid

import (
	"math"

	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
)

// PlasmidStart is the angle, in degrees, at which position 0 sits: the top
// of the circle. Positions increase clockwise, so angles decrease.
const PlasmidStart = 90.0

// Point is a location in drawing coordinates (y grows downwards).
type Point struct{ X, Y float64 }

// CircularConverter maps sequence positions onto a circle centred at
// (CX, CY).
type CircularConverter struct {
	Length int
	CX, CY float64
}

// NewCircularConverter rejects non-positive sequence lengths.
func NewCircularConverter(length int, cx, cy float64) (CircularConverter, error) {
	if length <= 0 {
		return CircularConverter{}, errors.New(errors.ErrCodeInvalidSequenceLength, "sequence length must be positive, got %d", length)
	}
	return CircularConverter{Length: length, CX: cx, CY: cy}, nil
}

// PosToAngle returns the angle of position p in degrees.
func (c CircularConverter) PosToAngle(p int) float64 {
	return PlasmidStart - float64(p)/float64(c.Length)*360
}

// AngleToPos is the inverse of PosToAngle, rounded to the nearest base.
func (c CircularConverter) AngleToPos(a float64) int {
	off := math.Mod(360+PlasmidStart-a, 360)
	if off < 0 {
		off += 360
	}
	return int(math.Round(1 + float64(c.Length-1)/360*off))
}

// SeqLengthToAngle returns the angular span of n bases.
func (c CircularConverter) SeqLengthToAngle(n int) float64 {
	return float64(n) / float64(c.Length) * 360
}

// PolarToRect converts radius r and angle a (degrees, counter-clockwise from
// the positive x axis) to drawing coordinates.
func (c CircularConverter) PolarToRect(r, a float64) Point {
	rad := a * math.Pi / 180
	return Point{X: c.CX + r*math.Cos(rad), Y: c.CY - r*math.Sin(rad)}
}

// LinearConverter maps sequence positions onto a horizontal line starting at
// Left and spanning Width.
type LinearConverter struct {
	Length      int
	Left, Width float64
}

// NewLinearConverter rejects non-positive sequence lengths.
func NewLinearConverter(length int, left, width float64) (LinearConverter, error) {
	if length <= 0 {
		return LinearConverter{}, errors.New(errors.ErrCodeInvalidSequenceLength, "sequence length must be positive, got %d", length)
	}
	return LinearConverter{Length: length, Left: left, Width: width}, nil
}

// PosToX returns the x coordinate of position p.
func (c LinearConverter) PosToX(p int) float64 {
	return c.Left + float64(p)/float64(c.Length)*c.Width
}

// normalizeAngle folds a into (PlasmidStart-360, PlasmidStart] with a single
// wrap, which is all feature geometry ever needs.
func normalizeAngle(a float64) float64 {
	switch {
	case a < PlasmidStart-360:
		return a + 360
	case a > PlasmidStart:
		return a - 360
	}
	return a
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }

// num formats coordinates for path data with at most three decimals.
func num(v float64) string {
	return canvas.Num(math.Round(v*1000) / 1000)
}
