package sink

import (
	"context"
	"math"

	"github.com/matzehuels/plasmap/pkg/render"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
	pureGo  bool
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPureGo skips rsvg-convert even when it is installed.
func WithPureGo() PNGOption {
	return func(r *pngRenderer) { r.pureGo = true }
}

// RenderPNG renders the scene as PNG via SVG conversion. It uses
// rsvg-convert when available and falls back to the pure Go rasterizer,
// which draws shapes but no text.
func RenderPNG(ctx context.Context, s *canvas.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	svg := RenderSVG(s, append(r.svgOpts, WithStatic())...)
	if !r.pureGo && render.HasRSVG() {
		return render.ToPNG(ctx, svg, r.scale)
	}
	w, h := s.OutputSize()
	return render.Rasterize(svg, int(math.Round(w*r.scale)), int(math.Round(h*r.scale)))
}
