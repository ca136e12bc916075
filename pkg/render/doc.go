// Package render converts rendered SVG maps to other formats.
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg), which
// renders text and styles faithfully. [Rasterize] is a pure Go fallback
// for PNG output on machines without librsvg.
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// The map layout and drawing itself lives in the [plasmid] subpackage.
//
// [plasmid]: github.com/matzehuels/plasmap/pkg/render/plasmid
package render
