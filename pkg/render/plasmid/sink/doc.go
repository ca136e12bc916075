// Package sink provides output format renderers for plasmid maps.
//
// # Overview
//
// A "sink" turns a drawn map into a final output format. The map draws
// onto a [canvas.Scene]; the sinks serialize that scene:
//
//   - SVG: standalone vector output with hover highlighting
//   - JSON: the layout (lanes, real geometry, visibility) plus shapes
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster output (rsvg-convert, or a pure Go fallback)
//
// # SVG Output
//
// [RenderSVG] writes every painted shape in paint order. Feature shapes
// carry data-feature and data-group attributes; an embedded script
// highlights every shape of the hovered group, so all sites of a
// multi-cutter enzyme light up together when [WithSequence] is given.
//
//	scene := canvas.NewScene(800, 800)
//	m, _ := plasmid.NewCircularMap(seq, scene, opts)
//	m.Draw()
//	svg := sink.RenderSVG(scene, sink.WithSequence(seq))
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] first render a static SVG, then convert it
// via [render.ToPDF], [render.ToPNG] or [render.Rasterize]. The pure Go
// rasterizer does not draw text.
//
// [render.ToPDF]: github.com/matzehuels/plasmap/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/plasmap/pkg/render.ToPNG
// [render.Rasterize]: github.com/matzehuels/plasmap/pkg/render.Rasterize
package sink
