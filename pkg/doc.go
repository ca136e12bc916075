// Package pkg provides the libraries behind plasmap, a plasmid map layout
// engine.
//
// # Overview
//
// plasmap takes the features annotated on a DNA sequence (genes,
// promoters, primers, restriction enzyme sites and so on) and draws them
// around a circle or along a line. Overlapping features are pushed into
// lanes, labels are stacked so they do not collide, and the drawing is
// scaled to fit. The pkg directory is organized into these areas:
//
//  1. [feature] - Feature records, the input reader and cutter grouping
//  2. [render] - The canvas, the map engine and the output sinks
//  3. [pipeline] - Orchestration (read → layout → render) with caching
//  4. [cache] and [store] - Render cache and sequence persistence
//  5. [errors], [observability], [buildinfo] - Ambient support
//
// # Architecture
//
//	feature list (JSON)
//	         ↓
//	    [feature] package (validate, number, group cutters)
//	         ↓
//	    [render/plasmid] package (lanes, labels, bounding box)
//	         ↓
//	    [render/plasmid/sink] package
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/plasmap/pkg/feature"
//	    "github.com/matzehuels/plasmap/pkg/render/canvas"
//	    "github.com/matzehuels/plasmap/pkg/render/plasmid"
//	    "github.com/matzehuels/plasmap/pkg/render/plasmid/sink"
//	)
//
//	seq, _ := feature.ReadFile("puc19.json")
//	scene := canvas.NewScene(0, 0)
//	m, _ := plasmid.NewCircularMap(seq, scene, plasmid.Options{PlasmidName: "pUC19"})
//	m.Draw()
//	svg := sink.RenderSVG(scene, sink.WithSequence(seq))
//
// Or let the pipeline handle reading, caching and every output format:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	res, _ := runner.Execute(ctx, data, pipeline.Options{Formats: []string{"svg", "png"}})
//
// [feature]: github.com/matzehuels/plasmap/pkg/feature
// [render]: github.com/matzehuels/plasmap/pkg/render
// [pipeline]: github.com/matzehuels/plasmap/pkg/pipeline
// [cache]: github.com/matzehuels/plasmap/pkg/cache
// [store]: github.com/matzehuels/plasmap/pkg/store
// [errors]: github.com/matzehuels/plasmap/pkg/errors
// [observability]: github.com/matzehuels/plasmap/pkg/observability
// [buildinfo]: github.com/matzehuels/plasmap/pkg/buildinfo
package pkg
