package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/feature"
	"github.com/matzehuels/plasmap/pkg/observability"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
	"github.com/matzehuels/plasmap/pkg/render/plasmid"
	"github.com/matzehuels/plasmap/pkg/render/plasmid/sink"
)

// Read decodes a feature list.
func Read(ctx context.Context, data []byte, source string) (*feature.Sequence, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, source)
	start := time.Now()

	seq, err := feature.Read(data)
	n := 0
	if seq != nil {
		n = len(seq.Features)
	}
	hooks.OnParseComplete(ctx, source, n, time.Since(start), err)
	return seq, err
}

// Layout draws seq as a map onto a fresh scene.
func Layout(ctx context.Context, seq *feature.Sequence, opts Options) (*plasmid.Map, *canvas.Scene, error) {
	topo, err := plasmid.ParseTopology(opts.Topology)
	if err != nil {
		return nil, nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(topo), len(seq.Features))
	start := time.Now()

	scene := canvas.NewScene(0, 0)
	m, err := plasmid.New(topo, seq, scene, opts.Map)
	if err == nil {
		m.Draw()
	}
	hooks.OnLayoutComplete(ctx, string(topo), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return m, scene, nil
}

// Render serializes a drawn map in each requested format.
func Render(ctx context.Context, m *plasmid.Map, scene *canvas.Scene, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := render(ctx, m, scene, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, m *plasmid.Map, scene *canvas.Scene, opts Options) (map[string][]byte, error) {
	mo := m.Options()
	svgOpts := []sink.SVGOption{
		sink.WithSequence(m.Sequence()),
		sink.WithDOMID(mo.MapDOMID),
		sink.WithFadeTime(time.Duration(mo.FadeTime) * time.Millisecond),
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			o := svgOpts
			if opts.Static {
				o = append(o[:len(o):len(o)], sink.WithStatic())
			}
			data = sink.RenderSVG(scene, o...)
		case FormatPNG:
			pngOpts := []sink.PNGOption{sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale)}
			if opts.PureGo {
				pngOpts = append(pngOpts, sink.WithPureGo())
			}
			data, err = sink.RenderPNG(ctx, scene, pngOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, scene, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(m.Layout(), sink.WithJSONScene(scene))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
