package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/pipeline"
)

// renderFlags holds flags for the render command.
type renderFlags struct {
	mapFlags
	output  string
	formats string
	scale   float64
	static  bool
	pureGo  bool
	noCache bool
	refresh bool
}

// renderCommand creates the render command for drawing maps.
func (c *CLI) renderCommand() *cobra.Command {
	flags := renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a plasmid map from a feature list",
		Long: `Draw a plasmid map from a feature list and write it in one or more formats.

The input is a JSON array holding the sequence length followed by feature
records. Use "-" to read from stdin.

Formats: svg, png, pdf, json (the layout with every feature's lane and
placement, written as <name>.layout.json). PNG and PDF use rsvg-convert
when installed; --pure-go rasterizes PNGs without it, at the cost of
labels.`,
		Example: `  # Circular SVG next to the input
  plasmap render puc19.json

  # Linear map as SVG and PNG, showing single and double cutters
  plasmap render puc19.json -t linear -f svg,png --cutters 1,2

  # Options from a file, name overridden by a flag
  plasmap render puc19.json -c map.toml --name pUC19 -o out/puc19`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.pipelineOptions(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), args[0], opts, flags)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "svg", "comma-separated formats: svg, png, pdf, json")
	cmd.Flags().Float64Var(&flags.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&flags.static, "static", false, "omit hover styles and scripts from SVG")
	cmd.Flags().BoolVar(&flags.pureGo, "pure-go", false, "rasterize PNG without rsvg-convert")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results and store fresh ones")

	return cmd
}

// pipelineOptions merges the config file, map flags and output flags.
func (f *renderFlags) pipelineOptions(cmd *cobra.Command) (pipeline.Options, error) {
	opts, err := f.options(cmd.Flags())
	if err != nil {
		return opts, err
	}
	set := cmd.Flags().Changed
	if set("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formats)
	}
	if set("scale") || opts.Scale == 0 {
		opts.Scale = f.scale
	}
	if set("static") {
		opts.Static = f.static
	}
	if set("pure-go") {
		opts.PureGo = f.pureGo
	}
	opts.Refresh = f.refresh
	return opts, pipeline.ValidateFormats(opts.Formats)
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, stdin io.Reader, input string, opts pipeline.Options, flags renderFlags) error {
	data, source, err := readInput(input, stdin)
	if err != nil {
		return err
	}
	opts.Source = source

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, data, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered map", "topology", opts.Topology, "formats", strings.Join(opts.Formats, ","))

	base := outputBase(flags.output, input)
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	out := newPrinter(w)
	out.success("Rendered %s map", opts.Topology)
	for _, format := range slices.Sorted(maps.Keys(res.Artifacts)) {
		path := artifactPath(base, format)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		out.file(path)
	}
	out.stats(res.Sequence.Length, res.Stats.FeatureCount, len(res.Sequence.Enzymes()), res.CacheInfo.RenderHit)
	return nil
}

// readInput reads a feature list from a file, or stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.New(errors.ErrCodeNotFound, "input file %s does not exist", path)
		}
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return data, filepath.Base(path), nil
}

// outputBase derives the artifact path prefix. A format extension on
// --output is dropped. Without --output the input path minus its extension
// is used, or "plasmap" for stdin.
func outputBase(output, input string) string {
	if output != "" {
		if ext := filepath.Ext(output); pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input == "-" {
		return appName
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// artifactPath names the file for one format. The JSON layout gets its own
// suffix so it never replaces a JSON input.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}
