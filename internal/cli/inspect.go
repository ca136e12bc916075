package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plasmap/pkg/pipeline"
	"github.com/matzehuels/plasmap/pkg/render/canvas"
	"github.com/matzehuels/plasmap/pkg/render/plasmid"
)

// inspectCommand prints how a feature list is laid out.
func (c *CLI) inspectCommand() *cobra.Command {
	flags := mapFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the features of a map with their lanes and visibility",
		Long: `Draw a feature list without writing any output and print one row per
feature: its range, size, lane and whether it is shown and labeled. Enzymes
are listed with their number of cut sites.`,
		Example: `  plasmap inspect puc19.json
  plasmap inspect puc19.json -t linear --cutters 1,2 --extra`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd.Flags())
			if err != nil {
				return err
			}
			m, _, err := c.drawMap(cmd.Context(), args[0], cmd.InOrStdin(), opts)
			if err != nil {
				return err
			}
			printInspect(cmd.OutOrStdout(), m)
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

// drawMap reads input and draws it without touching the cache.
func (c *CLI) drawMap(ctx context.Context, input string, stdin io.Reader, opts pipeline.Options) (*plasmid.Map, *canvas.Scene, error) {
	data, source, err := readInput(input, stdin)
	if err != nil {
		return nil, nil, err
	}
	opts.Source = source
	opts.Logger = c.Logger
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}

	seq, err := pipeline.Read(ctx, data, source)
	if err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}
	return pipeline.Layout(ctx, seq, opts)
}

func printInspect(w io.Writer, m *plasmid.Map) {
	out := newPrinter(w)
	l := m.Layout()
	seq := m.Sequence()

	name := l.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintln(w, StyleTitle.Render(name))
	out.keyValue("Topology", string(l.Topology))
	out.keyValue("Length", fmt.Sprintf("%d bp", l.Length))
	out.keyValue("Features", fmt.Sprint(len(l.Features)))
	out.keyValue("Lanes", laneRange(l))
	out.keyValue("Types", typeNames(m))
	out.newline()

	fmt.Fprintln(w, featureTable(l, seq))
	if len(seq.Enzymes()) > 0 {
		out.newline()
		fmt.Fprintln(w, cutterTable(seq, l.Cutters))
	}
}

// laneRange reports the lowest and highest lane in use by visible features.
func laneRange(l plasmid.Layout) string {
	minLane, maxLane, found := 0, 0, false
	for _, f := range l.Features {
		if !f.Visible {
			continue
		}
		if !found || f.Lane < minLane {
			minLane = f.Lane
		}
		if !found || f.Lane > maxLane {
			maxLane = f.Lane
		}
		found = true
	}
	if !found {
		return "none"
	}
	return fmt.Sprintf("%d..%d", minLane, maxLane)
}

func typeNames(m *plasmid.Map) string {
	names := make([]string, 0, len(m.Types()))
	for _, t := range m.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
