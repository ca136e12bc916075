package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// viewCommand opens the interactive toggles for a map.
func (c *CLI) viewCommand() *cobra.Command {
	flags := mapFlags{}
	var output string
	var static bool

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Toggle feature types, labels and cutters interactively",
		Long: `Draw a feature list and open a terminal view listing its feature types.
Every toggle updates the map and rewrites the SVG, so an image viewer or
browser pointed at the file follows along.`,
		Example: `  plasmap view puc19.json -o /tmp/puc19.svg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := flags.options(cmd.Flags())
			if err != nil {
				return err
			}
			opts.Static = static

			m, scene, err := c.drawMap(ctx, args[0], cmd.InOrStdin(), opts)
			if err != nil {
				return err
			}
			if output == "" {
				output = outputBase("", args[0]) + ".svg"
			}

			model := NewViewerModel(ctx, m, scene, opts, output)
			model.save()
			if model.Err != nil {
				return fmt.Errorf("write %s: %w", output, model.Err)
			}

			p := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := p.Run()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout())
			if fm, ok := final.(ViewerModel); ok {
				out.success("Wrote %d revisions", fm.Writes)
			}
			out.file(output)
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "svg file to keep updated (default: input name)")
	cmd.Flags().BoolVar(&static, "static", false, "omit hover styles and scripts")
	return cmd
}
