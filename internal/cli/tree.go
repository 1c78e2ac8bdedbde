package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/render/nodelink"
)

func (c *CLI) treeCommand() *cobra.Command {
	opts := renderFlags{sections: true}
	var (
		format   string
		output   string
		allLines bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Draw the section forest as a node-link diagram",
		Long: `Draw the section forest of a rendered document.

By default only headings and leaf placeholders are drawn; --all draws every
line. DOT output needs no external tools; SVG is laid out with Graphviz.`,
		Example: `  apiview tree api.json > api.dot
  apiview tree api.json --format svg -o api.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format != "dot" && format != "svg" {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid tree format %q (must be dot or svg)", format)
			}

			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			popts := c.options(cmd, args[0], &opts)
			f, err := runner.Open(ctx, popts)
			if err != nil {
				return err
			}
			res := f.RenderMode(ctx, popts.RenderMode(), popts.ShowDocumentation, popts.SkipDiff)
			data := []byte(nodelink.ToDOT(res, nodelink.Options{AllLines: allLines, Detailed: detailed}))

			if format == "svg" {
				spinner := newSpinnerWithContext(ctx, "Laying out graph...")
				spinner.Start()
				data, err = nodelink.RenderSVG(ctx, string(data))
				if err != nil {
					spinner.StopWithError("Layout failed")
					return err
				}
				spinner.Stop()
			}

			w, closeOut, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			defer closeOut()
			if _, err := w.Write(data); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write output")
			}
			if output != "" {
				printSuccess("Drew %d sections", len(res.Sections))
				printFile(output)
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&allLines, "all", false, "draw every line, not only headings and placeholders")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add level, line, and section to labels")

	return cmd
}
