package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/pipeline"
)

// formatTerm styles lines for the terminal. It is handled here rather than
// by the pipeline encoder.
const formatTerm = "term"

type renderOpts struct {
	renderFlags
	expand  bool
	format  string
	output  string
	noCache bool
	refresh bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a document as markup, text, or a terminal view",
		Long: `Render a document envelope.

Markup modes emit one HTML fragment per line; text mode emits raw token
values. Folded documents show a placeholder for each leaf section unless
--expand splices the bodies back in.`,
		Example: `  apiview render api.json --mode text
  apiview render api.json --sections --format term
  apiview render api.json --docs --format html -o api.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.expand, "expand", false, "splice leaf sections back into the output")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatText, "output format: text, json, html, term")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, ro *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts := c.options(cmd, path, &ro.renderFlags)
	opts.Expand = ro.expand
	opts.Refresh = ro.refresh
	opts.Format = ro.format
	term := ro.format == formatTerm
	if term {
		opts.Format = pipeline.FormatText
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered "+path, "lines", result.Stats.LineCount, "cached", result.CacheInfo.RenderHit)

	w, closeOut, err := openOutput(cmd, ro.output)
	if err != nil {
		return err
	}
	defer closeOut()

	if term {
		err = writeTerm(w, result.Lines, opts.RenderMode())
	} else {
		_, err = w.Write(result.Artifact)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write output")
	}

	if ro.output != "" {
		printSuccess("Rendered %s", path)
		printStats(result.Stats.LineCount, result.Stats.SectionCount, result.Stats.LeafCount, result.CacheInfo.RenderHit)
		printFile(ro.output)
	}
	return nil
}

// openOutput returns the command's stdout, or a created file when path is
// set.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	return f, func() { f.Close() }, nil
}
