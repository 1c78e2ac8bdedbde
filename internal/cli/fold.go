package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/apiview/pkg/codefile"
	"github.com/matzehuels/apiview/pkg/errors"
	"github.com/matzehuels/apiview/pkg/pipeline"
)

func (c *CLI) foldCommand() *cobra.Command {
	var (
		output string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "fold FILE",
		Short: "Extract leaf sections and write the folded envelope",
		Long: `Fold a document: the body of every section without nested headings is
moved to the leaf side table and replaced by its index. The result loads
faster and expands lazily. Folding an already folded document is an error.`,
		Example: `  apiview fold api.json -o api.folded.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			data, err := pipeline.ReadInput(pipeline.Options{Path: path})
			if err != nil {
				return err
			}
			doc, err := pipeline.Decode(ctx, path, data, codefile.ReadOptions{Strict: strict})
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			if err := doc.Fold(); err != nil {
				return err
			}
			prog.done("Folded "+path, "leaves", len(doc.LeafSections))

			if output == "" {
				return codefile.Write(cmd.OutOrStdout(), doc)
			}
			if err := codefile.WriteFile(output, doc); err != nil {
				return err
			}
			printSuccess("Folded %d leaf sections", len(doc.LeafSections))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject unbalanced section markers")

	return cmd
}

func (c *CLI) sectionCommand() *cobra.Command {
	opts := renderFlags{sections: true}
	var format string

	cmd := &cobra.Command{
		Use:   "section FILE ID",
		Short: "Print the expanded body of one section",
		Long: `Render a document and print the body of section ID with every folded
leaf spliced in. Section ids number headings in document order, from 0.`,
		Example: `  apiview section api.json 3
  apiview section api.json 0 --mode text --format term`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseSectionID(args[1])
			if err != nil {
				return err
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
			mode := popts.RenderMode()
			res := f.RenderMode(ctx, mode, popts.ShowDocumentation, popts.SkipDiff)

			lines, err := f.GetCodeLineSectionOf(ctx, res, id)
			if err != nil {
				return err
			}
			if format == formatTerm {
				return writeTerm(cmd.OutOrStdout(), lines, mode)
			}
			data, err := pipeline.Encode(lines, mode, format, f.Document().Name)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatText, "output format: text, json, html, term")

	return cmd
}

func parseSectionID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid section id %q", s)
	}
	return id, nil
}
