package main

import (
	"time"

	"github.com/spf13/cobra"
)

type filterOptions struct {
	output string
	report reportOptions
}

func newFilterCmd(g *globalOptions) *cobra.Command {
	opts := &filterOptions{}
	cmd := &cobra.Command{
		Use:   "filter [file|-]",
		Short: "Drop dead links from a document and rewrite redirected ones",
		Long: `filter validates every distinct URL of a document, markdown targets and
bare URLs alike, in concurrent batches. Markdown links to dead URLs are
removed; dead bare URLs are reported but left in the text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := opts.report.validate(); err != nil {
				return err
			}
			input, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			a, err := g.newApp()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			start := time.Now()
			sum, err := a.mender(a.validator()).Filter(cmd.Context(), string(input))
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, opts.output, []byte(sum.ValidatedText)); err != nil {
				return err
			}

			rep := a.report(source, sum.Links, sum.Stats(time.Since(start)))
			return opts.report.write(cmd, rep)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the filtered document here (default stdout)")
	opts.report.register(cmd)
	return cmd
}
