package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soumyaswe/Pravartak-AI-sub000/markdown"
)

func newExtractCmd() *cobra.Command {
	var links bool
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "List the URLs of a document without checking them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if links {
				for _, l := range markdown.ExtractLinks(string(input)) {
					fmt.Fprintf(out, "%s\t%s\n", l.Text, l.URL)
				}
				return nil
			}
			for _, u := range markdown.ExtractURLs(string(input)) {
				fmt.Fprintln(out, u)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&links, "links", false, "print markdown links as text<TAB>url")
	return cmd
}
