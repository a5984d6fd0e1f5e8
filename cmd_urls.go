package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck"
)

// urlResult is one line of the --json output.
type urlResult struct {
	URL string `json:"url"`
	linkcheck.ValidationResult
}

func newURLsCmd(g *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "urls [url...]",
		Short: "Validate URLs and print the final address of each live one",
		Long: `urls validates the given URLs, or one URL per line of stdin when none are
given, and prints the distinct final addresses of the live ones.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			urls := args
			if len(urls) == 0 {
				if urls, err = readLines(cmd); err != nil {
					return err
				}
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

			checker := a.validator()
			out := cmd.OutOrStdout()
			if !asJSON {
				for _, u := range linkcheck.ValidateURLs(cmd.Context(), checker, urls, g.concurrency) {
					fmt.Fprintln(out, u)
				}
				return cmd.Context().Err()
			}

			unique, results := linkcheck.ValidateBatch(cmd.Context(), checker, urls, g.concurrency)
			enc := json.NewEncoder(out)
			for i, u := range unique {
				if err := enc.Encode(urlResult{URL: u, ValidationResult: results[i]}); err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
			}
			return cmd.Context().Err()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON verdict per distinct URL")
	return cmd
}

// readLines returns the non-blank lines of stdin.
func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}
