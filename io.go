package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

// readInput reads the file named by args[0], or stdin when it is "-" or
// absent. The second value names the source for reports.
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return data, args[0], nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// reportOptions are the flags that control the per-link report.
type reportOptions struct {
	format string // json, csv, text or none
	path   string
}

func (r *reportOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.format, "report", "none", "per-link report format: json, csv, text or none")
	cmd.Flags().StringVar(&r.path, "report-file", "", "write the report here instead of stderr")
}

func (r *reportOptions) validate() error {
	switch r.format {
	case "json", "csv", "text", "none":
		return nil
	default:
		return fmt.Errorf("unknown report format %q", r.format)
	}
}

// write renders rep in the selected format.
func (r *reportOptions) write(cmd *cobra.Command, rep *result.Report) (err error) {
	if r.format == "none" {
		return nil
	}

	w := cmd.ErrOrStderr()
	if r.path != "" {
		var f *os.File
		if f, err = os.Create(r.path); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close report: %w", cerr)
			}
		}()
		w = f
	}

	switch r.format {
	case "json":
		return result.WriteJSON(w, rep)
	case "csv":
		return result.WriteCSV(w, rep.Links)
	default:
		result.PrintResults(w, rep)
		return nil
	}
}
