package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck"
	"github.com/soumyaswe/Pravartak-AI-sub000/markdown"
	"github.com/soumyaswe/Pravartak-AI-sub000/mend"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
	"github.com/soumyaswe/Pravartak-AI-sub000/tui"
)

type checkOptions struct {
	noReplace    bool
	output       string
	format       string
	useTUI       bool
	failOnChange bool
	report       reportOptions
}

func newCheckCmd(g *globalOptions) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Validate a markdown document and repair its links",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, g, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.noReplace, "no-replace", false, "remove dead links instead of replacing them")
	f.StringVarP(&opts.output, "output", "o", "", "write the rewritten document here (default stdout)")
	f.StringVar(&opts.format, "format", "markdown", "output format: markdown or html")
	f.BoolVar(&opts.useTUI, "tui", false, "show live progress in the terminal")
	f.BoolVar(&opts.failOnChange, "fail-on-change", false, "exit 1 when any link was replaced or removed")
	opts.report.register(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, g *globalOptions, opts *checkOptions) (err error) {
	if opts.format != "markdown" && opts.format != "html" {
		return fmt.Errorf("unknown output format %q", opts.format)
	}
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

	text := string(input)
	replace := !opts.noReplace
	checker := a.validator()

	var sum mend.Summary
	var rep *result.Report
	if opts.useTUI {
		sum, rep, err = checkWithTUI(cmd, a, checker, source, text, replace)
	} else {
		start := time.Now()
		sum, err = a.mender(checker).Mend(cmd.Context(), text, replace)
		if err == nil {
			rep = a.report(source, sum.Links, sum.Stats(time.Since(start)))
		}
	}
	if err != nil {
		return err
	}

	out := sum.ValidatedText
	if opts.format == "html" {
		if out, err = markdown.RenderHTML(out); err != nil {
			return err
		}
	}
	if err := writeOutput(cmd, opts.output, []byte(out)); err != nil {
		return err
	}
	if err := opts.report.write(cmd, rep); err != nil {
		return err
	}

	if opts.failOnChange && rep.Changed() {
		return errLinksChanged
	}
	return nil
}

// checkWithTUI runs Mend behind the Bubble Tea progress view, which is
// drawn on stderr so that stdout carries only the document.
func checkWithTUI(cmd *cobra.Command, a *app, checker linkcheck.Checker, source, text string, replace bool) (mend.Summary, *result.Report, error) {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	progress := make(chan mend.Event, 64)
	m := a.mender(checker, mend.WithProgress(progress))

	var sum mend.Summary
	run := func(ctx context.Context) (*result.Report, error) {
		defer close(progress)
		start := time.Now()
		s, err := m.Mend(ctx, text, replace)
		if err != nil {
			return nil, err
		}
		sum = s
		return a.report(source, s.Links, s.Stats(time.Since(start))), nil
	}

	model := tui.NewModel(ctx, cancel, run, progress)
	final, err := tea.NewProgram(model, tea.WithOutput(cmd.ErrOrStderr()), tea.WithInput(cmd.InOrStdin())).Run()
	if err != nil {
		return mend.Summary{}, nil, fmt.Errorf("run tui: %w", err)
	}

	done := final.(tui.Model)
	if err := done.Err(); err != nil {
		return mend.Summary{}, nil, err
	}
	if done.Report() == nil {
		return mend.Summary{}, nil, errors.New("interrupted")
	}
	return sum, done.Report(), nil
}

// report assembles the per-link report of one document.
func (a *app) report(source string, links []result.LinkReport, stats result.Stats) *result.Report {
	return &result.Report{
		RunID:  a.runID,
		Source: source,
		Links:  links,
		Stats:  stats,
	}
}
