package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck"
	"github.com/soumyaswe/Pravartak-AI-sub000/roadmap"
)

func newRoadmapCmd(g *globalOptions) *cobra.Command {
	var (
		noReplace   bool
		output      string
		parallelism int
	)
	cmd := &cobra.Command{
		Use:   "roadmap [file|-]",
		Short: "Mend the markdown content of every node of a roadmap JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			input, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			doc, err := roadmap.Decode(bytes.NewReader(input))
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

			seen, err := linkcheck.NewSeenFilter(os.TempDir(), 10_000, 0.001)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := seen.Close(); cerr != nil {
					a.logger.Warn("close seen filter", zap.Error(cerr))
				}
			}()

			memo := linkcheck.NewMemo(a.validator(), seen, a.recorder)
			walker := roadmap.NewWalker(a.mender(memo),
				roadmap.WithReplace(!noReplace),
				roadmap.WithLogger(a.logger),
				roadmap.WithParallelism(parallelism),
			)

			stats, err := walker.Walk(cmd.Context(), doc)
			if err != nil {
				return err
			}
			if serr := seen.LastError(); serr != nil {
				a.logger.Warn("seen filter sync failed", zap.Error(serr))
			}
			a.logger.Info("roadmap mended",
				zap.Int("nodes", stats.Nodes),
				zap.Int("cached_urls", memo.Len()),
			)

			var buf bytes.Buffer
			if err := roadmap.Encode(&buf, doc); err != nil {
				return err
			}
			return writeOutput(cmd, output, buf.Bytes())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&noReplace, "no-replace", false, "remove dead links instead of replacing them")
	f.StringVarP(&output, "output", "o", "", "write the mended roadmap here (default stdout)")
	f.IntVar(&parallelism, "parallelism", 0, "sibling nodes mended at once (0 = unlimited)")
	return cmd
}
