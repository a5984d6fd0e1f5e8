package result

import (
	"fmt"
	"io"
)

// PrintResults writes the dead and rewritten links of a report followed by
// a one-line summary.
func PrintResults(w io.Writer, res *Report) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	broken := res.BrokenLinks()
	if len(broken) == 0 {
		writef("No broken links found!\n")
	} else {
		writef("Broken Links:\n")
		for i, link := range broken {
			writef("  URL: %s\n", link.URL)
			if link.Error != "" {
				writef("  Error: %s\n", link.Error)
			} else {
				writef("  Status: %d\n", link.StatusCode)
			}
			switch link.Outcome {
			case OutcomeReplaced:
				writef("  Replaced with: %s\n", link.Replacement)
			case OutcomeRemoved:
				writef("  Removed\n")
			default:
				writef("  Left in place\n")
			}
			if i < len(broken)-1 {
				writef("\n")
			}
		}
	}
	writef("Checked %d links: %d valid, %d redirected, %d replaced, %d removed\n",
		res.Stats.OriginalCount, res.Stats.ValidCount, res.Stats.RedirectedCount,
		res.Stats.ReplacedCount, res.Stats.RemovedCount)
}
