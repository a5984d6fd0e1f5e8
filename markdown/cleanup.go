package markdown

import (
	"regexp"
	"strings"
)

var blankRun = regexp.MustCompile(`\n{3,}`)

// Cleanup tidies a document after links were removed from it: bullet lines
// left with nothing but the "-" marker are dropped and runs of three or more
// newlines collapse to a single blank line.
func Cleanup(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isEmptyBullet(line) {
			continue
		}
		kept = append(kept, line)
	}
	return blankRun.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
}

func isEmptyBullet(line string) bool {
	return strings.TrimSpace(line) == "-"
}
