package markdown

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Edit replaces text[Start:End] with Replacement. Offsets refer to the
// original text.
type Edit struct {
	Start       int
	End         int
	Replacement string
}

// ApplyEdits applies non-overlapping edits to text in one pass.
// Edits are applied from the end of the text toward the beginning so that
// earlier offsets stay valid.
func ApplyEdits(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Start > sorted[j].Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(text) {
			return "", fmt.Errorf("invalid edit [%d:%d] for text of length %d", e.Start, e.End, len(text))
		}
		if i > 0 && e.End > sorted[i-1].Start {
			return "", errors.New("invalid edits: overlapping ranges")
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	// sorted is descending; walk it backwards to emit in document order.
	cursor := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		b.WriteString(text[cursor:e.Start])
		b.WriteString(e.Replacement)
		cursor = e.End
	}
	b.WriteString(text[cursor:])
	return b.String(), nil
}
