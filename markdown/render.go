package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// RenderHTML renders a markdown document to HTML with CommonMark rules.
func RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
