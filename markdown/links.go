// Package markdown extracts links from generated markdown and applies
// span-based rewrites to it without re-rendering the document.
package markdown

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/soumyaswe/Pravartak-AI-sub000/urlutil"
)

var (
	linkPattern    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bareURLPattern = regexp.MustCompile(`https?://[^\s<>")]+`)
)

// Link is one `[text](url)` occurrence in a document.
//
// Start and End are byte offsets of FullMatch in the source, End exclusive.
// URLStart and URLEnd delimit the trimmed URL inside the parentheses.
type Link struct {
	FullMatch string
	Text      string
	URL       string
	Start     int
	End       int
	URLStart  int
	URLEnd    int
}

// Span is a bare URL occurrence outside of any markdown link.
type Span struct {
	URL   string
	Start int
	End   int
}

// ExtractLinks returns every markdown link in text in order of appearance.
// Repeated links are returned once per occurrence.
func ExtractLinks(text string) []Link {
	matches := linkPattern.FindAllStringSubmatchIndex(text, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		rawStart, rawEnd := m[4], m[5]
		raw := text[rawStart:rawEnd]
		lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
		trimmed := strings.TrimSpace(raw)

		links = append(links, Link{
			FullMatch: text[m[0]:m[1]],
			Text:      text[m[2]:m[3]],
			URL:       trimmed,
			Start:     m[0],
			End:       m[1],
			URLStart:  rawStart + lead,
			URLEnd:    rawStart + lead + len(trimmed),
		})
	}
	return links
}

// ExtractURLs returns the distinct URLs referenced by text: markdown link
// targets first, then bare http(s) URLs, in order of first appearance.
func ExtractURLs(text string) []string {
	var urls []string
	for _, link := range ExtractLinks(text) {
		if link.URL != "" {
			urls = append(urls, link.URL)
		}
	}
	urls = append(urls, bareURLPattern.FindAllString(text, -1)...)
	return urlutil.Dedupe(urls)
}

// BareURLs returns the bare http(s) URLs in text that are not part of a
// markdown link.
func BareURLs(text string) []Span {
	links := ExtractLinks(text)
	var spans []Span
	for _, m := range bareURLPattern.FindAllStringIndex(text, -1) {
		if insideLink(links, m[0]) {
			continue
		}
		spans = append(spans, Span{URL: text[m[0]:m[1]], Start: m[0], End: m[1]})
	}
	return spans
}

func insideLink(links []Link, offset int) bool {
	for _, l := range links {
		if offset >= l.Start && offset < l.End {
			return true
		}
	}
	return false
}
