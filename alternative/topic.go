package alternative

import (
	"regexp"
	"strings"
)

var (
	descriptorSuffix = regexp.MustCompile(`(?i)\s*[—–-]\s*(YouTube video|Video|Tutorial|Course|Playlist).*$`)
	parenthetical    = regexp.MustCompile(`\s*\(.*?\)\s*`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// Topic derives a search topic from link text: a trailing descriptor such
// as " — YouTube video" or " - Tutorial" is dropped along with everything
// after it, parenthetical notes are removed, and whitespace is collapsed.
// An empty result means no topic could be derived.
func Topic(linkText string) string {
	topic := descriptorSuffix.ReplaceAllString(linkText, "")
	topic = parenthetical.ReplaceAllString(topic, " ")
	topic = whitespaceRun.ReplaceAllString(topic, " ")
	return strings.TrimSpace(topic)
}
