package result

import "time"

// Outcome is what happened to one link occurrence in a document.
type Outcome string

const (
	OutcomeValid      Outcome = "valid"      // live, URL unchanged
	OutcomeRedirected Outcome = "redirected" // live, URL rewritten to its final address
	OutcomeReplaced   Outcome = "replaced"   // dead, swapped for a fallback search link
	OutcomeRemoved    Outcome = "removed"    // dead, link dropped from the document
	OutcomeSkipped    Outcome = "skipped"    // not fetched (robots.txt), left as is
	OutcomeBroken     Outcome = "broken"     // dead bare URL, left in place
)

// LinkReport records the check of a single link occurrence.
type LinkReport struct {
	URL           string        `json:"url"`                   // The URL as written in the document
	Text          string        `json:"text,omitempty"`        // Anchor text, empty for bare URLs
	Outcome       Outcome       `json:"outcome"`               // What the rewrite did with the link
	FinalURL      string        `json:"final_url,omitempty"`   // Address after redirects, for live links
	Replacement   string        `json:"replacement,omitempty"` // Fallback URL, for replaced links
	StatusCode    int           `json:"status_code"`           // HTTP status code (0 if unreachable)
	Error         string        `json:"error,omitempty"`       // Failure reason for dead links
	ErrorCategory ErrorCategory `json:"error_type,omitempty"`  // Category classification of the error
	IsYouTube     bool          `json:"is_youtube"`            // Whether the YouTube check was used
}

// Broken reports whether the link was dead when checked.
func (l LinkReport) Broken() bool {
	return l.Outcome == OutcomeReplaced || l.Outcome == OutcomeRemoved || l.Outcome == OutcomeBroken
}

// Stats contains the counters of one rewrite pass.
type Stats struct {
	OriginalCount   int           `json:"original_count"`
	ValidCount      int           `json:"valid_count"`
	ReplacedCount   int           `json:"replaced_count"`
	RemovedCount    int           `json:"removed_count"`
	RedirectedCount int           `json:"redirected_count"`
	Duration        time.Duration `json:"duration_ns"`
}

// Report is the complete output of checking one document.
type Report struct {
	RunID  string       `json:"run_id"`
	Source string       `json:"source"`
	Links  []LinkReport `json:"links"`
	Stats  Stats        `json:"stats"`
}

// BrokenLinks returns the links that were dead when checked.
func (r *Report) BrokenLinks() []LinkReport {
	var broken []LinkReport
	for _, l := range r.Links {
		if l.Broken() {
			broken = append(broken, l)
		}
	}
	return broken
}

// Changed reports whether the rewrite altered any link.
func (r *Report) Changed() bool {
	for _, l := range r.Links {
		switch l.Outcome {
		case OutcomeRedirected, OutcomeReplaced, OutcomeRemoved:
			return true
		}
	}
	return false
}
