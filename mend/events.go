package mend

import "github.com/soumyaswe/Pravartak-AI-sub000/result"

// Event reports progress after one link has been resolved.
type Event struct {
	URL           string
	Outcome       result.Outcome
	StatusCode    int
	Error         string
	ErrorCategory result.ErrorCategory
	Checked       int
	Total         int
	Broken        int
}
