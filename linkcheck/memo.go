package linkcheck

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/soumyaswe/Pravartak-AI-sub000/metrics"
)

// Memo caches validation results by exact URL for the lifetime of a run,
// so a URL shared by many documents is fetched once. Concurrent requests
// for the same URL share one check.
type Memo struct {
	checker  Checker
	seen     *SeenFilter
	results  sync.Map // url -> ValidationResult
	group    singleflight.Group
	recorder metrics.Recorder
}

// NewMemo wraps checker. seen may be nil; when set it answers "never
// checked" without touching the result map. recorder may be nil.
func NewMemo(checker Checker, seen *SeenFilter, recorder metrics.Recorder) *Memo {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Memo{checker: checker, seen: seen, recorder: recorder}
}

// ValidateURL implements Checker.
func (m *Memo) ValidateURL(ctx context.Context, rawURL string) ValidationResult {
	if res, ok := m.lookup(rawURL); ok {
		m.recorder.IncCacheHit()
		return res
	}

	v, _, _ := m.group.Do(rawURL, func() (any, error) {
		if res, ok := m.lookup(rawURL); ok {
			return res, nil
		}
		res := m.checker.ValidateURL(ctx, rawURL)
		// A cancelled run says nothing about the URL itself.
		if ctx.Err() == nil {
			m.results.Store(rawURL, res)
			if m.seen != nil {
				m.seen.Add(rawURL)
			}
		}
		return res, nil
	})
	return v.(ValidationResult)
}

func (m *Memo) lookup(rawURL string) (ValidationResult, bool) {
	if m.seen != nil && !m.seen.Test(rawURL) {
		return ValidationResult{}, false
	}
	v, ok := m.results.Load(rawURL)
	if !ok {
		return ValidationResult{}, false
	}
	return v.(ValidationResult), true
}

// Len returns the number of cached results.
func (m *Memo) Len() int {
	n := 0
	m.results.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
