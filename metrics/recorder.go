// Package metrics exposes counters and timings for link checks.
package metrics

import "time"

// Recorder defines observability hooks for link validation and document
// rewrites. Implementations may forward to Prometheus or drop everything.
type Recorder interface {
	// ObserveCheck records one URL validation. platform is "generic" or
	// "youtube"; status is "valid", "skipped" or an error category.
	ObserveCheck(platform, status string, d time.Duration)
	IncOutcome(outcome string)
	IncRetry()
	IncCacheHit()
	ObserveDocument(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCheck(string, string, time.Duration) {}
func (NoopRecorder) IncOutcome(string)                          {}
func (NoopRecorder) IncRetry()                                  {}
func (NoopRecorder) IncCacheHit()                               {}
func (NoopRecorder) ObserveDocument(time.Duration)              {}
