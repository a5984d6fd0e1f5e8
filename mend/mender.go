// Package mend rewrites the links of a generated markdown document: live
// links are canonicalized to their final address, dead links are replaced
// with an annotated fallback search or removed, and bullets left empty by
// removals are cleaned up.
package mend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soumyaswe/Pravartak-AI-sub000/alternative"
	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck"
	"github.com/soumyaswe/Pravartak-AI-sub000/markdown"
	"github.com/soumyaswe/Pravartak-AI-sub000/metrics"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
	"github.com/soumyaswe/Pravartak-AI-sub000/urlutil"
)

// Annotations appended to the text of replaced links.
const (
	SearchAnnotation      = " (Search)"
	AlternativeAnnotation = " (Alternative)"
)

// Summary is the outcome of Mend.
type Summary struct {
	ValidatedText string              `json:"validated_text"`
	OriginalCount int                 `json:"original_count"`
	ValidCount    int                 `json:"valid_count"`
	ReplacedCount int                 `json:"replaced_count"`
	Links         []result.LinkReport `json:"links"`
}

// Stats converts the summary counters to result.Stats.
func (s Summary) Stats(d time.Duration) result.Stats {
	stats := result.Stats{
		OriginalCount: s.OriginalCount,
		ValidCount:    s.ValidCount,
		ReplacedCount: s.ReplacedCount,
		Duration:      d,
	}
	for _, l := range s.Links {
		switch l.Outcome {
		case result.OutcomeRemoved:
			stats.RemovedCount++
		case result.OutcomeRedirected:
			stats.RedirectedCount++
		}
	}
	return stats
}

// Option configures a Mender.
type Option func(*Mender)

// WithFinder sets the alternative finder used for dead links.
func WithFinder(f *alternative.Finder) Option {
	return func(m *Mender) { m.finder = f }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mender) { m.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(m *Mender) { m.recorder = r }
}

// WithProgress sends an Event per resolved link to ch. The channel is not
// closed by the Mender.
func WithProgress(ch chan<- Event) Option {
	return func(m *Mender) { m.progress = ch }
}

// WithConcurrency sets the batch size used by Filter.
func WithConcurrency(n int) Option {
	return func(m *Mender) { m.concurrency = n }
}

// Mender rewrites markdown documents. It is safe for concurrent use when
// its Checker is.
type Mender struct {
	checker     linkcheck.Checker
	finder      *alternative.Finder
	logger      *zap.Logger
	recorder    metrics.Recorder
	progress    chan<- Event
	concurrency int
}

// New creates a Mender that validates links with checker.
func New(checker linkcheck.Checker, opts ...Option) *Mender {
	m := &Mender{
		checker:     checker,
		concurrency: linkcheck.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.finder == nil {
		m.finder = alternative.New(nil, alternative.WithLogger(m.logger))
	}
	if m.recorder == nil {
		m.recorder = metrics.NoopRecorder{}
	}
	if m.concurrency <= 0 {
		m.concurrency = linkcheck.DefaultConcurrency
	}
	return m
}

// Mend validates every markdown link of text in document order and rewrites
// it. With replace set, dead links become annotated fallback links and
// ValidCount always equals OriginalCount; otherwise dead links are removed.
//
// Repeated URLs are checked once per call but every occurrence is rewritten.
// If the rewrite fails unexpectedly the original text is returned. A
// cancelled ctx returns the original text with ctx's error.
func (m *Mender) Mend(ctx context.Context, text string, replace bool) (summary Summary, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("link rewrite failed, keeping original text", zap.Any("panic", r))
			summary = Summary{ValidatedText: text, OriginalCount: summary.OriginalCount}
			err = nil
		}
	}()

	links := markdown.ExtractLinks(text)
	summary = Summary{ValidatedText: text, OriginalCount: len(links)}
	if len(links) == 0 {
		return summary, nil
	}

	cache := make(map[string]linkcheck.ValidationResult, len(links))
	edits := make([]markdown.Edit, 0, len(links))
	reports := make([]result.LinkReport, 0, len(links))
	broken := 0

	for i, link := range links {
		res, ok := cache[link.URL]
		if !ok {
			res = m.checker.ValidateURL(ctx, link.URL)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Summary{ValidatedText: text, OriginalCount: len(links)}, ctxErr
			}
			cache[link.URL] = res
		}

		report, edit := m.resolve(link, res, replace)
		if edit != nil {
			edits = append(edits, *edit)
		}
		switch report.Outcome {
		case result.OutcomeReplaced:
			summary.ValidCount++
			summary.ReplacedCount++
			broken++
		case result.OutcomeRemoved:
			broken++
		default:
			summary.ValidCount++
		}
		reports = append(reports, report)
		m.recorder.IncOutcome(string(report.Outcome))

		if err := m.emit(ctx, report, i+1, len(links), broken); err != nil {
			return Summary{ValidatedText: text, OriginalCount: len(links)}, err
		}
	}

	rewritten, err := markdown.ApplyEdits(text, edits)
	if err != nil {
		m.logger.Error("link rewrite failed, keeping original text", zap.Error(err))
		return Summary{ValidatedText: text, OriginalCount: len(links)}, nil
	}

	summary.ValidatedText = markdown.Cleanup(rewritten)
	summary.Links = reports
	m.recorder.ObserveDocument(time.Since(start))
	m.logger.Info("links validated",
		zap.Int("original", summary.OriginalCount),
		zap.Int("valid", summary.ValidCount),
		zap.Int("replaced", summary.ReplacedCount),
		zap.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

// resolve decides what happens to one link occurrence. A nil edit leaves
// the text untouched.
func (m *Mender) resolve(link markdown.Link, res linkcheck.ValidationResult, replace bool) (result.LinkReport, *markdown.Edit) {
	isYouTube := urlutil.IsYouTubeURL(link.URL)
	report := result.LinkReport{
		URL:        link.URL,
		Text:       link.Text,
		StatusCode: res.StatusCode,
		IsYouTube:  isYouTube,
	}

	if res.Valid {
		report.FinalURL = res.FinalURL
		switch {
		case res.Skipped:
			report.Outcome = result.OutcomeSkipped
		case res.FinalURL != "" && res.FinalURL != link.URL:
			report.Outcome = result.OutcomeRedirected
			return report, &markdown.Edit{Start: link.URLStart, End: link.URLEnd, Replacement: res.FinalURL}
		default:
			report.Outcome = result.OutcomeValid
		}
		return report, nil
	}

	report.Error = res.Error
	report.ErrorCategory = res.Category

	if !replace {
		report.Outcome = result.OutcomeRemoved
		return report, &markdown.Edit{Start: link.Start, End: link.End}
	}

	alt := m.finder.Find(link.URL, link.Text)
	annotation := AlternativeAnnotation
	if isYouTube {
		annotation = SearchAnnotation
	}
	target := alt.URL
	if !alt.Found || target == "" {
		target = m.finder.SearchURL(alternative.Topic(link.Text))
		annotation = SearchAnnotation
		m.logger.Warn("no alternative found, using web search",
			zap.String("url", link.URL),
			zap.String("text", link.Text),
		)
	} else {
		m.logger.Info("replacing with alternative",
			zap.String("url", link.URL),
			zap.String("alternative", target),
		)
	}

	report.Outcome = result.OutcomeReplaced
	report.Replacement = target
	replacement := fmt.Sprintf("[%s](%s)", annotate(link.Text, annotation), target)
	return report, &markdown.Edit{Start: link.Start, End: link.End, Replacement: replacement}
}

// annotate appends annotation unless text already carries one.
func annotate(text, annotation string) string {
	if strings.Contains(text, strings.TrimSpace(SearchAnnotation)) ||
		strings.Contains(text, strings.TrimSpace(AlternativeAnnotation)) {
		return text
	}
	return text + annotation
}

func (m *Mender) emit(ctx context.Context, report result.LinkReport, checked, total, broken int) error {
	if m.progress == nil {
		return nil
	}
	evt := Event{
		URL:           report.URL,
		Outcome:       report.Outcome,
		StatusCode:    report.StatusCode,
		Error:         report.Error,
		ErrorCategory: report.ErrorCategory,
		Checked:       checked,
		Total:         total,
		Broken:        broken,
	}
	select {
	case m.progress <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
