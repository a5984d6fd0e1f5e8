package mend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck"
	"github.com/soumyaswe/Pravartak-AI-sub000/markdown"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
	"github.com/soumyaswe/Pravartak-AI-sub000/urlutil"
)

// FilterSummary is the outcome of Filter. Counts are over distinct URLs.
type FilterSummary struct {
	ValidatedText string              `json:"validated_text"`
	OriginalCount int                 `json:"original_count"`
	ValidCount    int                 `json:"valid_count"`
	Links         []result.LinkReport `json:"links"`
}

// Stats converts the summary counters to result.Stats.
func (s FilterSummary) Stats(d time.Duration) result.Stats {
	return Summary{OriginalCount: s.OriginalCount, ValidCount: s.ValidCount, Links: s.Links}.Stats(d)
}

// Filter validates the distinct URLs of text, markdown link targets and
// bare URLs alike, with bounded concurrency. Markdown links to dead URLs
// are removed and live URLs are rewritten to their final address. Dead bare
// URLs are left in place.
func (m *Mender) Filter(ctx context.Context, text string) (summary FilterSummary, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("link filter failed, keeping original text", zap.Any("panic", r))
			summary = FilterSummary{ValidatedText: text, OriginalCount: summary.OriginalCount}
			err = nil
		}
	}()

	urls := markdown.ExtractURLs(text)
	summary = FilterSummary{ValidatedText: text, OriginalCount: len(urls)}
	if len(urls) == 0 {
		return summary, nil
	}

	unique, results := linkcheck.ValidateBatch(ctx, m.checker, urls, m.concurrency)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return summary, ctxErr
	}
	byURL := make(map[string]linkcheck.ValidationResult, len(unique))
	for i, u := range unique {
		byURL[u] = results[i]
		if results[i].Valid {
			summary.ValidCount++
		}
	}

	var edits []markdown.Edit
	removed := make(map[string]bool)
	for _, link := range markdown.ExtractLinks(text) {
		res, ok := byURL[link.URL]
		if !ok {
			continue
		}
		switch {
		case !res.Valid:
			edits = append(edits, markdown.Edit{Start: link.Start, End: link.End})
			removed[link.URL] = true
		case res.FinalURL != "" && res.FinalURL != link.URL:
			edits = append(edits, markdown.Edit{Start: link.URLStart, End: link.URLEnd, Replacement: res.FinalURL})
		}
	}
	for _, span := range markdown.BareURLs(text) {
		res, ok := byURL[span.URL]
		if ok && res.Valid && res.FinalURL != "" && res.FinalURL != span.URL {
			edits = append(edits, markdown.Edit{Start: span.Start, End: span.End, Replacement: res.FinalURL})
		}
	}

	rewritten, err := markdown.ApplyEdits(text, edits)
	if err != nil {
		m.logger.Error("link filter failed, keeping original text", zap.Error(err))
		return summary, nil
	}

	summary.ValidatedText = markdown.Cleanup(rewritten)
	summary.Links = make([]result.LinkReport, 0, len(unique))
	for i, u := range unique {
		report := filterReport(u, results[i], removed[u])
		summary.Links = append(summary.Links, report)
		m.recorder.IncOutcome(string(report.Outcome))
	}

	m.recorder.ObserveDocument(time.Since(start))
	m.logger.Info("links filtered",
		zap.Int("original", summary.OriginalCount),
		zap.Int("valid", summary.ValidCount),
		zap.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

func filterReport(u string, res linkcheck.ValidationResult, removed bool) result.LinkReport {
	report := result.LinkReport{
		URL:        u,
		StatusCode: res.StatusCode,
		IsYouTube:  urlutil.IsYouTubeURL(u),
	}
	switch {
	case res.Valid && res.Skipped:
		report.Outcome = result.OutcomeSkipped
		report.FinalURL = res.FinalURL
	case res.Valid && res.FinalURL != "" && res.FinalURL != u:
		report.Outcome = result.OutcomeRedirected
		report.FinalURL = res.FinalURL
	case res.Valid:
		report.Outcome = result.OutcomeValid
		report.FinalURL = res.FinalURL
	case removed:
		report.Outcome = result.OutcomeRemoved
	default:
		report.Outcome = result.OutcomeBroken
	}
	if !res.Valid {
		report.Error = res.Error
		report.ErrorCategory = res.Category
	}
	return report
}
