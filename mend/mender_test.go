package mend

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck"
	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck/linkchecktest"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

func newMender(tr *linkchecktest.Transport, opts ...Option) *Mender {
	v := linkcheck.New(linkcheck.Config{}, linkcheck.WithHTTPClient(tr.Client()))
	return New(v, opts...)
}

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

// countingRecorder counts outcomes and documents.
type countingRecorder struct {
	mu        sync.Mutex
	outcomes  map[string]int
	documents int
}

func (r *countingRecorder) ObserveCheck(string, string, time.Duration) {}
func (r *countingRecorder) IncRetry()                                  {}
func (r *countingRecorder) IncCacheHit()                               {}

func (r *countingRecorder) IncOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string]int)
	}
	r.outcomes[outcome]++
}

func (r *countingRecorder) ObserveDocument(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents++
}

type panicChecker struct{}

func (panicChecker) ValidateURL(context.Context, string) linkcheck.ValidationResult {
	panic("boom")
}

func TestMend_DeadLinkGetsAlternative(t *testing.T) {
	tr := linkchecktest.NewTransport()
	m := newMender(tr)

	sum, err := m.Mend(context.Background(), "[Tutorial](https://definitely-not-a-real-domain-xyz123.com)", true)
	require.NoError(t, err)

	assert.Equal(t, "[Tutorial (Alternative)](https://www.freecodecamp.org/news/search/?query=Tutorial%20tutorial)", sum.ValidatedText)
	assert.Equal(t, 1, sum.OriginalCount)
	assert.Equal(t, 1, sum.ValidCount)
	assert.Equal(t, 1, sum.ReplacedCount)

	require.Len(t, sum.Links, 1)
	assert.Equal(t, result.OutcomeReplaced, sum.Links[0].Outcome)
	assert.Equal(t, result.CategoryDNSFailure, sum.Links[0].ErrorCategory)
}

func TestMend_RedirectIsCanonicalized(t *testing.T) {
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("example.com", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Scheme == "http" {
			http.Redirect(w, r, "https://example.com/", http.StatusMovedPermanently)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	sum, err := newMender(tr).Mend(context.Background(), "[Valid Page](http://example.com)", true)
	require.NoError(t, err)

	assert.Equal(t, "[Valid Page](https://example.com/)", sum.ValidatedText)
	assert.Equal(t, 1, sum.ValidCount)
	assert.Equal(t, 0, sum.ReplacedCount)
	assert.Equal(t, result.OutcomeRedirected, sum.Links[0].Outcome)
	assert.Equal(t, "https://example.com/", sum.Links[0].FinalURL)
}

func TestMend_RepeatedDeadLinkRewrittenEverywhere(t *testing.T) {
	tr := linkchecktest.NewTransport()
	text := "- [Go Docs](https://dead.test/x)\n- [Go Docs](https://dead.test/x)\n"

	sum, err := newMender(tr).Mend(context.Background(), text, true)
	require.NoError(t, err)

	replaced := "- [Go Docs (Alternative)](https://developer.mozilla.org/en-US/search?q=Go%20Docs)\n"
	assert.Equal(t, replaced+replaced, sum.ValidatedText)
	assert.Equal(t, 2, sum.OriginalCount)
	assert.Equal(t, 2, sum.ReplacedCount)
	assert.Len(t, sum.Links, 2)
	assert.EqualValues(t, 2, tr.Requests(), "one HEAD and one GET for the shared URL")
}

func TestMend_Empty(t *testing.T) {
	sum, err := newMender(linkchecktest.NewTransport()).Mend(context.Background(), "", true)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)

	plain := "# Notes\n\nNo links at all.\n"
	sum, err = newMender(linkchecktest.NewTransport()).Mend(context.Background(), plain, true)
	require.NoError(t, err)
	assert.Equal(t, plain, sum.ValidatedText)
	assert.Zero(t, sum.OriginalCount)
}

func TestMend_RemovalWithoutReplacement(t *testing.T) {
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("live.test", ok)
	text := "# Resources\n\n- [Dead](https://dead.test/)\n- [Live](https://live.test/)\n"

	sum, err := newMender(tr).Mend(context.Background(), text, false)
	require.NoError(t, err)

	assert.Equal(t, "# Resources\n\n- [Live](https://live.test/)\n", sum.ValidatedText)
	assert.Equal(t, 2, sum.OriginalCount)
	assert.Equal(t, 1, sum.ValidCount)
	assert.Equal(t, 0, sum.ReplacedCount)
	assert.Equal(t, result.OutcomeRemoved, sum.Links[0].Outcome)
	assert.Equal(t, result.OutcomeValid, sum.Links[1].Outcome)
}

func TestMend_RemovalCollapsesBlankLines(t *testing.T) {
	tr := linkchecktest.NewTransport()
	text := "Intro\n\n[Gone](https://dead.test/)\n\n\nOutro\n"

	sum, err := newMender(tr).Mend(context.Background(), text, false)
	require.NoError(t, err)
	assert.Equal(t, "Intro\n\nOutro\n", sum.ValidatedText)
}

func TestMend_ReplacementIsIdempotent(t *testing.T) {
	tr := linkchecktest.NewTransport()
	m := newMender(tr)
	text := "- [Tutorial](https://gone.test/a)\n- [Git Basics (Search)](https://gone.test/b)\n"

	first, err := m.Mend(context.Background(), text, true)
	require.NoError(t, err)
	second, err := m.Mend(context.Background(), first.ValidatedText, true)
	require.NoError(t, err)

	assert.Equal(t, first.ValidatedText, second.ValidatedText)
	assert.Equal(t, 1, strings.Count(second.ValidatedText, "(Alternative)"))
	assert.Equal(t, 1, strings.Count(second.ValidatedText, "(Search)"))
}

func TestMend_EveryLinkCountsAsValidWhenReplacing(t *testing.T) {
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("live.test", ok)
	tr.HandleFunc("www.youtube.com", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	text := strings.Join([]string{
		"- [Live](https://live.test/)",
		"- [React Hooks — YouTube video](https://www.youtube.com/watch?v=gone)",
		"- [Broken](not a url)",
		"- [(Video)](https://dead.test/v)",
		"- [Fetch API documentation](https://dead.test/docs)",
	}, "\n")

	sum, err := newMender(tr).Mend(context.Background(), text, true)
	require.NoError(t, err)

	assert.Equal(t, sum.OriginalCount, sum.ValidCount)
	assert.Equal(t, 5, sum.OriginalCount)
	assert.Equal(t, 4, sum.ReplacedCount)

	assert.Contains(t, sum.ValidatedText, "[React Hooks — YouTube video (Search)](https://www.youtube.com/results?search_query=React%20Hooks%20freeCodeCamp)")
	assert.Contains(t, sum.ValidatedText, "[Broken (Alternative)](https://www.freecodecamp.org/news/search/?query=Broken)")
	assert.Contains(t, sum.ValidatedText, "[(Video) (Search)](https://www.google.com/search?q=)")
	assert.Contains(t, sum.ValidatedText, "[Fetch API documentation (Alternative)](https://developer.mozilla.org/en-US/search?q=Fetch%20API%20documentation)")
	assert.NotContains(t, sum.ValidatedText, "dead.test")
}

func TestMend_ValidCountBoundedWithoutReplacement(t *testing.T) {
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("live.test", ok)
	text := "[a](https://live.test/) [b](https://dead.test/) [c](https://live.test/c)"

	sum, err := newMender(tr).Mend(context.Background(), text, false)
	require.NoError(t, err)
	assert.LessOrEqual(t, sum.ValidCount, sum.OriginalCount)
	assert.Equal(t, 2, sum.ValidCount)
	assert.Equal(t, "[a](https://live.test/)  [c](https://live.test/c)", sum.ValidatedText)
}

func TestMend_ProgressAndMetrics(t *testing.T) {
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("live.test", ok)
	events := make(chan Event, 8)
	rec := &countingRecorder{}
	core, logs := observer.New(zapcore.InfoLevel)

	m := newMender(tr, WithProgress(events), WithRecorder(rec), WithLogger(zap.New(core)))
	_, err := m.Mend(context.Background(), "[a](https://live.test/) [b](https://dead.test/)", true)
	require.NoError(t, err)
	close(events)

	var got []Event
	for evt := range events {
		got = append(got, evt)
	}
	require.Len(t, got, 2)
	assert.Equal(t, Event{URL: "https://live.test/", Outcome: result.OutcomeValid, StatusCode: http.StatusOK, Checked: 1, Total: 2}, got[0])
	assert.Equal(t, result.OutcomeReplaced, got[1].Outcome)
	assert.Equal(t, 2, got[1].Checked)
	assert.Equal(t, 1, got[1].Broken)

	assert.Equal(t, map[string]int{"valid": 1, "replaced": 1}, rec.outcomes)
	assert.Equal(t, 1, rec.documents)

	assert.Equal(t, 1, logs.FilterMessage("replacing with alternative").Len())
	assert.Equal(t, 1, logs.FilterMessage("links validated").Len())
}

func TestMend_PanicReturnsOriginal(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	m := New(panicChecker{}, WithLogger(zap.New(core)))
	text := "- [a](https://a.test/)\n"

	sum, err := m.Mend(context.Background(), text, true)
	require.NoError(t, err)
	assert.Equal(t, text, sum.ValidatedText)
	assert.Equal(t, 1, sum.OriginalCount)
	assert.Zero(t, sum.ValidCount)
	assert.Equal(t, 1, logs.Len())
}

func TestMend_CancelledContext(t *testing.T) {
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("live.test", ok)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text := "[a](https://live.test/)"
	sum, err := newMender(tr).Mend(ctx, text, true)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, text, sum.ValidatedText)
}

func TestAnnotate(t *testing.T) {
	tests := []struct {
		text       string
		annotation string
		want       string
	}{
		{"Go", SearchAnnotation, "Go (Search)"},
		{"Go", AlternativeAnnotation, "Go (Alternative)"},
		{"Go (Search)", AlternativeAnnotation, "Go (Search)"},
		{"Go (Alternative)", SearchAnnotation, "Go (Alternative)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, annotate(tt.text, tt.annotation), tt.text)
	}
}

func TestSummaryStats(t *testing.T) {
	sum := Summary{
		OriginalCount: 3,
		ValidCount:    2,
		ReplacedCount: 0,
		Links: []result.LinkReport{
			{Outcome: result.OutcomeRedirected},
			{Outcome: result.OutcomeValid},
			{Outcome: result.OutcomeRemoved},
		},
	}

	stats := sum.Stats(time.Second)
	assert.Equal(t, result.Stats{
		OriginalCount:   3,
		ValidCount:      2,
		RemovedCount:    1,
		RedirectedCount: 1,
		Duration:        time.Second,
	}, stats)
}
