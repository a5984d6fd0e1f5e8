package result

import (
	"strings"
	"testing"
	"time"
)

func TestPrintResults_NoBrokenLinks(t *testing.T) {
	var buf strings.Builder
	r := &Report{
		Links: []LinkReport{{URL: "https://ok.test", Outcome: OutcomeValid}},
		Stats: Stats{OriginalCount: 1, ValidCount: 1, Duration: time.Second},
	}

	PrintResults(&buf, r)

	got := buf.String()
	want := "No broken links found!\nChecked 1 links: 1 valid, 0 redirected, 0 replaced, 0 removed\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintResults_WithBrokenLinks(t *testing.T) {
	var buf strings.Builder
	r := &Report{
		Links: sampleLinks(),
		Stats: Stats{OriginalCount: 3, ValidCount: 2, ReplacedCount: 1, RemovedCount: 1, RedirectedCount: 1},
	}

	PrintResults(&buf, r)

	got := buf.String()
	for _, want := range []string{
		"Broken Links:",
		"URL: https://example.com/broken",
		"Error: HTTP 404",
		"Replaced with: https://www.freecodecamp.org/news/search/?query=Broken%20Tutorial",
		"URL: https://external.com/error",
		"Error: connection refused",
		"Removed",
		"Checked 3 links: 2 valid, 1 redirected, 1 replaced, 1 removed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "http://example.com\n") {
		t.Error("redirected link should not be listed as broken")
	}
}
