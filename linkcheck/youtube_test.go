package linkcheck

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/soumyaswe/Pravartak-AI-sub000/linkcheck/linkchecktest"
	"github.com/soumyaswe/Pravartak-AI-sub000/policy"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

const (
	livePage = `<!DOCTYPE html><html><head>
<meta property="og:title" content="Go in 100 Seconds">
<meta property="og:video:url" content="https://www.youtube.com/embed/abc">
</head><body><div id="player"></div></body></html>`

	playerJSONPage = `<html><body><script>var ytInitialPlayerResponse = {"videoDetails":{"videoId":"abc"}};</script></body></html>`

	itempropPage = `<html><body><div itemprop="video" itemscope></div></body></html>`

	errorPage = `<html><head><title>YouTube</title></head><body>Something went wrong</body></html>`
)

func youtubeTransport(status int, body string) *linkchecktest.Transport {
	tr := linkchecktest.NewTransport()
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
	for _, host := range []string{"www.youtube.com", "youtube.com", "youtu.be", "m.youtube.com"} {
		tr.HandleFunc(host, handler)
	}
	return tr
}

func TestValidateURL_YouTube(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantValid bool
		wantError string
		wantCat   result.ErrorCategory
	}{
		{name: "og:video meta tag", status: 200, body: livePage, wantValid: true},
		{name: "player json", status: 200, body: playerJSONPage, wantValid: true},
		{name: "itemprop video", status: 200, body: itempropPage, wantValid: true},
		{
			name:      "soft 404",
			status:    200,
			body:      `<html><body><div class="reason">This video is unavailable</div>` + livePage + `</body></html>`,
			wantError: "YouTube video unavailable: This video is unavailable",
			wantCat:   result.CategoryUnavailable,
		},
		{
			name:      "marker matched case-insensitively",
			status:    200,
			body:      `<span>PRIVATE VIDEO</span>` + playerJSONPage,
			wantError: "YouTube video unavailable: Private video",
			wantCat:   result.CategoryUnavailable,
		},
		{
			name:      "player status fragment",
			status:    200,
			body:      `{"playabilityStatus":{"status":"LOGIN_REQUIRED","reason":"Sign in"},"videoDetails":{}}`,
			wantError: `YouTube video unavailable: "playabilityStatus":{"status":"LOGIN_REQUIRED"`,
			wantCat:   result.CategoryUnavailable,
		},
		{
			name:      "earliest listed marker wins",
			status:    200,
			body:      `Private video. Video unavailable.`,
			wantError: "YouTube video unavailable: Video unavailable",
			wantCat:   result.CategoryUnavailable,
		},
		{
			name:      "no metadata",
			status:    200,
			body:      errorPage,
			wantError: "No valid video metadata found",
			wantCat:   result.CategoryUnavailable,
		},
		{name: "not found", status: 404, body: livePage, wantError: "Video not found (404/410)", wantCat: result.Category4xx},
		{name: "gone", status: 410, body: "", wantError: "Video not found (404/410)", wantCat: result.Category4xx},
		{name: "rate limited", status: 429, body: "", wantError: "HTTP 429", wantCat: result.Category4xx},
		{name: "server error", status: 503, body: "", wantError: "HTTP 503", wantCat: result.Category5xx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(youtubeTransport(tt.status, tt.body), Config{})

			res := v.ValidateURL(context.Background(), "https://www.youtube.com/watch?v=abc")
			if res.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (error %q)", res.Valid, tt.wantValid, res.Error)
			}
			if res.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", res.Error, tt.wantError)
			}
			if res.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", res.Category, tt.wantCat)
			}
			if tt.wantValid && res.FinalURL != "https://www.youtube.com/watch?v=abc" {
				t.Errorf("FinalURL = %q", res.FinalURL)
			}
			if !tt.wantValid && res.FinalURL != "" {
				t.Errorf("FinalURL = %q, want empty for invalid result", res.FinalURL)
			}
		})
	}
}

func TestValidateURL_YouTubeUsesGetAndBrowserAgent(t *testing.T) {
	type seen struct{ method, agent string }
	reqs := make(chan seen, 1)
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("youtu.be", func(w http.ResponseWriter, r *http.Request) {
		reqs <- seen{r.Method, r.UserAgent()}
		_, _ = w.Write([]byte(livePage))
	})
	v := newTestValidator(tr, Config{})

	res := v.ValidateURL(context.Background(), "https://YOUTU.BE/abc")
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Error)
	}
	got := <-reqs
	if got.method != http.MethodGet {
		t.Errorf("method = %s, want GET", got.method)
	}
	if got.agent != DefaultBrowserUserAgent {
		t.Errorf("User-Agent = %q, want browser agent", got.agent)
	}
}

func TestValidateURL_YouTubeRedirect(t *testing.T) {
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("youtu.be", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://www.youtube.com/watch?v=abc", http.StatusMovedPermanently)
	})
	tr.HandleFunc("www.youtube.com", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(playerJSONPage))
	})
	v := newTestValidator(tr, Config{})

	res := v.ValidateURL(context.Background(), "https://youtu.be/abc")
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Error)
	}
	if res.FinalURL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("FinalURL = %q, want the watch page", res.FinalURL)
	}
}

func TestValidateURL_YouTubeTimeout(t *testing.T) {
	tr := linkchecktest.NewTransport()
	tr.HandleFunc("www.youtube.com", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	v := newTestValidator(tr, Config{Timeout: time.Hour, YouTubeTimeout: 30 * time.Millisecond})

	res := v.ValidateURL(context.Background(), "https://www.youtube.com/watch?v=slow")
	if res.Valid || res.Error != "Timeout" {
		t.Fatalf("got %+v, want Timeout", res)
	}
}

func TestValidateYouTube_CustomMarkers(t *testing.T) {
	p := policy.Default()
	p.YouTube.UnavailableMarkers = []string{"gone fishing"}
	tr := youtubeTransport(200, `<p>Gone Fishing</p>`+livePage)
	v := New(Config{}, WithHTTPClient(tr.Client()), WithPolicy(p))

	res := v.ValidateYouTube(context.Background(), "https://www.youtube.com/watch?v=abc")
	if res.Valid || res.Error != "YouTube video unavailable: gone fishing" {
		t.Fatalf("got %+v, want custom marker match", res)
	}

	res = v.ValidateYouTube(context.Background(), "::bad")
	if res.Error != "Invalid URL format" {
		t.Errorf("Error = %q, want Invalid URL format", res.Error)
	}
}

func TestYouTubeSniffer_Metadata(t *testing.T) {
	s := newYouTubeSniffer(policy.Default().YouTube)

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"og:video", livePage, true},
		{"videoDetails", playerJSONPage, true},
		{"itemprop", itempropPage, true},
		{"og:title only", `<meta property="og:title" content="x">`, false},
		{"itemprop other", `<div itemprop="image"></div>`, false},
		{"plain text mention", `<p>og:video is a meta tag</p>`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.hasVideoMetadata([]byte(tt.body)); got != tt.want {
				t.Errorf("hasVideoMetadata() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYouTubeSniffer_NoMarkers(t *testing.T) {
	s := newYouTubeSniffer(policy.YouTube{})
	if _, ok := s.unavailableMarker([]byte("Video unavailable")); ok {
		t.Error("sniffer without markers should never match")
	}
}
