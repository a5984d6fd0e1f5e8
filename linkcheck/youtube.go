package linkcheck

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/net/html"

	"github.com/soumyaswe/Pravartak-AI-sub000/policy"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

// youtubeSniffer inspects a watch page for unavailability markers and for
// evidence of a real video.
type youtubeSniffer struct {
	markers  []string
	matcher  *ahocorasick.Matcher
	metadata policy.Metadata
}

func newYouTubeSniffer(cfg policy.YouTube) *youtubeSniffer {
	s := &youtubeSniffer{metadata: cfg.Metadata}
	lowered := make([]string, 0, len(cfg.UnavailableMarkers))
	for _, m := range cfg.UnavailableMarkers {
		if m == "" {
			continue
		}
		s.markers = append(s.markers, m)
		lowered = append(lowered, strings.ToLower(m))
	}
	if len(lowered) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(lowered)
	}
	return s
}

// unavailableMarker returns the first configured marker found in body,
// ignoring case. When several match, the one listed first wins.
func (s *youtubeSniffer) unavailableMarker(body []byte) (string, bool) {
	if s.matcher == nil {
		return "", false
	}
	hits := s.matcher.MatchThreadSafe(bytes.ToLower(body))
	if len(hits) == 0 {
		return "", false
	}
	first := hits[0]
	for _, h := range hits[1:] {
		if h < first {
			first = h
		}
	}
	return s.markers[first], true
}

// hasVideoMetadata looks for the player JSON key, an og:video* meta tag or
// an itemprop="video" attribute.
func (s *youtubeSniffer) hasVideoMetadata(body []byte) bool {
	md := s.metadata
	if md.JSONKey != "" && bytes.Contains(body, []byte(`"`+md.JSONKey+`"`)) {
		return true
	}

	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			token := z.Token()
			for _, attr := range token.Attr {
				if md.ItemProp != "" && attr.Key == "itemprop" && attr.Val == md.ItemProp {
					return true
				}
				if md.MetaPropertyPrefix != "" && token.Data == "meta" && attr.Key == "property" &&
					strings.HasPrefix(attr.Val, md.MetaPropertyPrefix) {
					return true
				}
			}
		}
	}
}

// validateYouTube fetches the watch page with a browser User-Agent and
// decides from its status and content.
func (v *Validator) validateYouTube(ctx context.Context, rawURL string) ValidationResult {
	resp, err := v.fetch(ctx, http.MethodGet, rawURL, v.cfg.BrowserUserAgent, v.cfg.YouTubeTimeout)
	if err != nil {
		if isTimeout(err) {
			return timeoutFailure()
		}
		return transportFailure(err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if status == http.StatusNotFound || status == http.StatusGone {
		return ValidationResult{
			Error:      "Video not found (404/410)",
			StatusCode: status,
			Category:   result.Category4xx,
		}
	}
	if status < 200 || status >= 300 {
		return httpFailure(status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, v.cfg.MaxBodyBytes))
	if err != nil {
		if isTimeout(err) || errors.Is(resp.Request.Context().Err(), context.DeadlineExceeded) {
			return timeoutFailure()
		}
		return transportFailure(err)
	}

	if marker, ok := v.sniffer.unavailableMarker(body); ok {
		return ValidationResult{
			Error:      "YouTube video unavailable: " + marker,
			StatusCode: status,
			Category:   result.CategoryUnavailable,
		}
	}
	if !v.sniffer.hasVideoMetadata(body) {
		return ValidationResult{
			Error:      "No valid video metadata found",
			StatusCode: status,
			Category:   result.CategoryUnavailable,
		}
	}

	return ValidationResult{Valid: true, FinalURL: resp.Request.URL.String(), StatusCode: status}
}
