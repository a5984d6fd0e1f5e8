// Package urlutil holds the small URL predicates shared by the validator,
// the alternative finder and the markdown rewriter.
package urlutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// ErrInvalidFormat is returned by ParseAbsolute for strings that are not
// absolute URLs.
var ErrInvalidFormat = errors.New("invalid URL format")

// youtubeHosts lists the hostnames served by YouTube's watch pages.
var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"youtu.be":        true,
	"m.youtube.com":   true,
}

// ParseAbsolute parses rawURL and requires an http or https scheme and a
// host.
// Hostnames are run through the IDNA lookup profile so that labels a browser
// would refuse (bad punycode, illegal code points) are rejected here instead
// of surfacing later as DNS errors. IP literals skip the IDNA step.
func ParseAbsolute(rawURL string) (*url.URL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrInvalidFormat
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if !isHTTPScheme(parsed.Scheme) || parsed.Host == "" {
		return nil, ErrInvalidFormat
	}

	host := parsed.Hostname()
	if host == "" {
		return nil, ErrInvalidFormat
	}
	if net.ParseIP(host) == nil {
		if _, err := idna.Lookup.ToASCII(host); err != nil {
			return nil, fmt.Errorf("%w: host %q: %w", ErrInvalidFormat, host, err)
		}
	}

	return parsed, nil
}

// IsYouTubeURL reports whether rawURL points at one of YouTube's video hosts.
// The comparison is case-insensitive; unparseable input is not YouTube.
func IsYouTubeURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return youtubeHosts[strings.ToLower(parsed.Hostname())]
}

// Dedupe returns the distinct values of in, keeping first-seen order.
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}
