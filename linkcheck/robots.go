package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// maxRobotsBytes caps how much of a robots.txt file is read.
const maxRobotsBytes = 512 << 10

// robotsEntry is a parsed robots.txt; nil data allows everything.
type robotsEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

// RobotsChecker fetches and caches robots.txt rules per scheme and host.
// Any failure to obtain rules allows the URL.
type RobotsChecker struct {
	client   *http.Client
	cache    sync.Map // "scheme://host" -> *robotsEntry
	cacheTTL time.Duration
}

// NewRobotsChecker creates a RobotsChecker with the given HTTP client.
func NewRobotsChecker(client *http.Client) *RobotsChecker {
	return &RobotsChecker{
		client:   client,
		cacheTTL: time.Hour,
	}
}

// Allowed reports whether userAgent may fetch rawURL. The error, if any,
// explains why rules could not be loaded; the URL is allowed in that case.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL, userAgent string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	if u.Host == "" {
		return true, nil
	}

	data, err := r.rules(ctx, u)
	if data == nil {
		return true, err
	}
	return data.TestAgent(u.EscapedPath(), userAgent), nil
}

// rules returns the cached rules for u's origin, fetching them when missing
// or stale.
func (r *RobotsChecker) rules(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	origin := u.Scheme + "://" + u.Host
	if cached, ok := r.cache.Load(origin); ok {
		if entry, ok := cached.(*robotsEntry); ok && time.Since(entry.fetchedAt) < r.cacheTTL {
			return entry.data, nil
		}
		r.cache.Delete(origin)
	}

	data, err := r.fetch(ctx, origin)
	r.cache.Store(origin, &robotsEntry{data: data, fetchedAt: time.Now()})
	return data, err
}

func (r *RobotsChecker) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for %s: %w", origin, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", origin, err)
	}
	defer resp.Body.Close()

	// Missing file or server trouble: nothing to obey.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt for %s: %w", origin, err)
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", origin, err)
	}
	return data, nil
}
