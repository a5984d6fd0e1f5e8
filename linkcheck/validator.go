// Package linkcheck decides whether a URL is alive. Generic URLs get a HEAD
// request with a GET fallback; YouTube watch pages are fetched and sniffed
// for soft-404 markers because YouTube answers 200 for removed videos.
package linkcheck

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/soumyaswe/Pravartak-AI-sub000/metrics"
	"github.com/soumyaswe/Pravartak-AI-sub000/policy"
	"github.com/soumyaswe/Pravartak-AI-sub000/result"
	"github.com/soumyaswe/Pravartak-AI-sub000/urlutil"
)

const (
	// DefaultUserAgent identifies generic liveness checks.
	DefaultUserAgent = "Mozilla/5.0 (compatible; LinkValidator/1.0)"
	// DefaultBrowserUserAgent is sent to YouTube, which serves a reduced page
	// to unknown clients.
	DefaultBrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	errInvalidFormat = "Invalid URL format"
	errTimeout       = "Timeout"
)

// Config holds validator configuration.
type Config struct {
	Timeout          time.Duration // Per-request timeout for generic URLs (default 5s)
	YouTubeTimeout   time.Duration // Timeout for the YouTube page fetch (default 10s)
	UserAgent        string        // User-Agent for generic checks
	BrowserUserAgent string        // User-Agent for YouTube fetches
	MaxRedirects     int           // Redirects followed before giving up (default 10)
	MaxBodyBytes     int64         // YouTube page bytes inspected (default 16 MiB)
	RateLimit        int           // Requests per second across all checks, 0 disables
	FixedRate        bool          // Keep RateLimit constant instead of adapting to response times
	TargetRTT        time.Duration // Response time the adaptive limiter aims for (default 1s)
	Retry            RetryPolicy   // Retries for transient generic failures (default none)
	RespectRobots    bool          // Skip URLs that robots.txt disallows
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:          5 * time.Second,
		YouTubeTimeout:   10 * time.Second,
		UserAgent:        DefaultUserAgent,
		BrowserUserAgent: DefaultBrowserUserAgent,
		MaxRedirects:     10,
		MaxBodyBytes:     16 << 20,
		TargetRTT:        time.Second,
		Retry:            NoRetry(),
	}
}

// ValidationResult is the verdict for one URL. FinalURL is set only for
// valid URLs; Error only for invalid ones.
type ValidationResult struct {
	Valid      bool                 `json:"valid"`
	FinalURL   string               `json:"final_url,omitempty"`
	Error      string               `json:"error,omitempty"`
	StatusCode int                  `json:"status_code,omitempty"`
	Category   result.ErrorCategory `json:"category,omitempty"`
	Skipped    bool                 `json:"skipped,omitempty"`
}

// Status is a short label for metrics and logs.
func (r ValidationResult) Status() string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Valid:
		return "valid"
	default:
		return string(r.Category)
	}
}

// Checker validates a single URL.
type Checker interface {
	ValidateURL(ctx context.Context, rawURL string) ValidationResult
}

// Option configures a Validator.
type Option func(*Validator)

// WithHTTPClient sets the client used for all requests. The client's
// redirect policy and timeout are replaced by the validator's own.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Validator) { v.base = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(v *Validator) { v.recorder = r }
}

// WithPolicy sets the policy that supplies the YouTube markers.
func WithPolicy(p *policy.Policy) Option {
	return func(v *Validator) { v.policy = p }
}

// Validator checks URLs over HTTP. It is safe for concurrent use.
type Validator struct {
	cfg      Config
	base     *http.Client
	client   *http.Client
	logger   *zap.Logger
	recorder metrics.Recorder
	policy   *policy.Policy
	limiter  *AdaptiveLimiter
	robots   *RobotsChecker
	sniffer  *youtubeSniffer
}

// New creates a Validator. Zero fields in cfg take their defaults.
func New(cfg Config, opts ...Option) *Validator {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.YouTubeTimeout <= 0 {
		cfg.YouTubeTimeout = def.YouTubeTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.BrowserUserAgent == "" {
		cfg.BrowserUserAgent = def.BrowserUserAgent
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = def.MaxRedirects
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.TargetRTT <= 0 {
		cfg.TargetRTT = def.TargetRTT
	}

	v := &Validator{cfg: cfg}
	for _, opt := range opts {
		opt(v)
	}
	if v.base == nil {
		v.base = &http.Client{}
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	if v.recorder == nil {
		v.recorder = metrics.NoopRecorder{}
	}
	if v.policy == nil {
		v.policy = policy.Default()
	}

	client := *v.base
	client.Timeout = 0 // per-request contexts carry the deadline
	client.CheckRedirect = v.checkRedirect
	v.client = &client

	if cfg.RateLimit > 0 {
		v.limiter = NewAdaptiveLimiter(cfg.RateLimit, cfg.TargetRTT)
		if cfg.FixedRate {
			v.limiter.Pin(cfg.RateLimit)
		}
	}
	if cfg.RespectRobots {
		robotsClient := *v.base
		robotsClient.Timeout = cfg.Timeout
		v.robots = NewRobotsChecker(&robotsClient)
	}
	v.sniffer = newYouTubeSniffer(v.policy.YouTube)
	return v
}

// Config returns the effective configuration.
func (v *Validator) Config() Config {
	return v.cfg
}

// ValidateURL checks one URL: format first, then the YouTube or generic
// liveness check depending on the host. It never returns an error; every
// failure is described by the result.
func (v *Validator) ValidateURL(ctx context.Context, rawURL string) ValidationResult {
	start := time.Now()

	if _, err := urlutil.ParseAbsolute(rawURL); err != nil {
		res := ValidationResult{Error: errInvalidFormat, Category: result.CategoryInvalidURL}
		v.observe("generic", rawURL, res, start)
		return res
	}

	if urlutil.IsYouTubeURL(rawURL) {
		res := v.validateYouTube(ctx, rawURL)
		v.observe("youtube", rawURL, res, start)
		return res
	}

	res := v.withRetry(ctx, rawURL, func() ValidationResult {
		return v.checkGeneric(ctx, rawURL)
	})
	v.observe("generic", rawURL, res, start)
	return res
}

// ValidateYouTube runs the YouTube page check on rawURL regardless of its host.
func (v *Validator) ValidateYouTube(ctx context.Context, rawURL string) ValidationResult {
	start := time.Now()
	if _, err := urlutil.ParseAbsolute(rawURL); err != nil {
		return ValidationResult{Error: errInvalidFormat, Category: result.CategoryInvalidURL}
	}
	res := v.validateYouTube(ctx, rawURL)
	v.observe("youtube", rawURL, res, start)
	return res
}

// ValidateURLs validates urls in batches of concurrency and returns the
// distinct final URLs of the live ones.
func (v *Validator) ValidateURLs(ctx context.Context, urls []string, concurrency int) []string {
	return ValidateURLs(ctx, v, urls, concurrency)
}

func (v *Validator) observe(platform, rawURL string, res ValidationResult, start time.Time) {
	elapsed := time.Since(start)
	v.recorder.ObserveCheck(platform, res.Status(), elapsed)
	if res.Valid {
		v.logger.Debug("link ok",
			zap.String("url", rawURL),
			zap.String("final_url", res.FinalURL),
			zap.Bool("skipped", res.Skipped),
			zap.Duration("elapsed", elapsed))
		return
	}
	v.logger.Info("resource unavailable",
		zap.String("url", rawURL),
		zap.String("error", res.Error),
		zap.String("category", string(res.Category)),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", elapsed))
}

func (v *Validator) checkRedirect(_ *http.Request, via []*http.Request) error {
	if len(via) >= v.cfg.MaxRedirects {
		return result.ErrRedirectLoop
	}
	return nil
}

// wait blocks on the shared rate limiter, if any.
func (v *Validator) wait(ctx context.Context) error {
	if v.limiter == nil {
		return nil
	}
	return v.limiter.Wait(ctx)
}

// observeRTT feeds a response time back to the adaptive limiter.
func (v *Validator) observeRTT(rtt time.Duration) {
	if v.limiter != nil {
		v.limiter.ObserveRTT(rtt)
	}
}
