package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

// RetryPolicy configures retry behavior for failed requests.
type RetryPolicy struct {
	MaxRetries int           // Maximum number of retries (2 = 3 total attempts)
	BaseDelay  time.Duration // Initial backoff delay
	MaxDelay   time.Duration // Maximum backoff cap
}

// NoRetry returns the policy used unless retries are requested: a single
// attempt per URL.
func NoRetry() RetryPolicy {
	return RetryPolicy{BaseDelay: time.Second, MaxDelay: 30 * time.Second}
}

// DefaultRetryPolicy returns 2 retries (3 attempts), 1s base delay and 30s
// max delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// withRetry runs check until it succeeds, fails permanently, or the policy
// is exhausted. Backoff doubles after every attempt up to MaxDelay.
func (v *Validator) withRetry(ctx context.Context, rawURL string, check func() ValidationResult) ValidationResult {
	policy := v.cfg.Retry
	backoff := policy.BaseDelay
	var last ValidationResult
	var attempts int

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		attempts = attempt + 1

		if attempt > 0 {
			v.recorder.IncRetry()
			v.logger.Debug("retrying link check",
				zap.String("url", rawURL),
				zap.Int("attempt", attempts),
				zap.Duration("backoff", backoff),
				zap.String("error", last.Error))

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return last
			case <-timer.C:
				backoff = min(backoff*2, policy.MaxDelay)
			}
		}

		last = check()
		if last.Valid || !shouldRetry(last) {
			return last
		}
	}

	if attempts > 1 {
		last.Error = fmt.Sprintf("%s (after %d attempts)", last.Error, attempts)
	}
	return last
}

// shouldRetry reports whether a failure looks transient: network errors,
// timeouts, 429 and 5xx. Other 4xx, malformed URLs and redirect loops are
// permanent.
func shouldRetry(res ValidationResult) bool {
	if res.StatusCode == http.StatusTooManyRequests {
		return true
	}
	switch res.Category {
	case result.Category5xx, result.CategoryTimeout, result.CategoryConnectionRefused, result.CategoryDNSFailure:
		return true
	}
	return false
}
