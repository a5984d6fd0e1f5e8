package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

// checkGeneric sends HEAD and falls back to GET only when HEAD fails at the
// transport level. Any HEAD status is final, and so is a HEAD timeout.
func (v *Validator) checkGeneric(ctx context.Context, rawURL string) ValidationResult {
	if v.robots != nil {
		if skipped, ok := v.robotsGate(ctx, rawURL); ok {
			return skipped
		}
	}

	resp, headErr := v.fetch(ctx, http.MethodHead, rawURL, v.cfg.UserAgent, v.cfg.Timeout)
	if headErr == nil {
		status := resp.StatusCode
		final := resp.Request.URL.String()
		closeBody(resp)
		if status >= 200 && status < 400 {
			return ValidationResult{Valid: true, FinalURL: final, StatusCode: status}
		}
		return httpFailure(status)
	}
	if isTimeout(headErr) {
		return timeoutFailure()
	}

	resp, getErr := v.fetch(ctx, http.MethodGet, rawURL, v.cfg.UserAgent, v.cfg.Timeout)
	if getErr != nil {
		if isTimeout(getErr) {
			return timeoutFailure()
		}
		return transportFailure(headErr)
	}
	defer closeBody(resp)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return ValidationResult{Valid: true, FinalURL: resp.Request.URL.String(), StatusCode: resp.StatusCode}
	}
	return httpFailure(resp.StatusCode)
}

// robotsGate reports a skipped result when robots.txt disallows rawURL.
// Lookup failures allow the check to proceed.
func (v *Validator) robotsGate(ctx context.Context, rawURL string) (ValidationResult, bool) {
	allowed, err := v.robots.Allowed(ctx, rawURL, v.cfg.UserAgent)
	if err != nil {
		v.logger.Debug("robots.txt lookup failed", zap.String("url", rawURL), zap.Error(err))
	}
	if allowed {
		return ValidationResult{}, false
	}
	return ValidationResult{Valid: true, Skipped: true, FinalURL: rawURL}, true
}

// fetch issues one request under its own timeout. The returned response's
// body is readable until the caller closes it; the timeout stays armed until
// then.
func (v *Validator) fetch(ctx context.Context, method, rawURL, userAgent string, timeout time.Duration) (*http.Response, error) {
	if err := v.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := v.client.Do(req)
	v.observeRTT(time.Since(start))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose releases the request context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func timeoutFailure() ValidationResult {
	return ValidationResult{Error: errTimeout, Category: result.CategoryTimeout}
}

func httpFailure(status int) ValidationResult {
	return ValidationResult{
		Error:      fmt.Sprintf("HTTP %d", status),
		StatusCode: status,
		Category:   result.ClassifyError(nil, status),
	}
}

// transportFailure describes a request that produced no response.
func transportFailure(err error) ValidationResult {
	return ValidationResult{
		Error:    result.Describe(err),
		Category: result.ClassifyError(err, 0),
	}
}
