package linkcheck

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// minRateFloor keeps a slow host from stalling a document entirely.
	minRateFloor = 1.0

	// maxRateCeiling bounds how far recovery can push the rate.
	maxRateCeiling = 50.0

	// emaAlpha weights a new RTT sample against the running average.
	emaAlpha = 0.2

	// recoveryFactor is the per-sample rate increase while responses are fast.
	recoveryFactor = 1.1

	// backoffFactor is the largest single-step rate cut.
	backoffFactor = 0.5
)

// AdaptiveLimiter is a token bucket shared by all requests of a Validator.
// Unless pinned, it slows down when the moving average of response times
// rises above the target and speeds back up when it falls below.
type AdaptiveLimiter struct {
	limiter   *rate.Limiter
	targetRTT time.Duration

	mu          sync.Mutex
	emaRTT      time.Duration
	currentRate float64
	pinned      bool
}

// NewAdaptiveLimiter creates a limiter starting at rps requests per second.
func NewAdaptiveLimiter(rps int, targetRTT time.Duration) *AdaptiveLimiter {
	r := clampRate(float64(rps))
	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(rate.Limit(r), burstFor(r)),
		targetRTT:   targetRTT,
		emaRTT:      targetRTT,
		currentRate: r,
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// ObserveRTT folds one response time into the moving average and adjusts
// the rate. It is a no-op once the rate is pinned.
func (a *AdaptiveLimiter) ObserveRTT(rtt time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pinned || a.targetRTT <= 0 {
		return
	}

	a.emaRTT = time.Duration(emaAlpha*float64(rtt) + (1-emaAlpha)*float64(a.emaRTT))
	if a.emaRTT <= 0 {
		return
	}

	ratio := float64(a.targetRTT) / float64(a.emaRTT)
	next := a.currentRate * recoveryFactor
	if ratio < 1 {
		next = math.Max(a.currentRate*ratio, a.currentRate*backoffFactor)
	}
	next = clampRate(next)

	if math.Abs(next-a.currentRate) > 0.1 {
		a.setLocked(next)
	}
}

// Pin fixes the rate at rps and stops adaptation.
func (a *AdaptiveLimiter) Pin(rps int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pinned = true
	a.setLocked(clampRate(float64(rps)))
}

// CurrentRate returns the current rate in requests per second, rounded.
func (a *AdaptiveLimiter) CurrentRate() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(math.Round(a.currentRate))
}

// CurrentEMA returns the moving average of observed response times.
func (a *AdaptiveLimiter) CurrentEMA() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.emaRTT
}

func (a *AdaptiveLimiter) setLocked(r float64) {
	a.currentRate = r
	a.limiter.SetLimit(rate.Limit(r))
	a.limiter.SetBurst(burstFor(r))
}

func burstFor(r float64) int {
	return int(math.Ceil(r))
}

func clampRate(rps float64) float64 {
	return math.Min(math.Max(rps, minRateFloor), maxRateCeiling)
}
