package tradier_api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	XRateLimitAllowed           = "X-Ratelimit-Allowed"
	XRateLimitAvailable         = "X-Ratelimit-Available"
	XRateLimitExpiry            = "X-Ratelimit-Expiry" // epoch milliseconds
	DefaultLowRequestsThreshold = 5
)

// RateLimiter tracks the rate limit window reported by the API and delays the
// next request while the window is exhausted. It never resends a request.
type RateLimiter struct {
	mutex                sync.Mutex
	available            int
	allowed              int
	expiry               time.Time
	lowRequestsThreshold int
}

func NewRateLimiter(lowRequestsThreshold int) *RateLimiter {
	if lowRequestsThreshold <= 0 {
		lowRequestsThreshold = DefaultLowRequestsThreshold
	}
	return &RateLimiter{
		available:            -1, // unknown until the first response
		lowRequestsThreshold: lowRequestsThreshold,
	}
}

// UpdateLimits reads the rate limit headers of a response. Missing or
// malformed headers leave the previous state untouched.
func (rl *RateLimiter) UpdateLimits(headers http.Header) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if v := headers.Get(XRateLimitAvailable); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logrus.Warnf("RateLimiter: Failed to parse '%s' header '%s': %v", XRateLimitAvailable, v, err)
		} else {
			rl.available = n
		}
	}
	if v := headers.Get(XRateLimitAllowed); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rl.allowed = n
		}
	}
	if v := headers.Get(XRateLimitExpiry); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logrus.Warnf("RateLimiter: Failed to parse '%s' header '%s': %v", XRateLimitExpiry, v, err)
		} else {
			rl.expiry = time.UnixMilli(ms)
		}
	}
}

// WaitIfNeeded blocks until the current window expires when no requests are
// left in it. It returns early with the context error if ctx is done first.
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	rl.mutex.Lock()
	available := rl.available
	expiry := rl.expiry
	threshold := rl.lowRequestsThreshold
	rl.mutex.Unlock()

	if available < 0 || expiry.IsZero() {
		return nil
	}
	wait := time.Until(expiry)
	if wait <= 0 {
		return nil
	}

	if available == 0 {
		logrus.Warnf("RateLimiter: No requests remaining. Sleeping for %v until %v.", wait, expiry)
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if available < threshold {
		logrus.Debugf("RateLimiter: Low requests (%d/%d). Window resets in %v.", available, threshold, wait)
	}
	return nil
}
