package refetch

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ambiyansyah-risyal/refetch/internal/backoff"
)

// RetryPolicy bounds the retry loop of one Execute invocation. It is
// immutable for the lifetime of the invocation: the orchestrator snapshots
// the client defaults, applies per-call overrides, and never mutates the
// policy afterwards.
type RetryPolicy struct {
	// MaxAttempts is the number of additional attempts beyond the first.
	// Zero disables retries entirely.
	MaxAttempts int

	// BaseDelay seeds the backoff schedule: the wait after attempt n is
	// BaseDelay * 2^n under the default strategy.
	BaseDelay time.Duration

	// MaxDelay caps a single backoff wait. Zero means no cap.
	MaxDelay time.Duration

	// Strategy computes the delay schedule. Nil means the deterministic
	// exponential schedule with no jitter.
	Strategy backoff.Strategy
}

// ShouldRetry reports whether the attempt with 0-based index attempt may be
// followed by another one given the failure err. Terminal failures
// (timeouts, validation) never retry regardless of remaining budget.
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if attempt >= p.MaxAttempts {
		return false
	}
	return IsRetryable(err)
}

// Delay returns the wait before re-attempting after the 0-based attempt
// index. A Retry-After header on a 429 or 503 response overrides the
// computed schedule when present and parseable.
func (p RetryPolicy) Delay(attempt int, resp *http.Response) time.Duration {
	if resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable) {
		if d := parseRetryAfter(resp.Header.Get("Retry-After")); d > 0 {
			return d
		}
	}

	strategy := p.Strategy
	if strategy == nil {
		strategy = backoff.Exponential{}
	}
	return strategy.Delay(attempt, p.BaseDelay, p.MaxDelay)
}

// parseRetryAfter parses a Retry-After header value, supporting both
// delay-seconds and HTTP-date formats. Delays are capped at one hour.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if seconds <= 0 {
			return 0
		}
		delay := time.Duration(seconds) * time.Second
		if delay > time.Hour {
			delay = time.Hour
		}
		return delay
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay > 0 && delay <= time.Hour {
			return delay
		}
	}

	return 0
}

// sleepContext waits for d or until ctx is done, whichever happens first.
// The inter-attempt wait observes the same cancellation signal as the
// attempt itself, so an expiring deadline is never extended by a pending
// backoff.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
