package refetch

import (
	"net/http"
	"time"

	"github.com/ambiyansyah-risyal/refetch/internal/backoff"
)

// RequestOptions carries the transport-specific options for one fetch. The
// body is a byte slice rather than a reader so every retry attempt can
// replay it from the start.
type RequestOptions struct {
	Method string
	Header http.Header
	Body   []byte
}

// CallOption adjusts one Execute invocation without touching the client's
// defaults.
type CallOption func(*callConfig)

// callConfig is the per-invocation snapshot of request options and policy
// overrides. Created fresh for every Execute call and discarded with it.
type callConfig struct {
	request   RequestOptions
	retries   *int
	baseDelay time.Duration
	maxDelay  time.Duration
	strategy  backoff.Strategy
	timeout   *TimeoutSpec
}

// WithRequestOptions replaces the call's request options wholesale.
func WithRequestOptions(opts RequestOptions) CallOption {
	return func(cfg *callConfig) {
		cfg.request = opts
	}
}

// WithMethod sets the HTTP method for this call. The default is GET.
func WithMethod(method string) CallOption {
	return func(cfg *callConfig) {
		cfg.request.Method = method
	}
}

// WithHeader adds a header to this call's request.
func WithHeader(key, value string) CallOption {
	return func(cfg *callConfig) {
		if cfg.request.Header == nil {
			cfg.request.Header = http.Header{}
		}
		cfg.request.Header.Add(key, value)
	}
}

// WithBody sets the request body for this call.
func WithBody(body []byte) CallOption {
	return func(cfg *callConfig) {
		cfg.request.Body = body
	}
}

// WithRetries overrides the client's retry budget for this call. n is the
// number of additional attempts beyond the first; 0 disables retries.
func WithRetries(n int) CallOption {
	return func(cfg *callConfig) {
		if n < 0 {
			n = 0
		}
		cfg.retries = &n
	}
}

// WithRetryBaseDelay overrides the client's base backoff delay for this call.
func WithRetryBaseDelay(d time.Duration) CallOption {
	return func(cfg *callConfig) {
		cfg.baseDelay = d
	}
}

// WithRetryMaxDelay overrides the client's backoff delay cap for this call.
func WithRetryMaxDelay(d time.Duration) CallOption {
	return func(cfg *callConfig) {
		cfg.maxDelay = d
	}
}

// WithCallBackoffStrategy overrides the backoff schedule for this call.
func WithCallBackoffStrategy(s backoff.Strategy) CallOption {
	return func(cfg *callConfig) {
		cfg.strategy = s
	}
}

// WithAttemptTimeout bounds each attempt of this call to d. The caller's
// context remains the external cancellation signal.
func WithAttemptTimeout(d time.Duration) CallOption {
	return func(cfg *callConfig) {
		cfg.timeout = &TimeoutSpec{Duration: d}
	}
}

// WithTimeoutSpec supplies a full timeout specification, including an
// externally owned cancellation signal that replaces the caller's context
// for cancellation purposes.
func WithTimeoutSpec(spec TimeoutSpec) CallOption {
	return func(cfg *callConfig) {
		cfg.timeout = &spec
	}
}

// policy snapshots the effective retry policy for one invocation, merging
// client defaults with per-call overrides.
func (cfg *callConfig) policy(c *Client) RetryPolicy {
	p := RetryPolicy{
		MaxAttempts: c.maxRetries,
		BaseDelay:   c.baseDelay,
		MaxDelay:    c.maxDelay,
		Strategy:    c.strategy,
	}
	if cfg.retries != nil {
		p.MaxAttempts = *cfg.retries
	}
	if cfg.baseDelay > 0 {
		p.BaseDelay = cfg.baseDelay
	}
	if cfg.maxDelay > 0 {
		p.MaxDelay = cfg.maxDelay
	}
	if cfg.strategy != nil {
		p.Strategy = cfg.strategy
	}
	return p
}
