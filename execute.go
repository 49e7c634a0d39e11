package refetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Execute performs one resilient fetch of target and resolves it to a
// Result. It never returns an error and never panics past its boundary:
// every failure mode, validator panics included, is converted into a
// Failure carrying a taxonomy kind.
//
// The caller's ctx is the externally owned cancellation signal; a per-call
// TimeoutSpec (WithAttemptTimeout / WithTimeoutSpec) merges a deadline into
// it with first-fires-wins semantics. Transport and decode failures are
// retried with exponential backoff up to the retry budget; timeouts and
// validation failures are terminal.
//
// An empty target or a nil validator is a programmer error and panics
// before any request is made.
func Execute[T any](ctx context.Context, c *Client, target string, validate func(T) bool, opts ...CallOption) (res Result[T]) {
	if target == "" {
		panic("refetch: Execute called with empty target")
	}
	if validate == nil {
		panic("refetch: Execute called with nil validator")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := &callConfig{request: RequestOptions{Method: http.MethodGet}}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.request.Method == "" {
		cfg.request.Method = http.MethodGet
	}

	policy := cfg.policy(c)
	method := cfg.request.Method
	endpoint := endpointFromTarget(target)

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting fetch", "requestID", requestID, "method", method, "url", target, "maxAttempts", policy.MaxAttempts)
	}

	start := time.Now()
	c.metrics.RecordFetchStart(method, endpoint)
	defer func() {
		if r := recover(); r != nil {
			res = Fail[T](&Error{
				Kind:        KindUnexpected,
				Message:     ErrorMessage(r),
				RequestID:   requestID,
				Method:      method,
				URL:         target,
				MaxAttempts: policy.MaxAttempts,
				Timestamp:   time.Now(),
				Duration:    time.Since(start),
			})
		}

		c.metrics.RecordFetchEnd(method, endpoint)
		outcome := "success"
		if err := res.Err(); err != nil {
			outcome = string(err.Kind)
			c.metrics.RecordError(err.Kind, method, endpoint)
			if err.Kind == KindTimeout {
				c.metrics.RecordTimeout(method, endpoint)
			}
		}
		c.metrics.RecordFetch(method, endpoint, outcome, time.Since(start))
	}()

	spec := TimeoutSpec{Duration: c.timeout, Signal: ctx}
	if cfg.timeout != nil {
		spec = *cfg.timeout
		if spec.Signal == nil {
			spec.Signal = ctx
		}
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
				c.logger.Info("Retry attempt", "requestID", requestID, "attempt", attempt, "maxAttempts", policy.MaxAttempts, "endpoint", endpoint)
			}
			c.metrics.RecordRetry(method, endpoint, attempt)
		}
		c.metrics.RecordAttempt(method, endpoint)

		attemptCtx, cancel := spec.Derive()
		value, resp, fetchErr := attemptOnce(attemptCtx, c, cfg, target, validate, requestID, attempt, policy.MaxAttempts)
		cancel()

		if fetchErr == nil {
			return Ok(value)
		}
		fetchErr.Duration = time.Since(start)

		if fetchErr.Kind == KindTimeout {
			if c.debug != nil && c.debug.Enabled && c.debug.LogTimeouts && c.logger != nil {
				c.logger.Warn("Fetch aborted", "requestID", requestID, "attempt", attempt, "cause", fetchErr.Message)
			}
			return Fail[T](fetchErr)
		}
		if !policy.ShouldRetry(fetchErr, attempt) {
			return Fail[T](fetchErr)
		}

		delay := policy.Delay(attempt, resp)
		if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
			c.logger.Info("Scheduling retry", "requestID", requestID, "attempt", attempt+1, "backoff", delay, "endpoint", endpoint)
		}
		c.metrics.RecordBackoff(method, endpoint, delay)

		if err := sleepContext(ctx, delay); err != nil {
			return Fail[T](&Error{
				Kind:        KindTimeout,
				Message:     "cancelled while waiting to retry",
				Cause:       err,
				RequestID:   requestID,
				Method:      method,
				URL:         target,
				Attempt:     attempt,
				MaxAttempts: policy.MaxAttempts,
				Timestamp:   time.Now(),
				Duration:    time.Since(start),
			})
		}
	}
}

// attemptOnce runs one network-call, decode, validate sequence. It returns
// the decoded value, the response (body already consumed and closed, kept
// for status and Retry-After inspection) and a classified error.
func attemptOnce[T any](ctx context.Context, c *Client, cfg *callConfig, target string, validate func(T) bool, requestID string, attempt, maxAttempts int) (T, *http.Response, *Error) {
	var zero T

	newError := func(kind ErrorKind, message string, cause error, statusCode int) *Error {
		return &Error{
			Kind:        kind,
			Message:     message,
			Cause:       cause,
			RequestID:   requestID,
			Method:      cfg.request.Method,
			URL:         target,
			StatusCode:  statusCode,
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
			Timestamp:   time.Now(),
		}
	}
	// The derived signal firing is an authoritative abort, not a transient
	// fault: it wins over whatever surface error the transport reported.
	timeoutError := func(statusCode int) *Error {
		message := "attempt timed out"
		if ctx.Err() == context.Canceled {
			message = "attempt cancelled by external signal"
		}
		return newError(KindTimeout, message, ctx.Err(), statusCode)
	}

	var bodyReader io.Reader
	if len(cfg.request.Body) > 0 {
		bodyReader = bytes.NewReader(cfg.request.Body)
	}
	req, err := http.NewRequestWithContext(ctx, cfg.request.Method, target, bodyReader)
	if err != nil {
		return zero, nil, newError(KindRequestFailed, "request construction failed", err, 0)
	}
	for key, values := range cfg.request.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return zero, nil, timeoutError(0)
		}
		return zero, nil, newError(KindRequestFailed, "network request failed", err, 0)
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		if ctx.Err() != nil {
			return zero, resp, timeoutError(resp.StatusCode)
		}
		return zero, resp, newError(KindRequestFailed, "reading response body failed", readErr, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, resp, newError(KindRequestFailed, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil, resp.StatusCode)
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		if ctx.Err() != nil {
			return zero, resp, timeoutError(resp.StatusCode)
		}
		return zero, resp, newError(KindInvalidPayload, "response body failed to decode", err, resp.StatusCode)
	}

	if !validate(value) {
		return zero, resp, newError(KindValidationFailed, "response failed validation", nil, resp.StatusCode)
	}

	return value, resp, nil
}
