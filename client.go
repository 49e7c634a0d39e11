package refetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ambiyansyah-risyal/refetch/internal/backoff"
)

// Client performs resilient single-call fetches: bounded exponential-backoff
// retries, per-attempt timeouts merged with caller cancellation, JSON
// decoding and post-fetch validation, all resolved into a Result. It holds
// only immutable configuration, so a single Client is safe for concurrent
// use and invocations share no state.
type Client struct {
	httpClient      *http.Client
	maxRetries      int
	baseDelay       time.Duration
	maxDelay        time.Duration
	strategy        backoff.Strategy
	timeout         time.Duration
	userAgent       string
	metrics         *MetricsCollector
	debug           *DebugConfig
	logger          Logger
	validationError error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		maxRetries: 3,
		baseDelay:  time.Second,
		maxDelay:   30 * time.Second,
		strategy:   backoff.Exponential{},
		timeout:    30 * time.Second,
		debug:      DefaultDebugConfig(),
		logger:     nil,
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// GetJSON fetches target with GET, decodes the body into out and returns a
// *Error on failure. It runs the full retry/timeout/validation pipeline; a
// decoded body that does not fit out's shape is an InvalidPayload error.
func (c *Client) GetJSON(ctx context.Context, target string, out any, opts ...CallOption) error {
	res := Execute[json.RawMessage](ctx, c, target, acceptAny[json.RawMessage], opts...)
	if !res.IsSuccess() {
		return res.Err()
	}
	if err := json.Unmarshal(res.Value(), out); err != nil {
		return &Error{
			Kind:    KindInvalidPayload,
			Message: "response body does not match expected shape",
			Cause:   err,
			URL:     target,
		}
	}
	return nil
}

// PostJSON marshals body, POSTs it to target and decodes the response into
// out, with the same resilience pipeline as GetJSON.
func (c *Client) PostJSON(ctx context.Context, target string, body, out any, opts ...CallOption) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{
			Kind:    KindUnexpected,
			Message: "request body is not serializable",
			Cause:   err,
			URL:     target,
		}
	}
	opts = append([]CallOption{
		WithMethod(http.MethodPost),
		WithHeader("Content-Type", "application/json"),
		WithBody(payload),
	}, opts...)
	return c.GetJSON(ctx, target, out, opts...)
}

// acceptAny is the validator used by the untyped convenience helpers.
func acceptAny[T any](T) bool { return true }

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// ValidateConfigurationStrict panics if configuration is invalid.
func (c *Client) ValidateConfigurationStrict() {
	if err := c.ValidateConfiguration(); err != nil {
		panic("refetch: invalid client configuration: " + err.Error())
	}
}

func endpointFromTarget(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "unknown"
	}

	host := u.Host
	path := u.Path

	var builder strings.Builder
	builder.WriteString(host)

	if path != "" && path != "/" {
		builder.WriteString(path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
