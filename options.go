package refetch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ambiyansyah-risyal/refetch/internal/backoff"
)

// Option represents a client configuration option.
type Option func(*Client)

// WithMaxAttempts sets the default number of additional attempts beyond the
// first. Zero disables retries.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBaseDelay sets the default backoff seed delay.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = d
	}
}

// WithMaxDelay caps a single backoff wait.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithBackoffStrategy replaces the default deterministic exponential
// schedule. Jittered schedules live in internal/backoff and are exposed
// through WithJitter.
func WithBackoffStrategy(s backoff.Strategy) Option {
	return func(c *Client) {
		c.strategy = s
	}
}

// WithJitter switches to the exponential-jitter schedule with the given
// jitter fraction (clamped to [0, 1]).
func WithJitter(f float64) Option {
	return func(c *Client) {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		c.strategy = backoff.ExponentialJitter{Jitter: f}
	}
}

// WithTimeout sets the default per-attempt deadline. Zero disables the
// derived deadline; attempts are then cancellable only through the caller's
// context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client used as the network transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMetrics enables Prometheus metrics collection on the default
// registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with the default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error describing every violation at once.
func (c *Client) ValidateConfiguration() error {
	var problems []string

	if c.maxRetries < 0 {
		problems = append(problems, "maxRetries must be non-negative")
	}
	if c.maxRetries > 100 {
		problems = append(problems, "maxRetries > 100 may cause excessive resource usage")
	}
	if c.baseDelay <= 0 {
		problems = append(problems, "baseDelay must be positive")
	}
	if c.maxDelay > 0 && c.maxDelay < c.baseDelay {
		problems = append(problems, "maxDelay must be greater than or equal to baseDelay")
	}
	if c.timeout < 0 {
		problems = append(problems, "timeout must be non-negative")
	}
	if c.httpClient == nil {
		problems = append(problems, "HTTP client cannot be nil")
	}
	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			problems = append(problems, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			problems = append(problems, "logger must be set when debug is enabled")
		}
	}

	if len(problems) > 0 {
		return &Error{
			Kind:    KindUnexpected,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", problems),
		}
	}

	return nil
}
