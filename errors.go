package refetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrorKind tags the cause of a failed fetch. The set is closed: every
// failure crossing the public boundary carries exactly one of these tags,
// so callers can match exhaustively instead of probing error chains.
type ErrorKind string

const (
	// KindInvalidPayload means the response body failed to decode as the
	// expected structured shape, even after exhausting retries.
	KindInvalidPayload ErrorKind = "InvalidPayload"

	// KindValidationFailed means the body decoded but the caller-supplied
	// validator rejected it. Never retried.
	KindValidationFailed ErrorKind = "ValidationFailed"

	// KindTimeout means the attempt was aborted because the derived
	// timeout fired or the caller's context was cancelled. Never retried.
	KindTimeout ErrorKind = "Timeout"

	// KindRequestFailed means a transport error or non-success status
	// code, retries exhausted.
	KindRequestFailed ErrorKind = "RequestFailed"

	// KindUnexpected covers anything outside the anticipated taxonomy,
	// including panics recovered at the boundary.
	KindUnexpected ErrorKind = "Unexpected"
)

// Error is the failure payload carried by a Result. It pairs the taxonomy
// tag with a human-readable message and request diagnostics.
type Error struct {
	Kind        ErrorKind
	Message     string
	Cause       error
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Attempt     int
	MaxAttempts int
	Timestamp   time.Time
	Duration    time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.Attempt > 0 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt, e.MaxAttempts)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches errors by kind, so errors.Is(err, &Error{Kind: KindTimeout})
// works across the taxonomy.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Kind == targetErr.Kind
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *Error) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Kind: %s\n", e.Kind)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.Attempt > 0 {
		info += fmt.Sprintf("Attempt: %d/%d\n", e.Attempt, e.MaxAttempts)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// IsRetryable reports whether an error represents a failure the orchestrator
// would retry. Transport failures and undecodable payloads are transient up
// to the attempt budget; timeouts and validation failures are terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		switch fetchErr.Kind {
		case KindRequestFailed, KindInvalidPayload:
			return true
		default:
			return false
		}
	}
	return false
}

// ErrorMessage normalizes an arbitrary recovered value into a message
// string. A value that already exposes a string message (error, stringer,
// plain string) is used verbatim; otherwise the value is structurally
// serialized; if serialization itself fails (cyclic or unserializable
// values), a best-effort coercion names the value's type. The fallback must
// not re-walk the value: fmt's %v recurses forever on cyclic maps. Never
// panics; nil yields the empty string.
func ErrorMessage(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case error:
		return val.Error()
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("unserializable %T value", v)
}
