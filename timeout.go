package refetch

import (
	"context"
	"time"
)

// TimeoutSpec couples a per-attempt deadline with an externally owned
// cancellation signal. The controller only observes the external signal:
// cancellation propagates from Signal into the derived context, never the
// reverse, and firing is one-way and idempotent.
type TimeoutSpec struct {
	// Duration is the per-attempt deadline. Zero means no deadline is
	// derived and the attempt is cancellable only through Signal.
	Duration time.Duration

	// Signal is the externally owned cancellation source. Nil is treated
	// as context.Background().
	Signal context.Context
}

// Derive merges the deadline and the external signal into one context that
// is done when whichever fires first. The returned CancelFunc releases the
// derived timer and must always be called; it never cancels Signal.
func (s TimeoutSpec) Derive() (context.Context, context.CancelFunc) {
	parent := s.Signal
	if parent == nil {
		parent = context.Background()
	}
	if s.Duration <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.Duration)
}
