// Package backoff provides the delay schedules used between retry attempts.
package backoff

import (
	"math/rand"
	"time"
)

// Strategy computes the delay to wait after a failed attempt. Attempt
// numbering is 0-based: Delay(0) is the wait inserted before the first
// retry.
type Strategy interface {
	Delay(attempt int, base, max time.Duration) time.Duration
}

// Exponential is the default schedule: base * multiplier^attempt, capped at
// max, with no jitter so the delay sequence is strictly deterministic.
type Exponential struct {
	// Multiplier scales the delay between consecutive attempts. Values
	// <= 1 are treated as the default of 2.
	Multiplier float64
}

// Delay implements Strategy.
func (s Exponential) Delay(attempt int, base, max time.Duration) time.Duration {
	multiplier := s.Multiplier
	if multiplier <= 1 {
		multiplier = 2
	}
	return clamp(time.Duration(float64(base)*pow(multiplier, capAttempt(attempt))), base, max)
}

// ExponentialJitter adds uniform jitter on top of the exponential schedule
// to spread retries from concurrent callers.
type ExponentialJitter struct {
	// Multiplier scales the delay between consecutive attempts. Values
	// <= 1 are treated as the default of 2.
	Multiplier float64

	// Jitter is the fraction of the computed delay added as random slack,
	// clamped to [0, 1].
	Jitter float64
}

// Delay implements Strategy.
func (s ExponentialJitter) Delay(attempt int, base, max time.Duration) time.Duration {
	delay := Exponential{Multiplier: s.Multiplier}.Delay(attempt, base, max)

	jitter := s.Jitter
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	if jitter > 0 {
		slack := time.Duration(float64(delay) * jitter * rand.Float64())
		delay = clamp(delay+slack, base, max)
	}
	return delay
}

// DecorrelatedJitter implements AWS-style decorrelated jitter: a delay drawn
// uniformly from [base, base*3^attempt], capped at max. Smoother tail
// latencies than plain exponential jitter under contention.
type DecorrelatedJitter struct{}

// Delay implements Strategy.
func (s DecorrelatedJitter) Delay(attempt int, base, max time.Duration) time.Duration {
	if attempt <= 0 {
		return clamp(base, base, max)
	}
	if attempt > 10 {
		attempt = 10
	}

	lower := float64(base)
	upper := lower * pow(3, attempt)
	if max > 0 && upper > float64(max) {
		upper = float64(max)
	}
	if upper < lower {
		upper = lower
	}

	return clamp(time.Duration(lower+rand.Float64()*(upper-lower)), base, max)
}

// capAttempt bounds the exponent so the float math cannot overflow.
func capAttempt(attempt int) int {
	if attempt < 0 {
		return 0
	}
	if attempt > 30 {
		return 30
	}
	return attempt
}

func clamp(d, base, max time.Duration) time.Duration {
	if d < base || d < 0 {
		return base
	}
	if max > 0 && d > max {
		return max
	}
	return d
}

func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
