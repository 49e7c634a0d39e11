// Package refetch wraps a single HTTP request/response exchange with the
// resilience a caller actually wants from a one-shot fetch:
//
//   - A typed Result so callers branch on values, never on raised errors
//   - Bounded exponential-backoff retries for transient failures
//   - Per-attempt timeouts merged with caller-owned cancellation
//   - JSON decoding plus caller-supplied validation before a fetch counts
//     as successful
//   - A closed error taxonomy (InvalidPayload, ValidationFailed, Timeout,
//     RequestFailed, Unexpected) that is exhaustively matchable
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - One logical request/response exchange per invocation – no pooling,
//     caching or cross-invocation state
//   - Small surface area – functional options configure the client,
//     call options configure a single fetch
//   - Safe concurrent use of a single *Client instance with no coordination
//
// Typical usage:
//
//	client := refetch.New(
//	    refetch.WithMaxAttempts(3),
//	    refetch.WithBaseDelay(time.Second),
//	    refetch.WithTimeout(10*time.Second),
//	)
//
//	type UserList struct {
//	    Items []User `json:"items"`
//	}
//
//	res := refetch.Execute[UserList](ctx, client, "https://api.example.com/api/v1/users",
//	    func(u UserList) bool { return u.Items != nil })
//	if res.IsSuccess() {
//	    render(res.Value())
//	} else {
//	    show(res.Err())
//	}
//
// Transport errors, non-2xx statuses and undecodable bodies are retried up
// to the attempt budget; a fired timeout and a rejected validation are
// terminal. The library avoids opinionated logging: provide a Logger (e.g.
// via WithSimpleLogger or NewSlogLogger) and enable debug flags selectively
// for insight without noise.
package refetch
