// Package httputil fetches remote gallery manifests and images.
//
// [Client] issues GET requests with shared headers, classifies status
// codes, and retries transient failures through [Retry]. Responses are
// never cached: requests carry Cache-Control: no-store so that edits to a
// hosted projects.json show up on the next load.
//
// # Retry
//
// [Retry] re-runs an operation while it fails with a [RetryableError]:
//
//   - network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The delay doubles after each failed attempt. [RetryWithBackoff] uses
// 3 attempts starting at 1 second.
package httputil
