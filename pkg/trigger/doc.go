// Package trigger turns bursts of layout triggers into single layout runs.
//
// A gallery is laid out again on first paint, when images finish loading
// and whenever the container resizes. Those events arrive in bursts, so a
// [Debouncer] coalesces them: [Debouncer.Trigger] marks a run pending and
// (re)arms a settle timer, and when the timer fires exactly one run
// executes. Runs never overlap. After the first completed run the
// debouncer becomes ready, once, and notifies its [Debouncer.OnReady]
// subscribers; the HTML wall uses this to reveal itself.
//
// [Bus] is the subscription primitive underneath: handlers subscribe
// explicitly, may ask to fire only once, and unsubscribe through the
// returned [Subscription].
package trigger
