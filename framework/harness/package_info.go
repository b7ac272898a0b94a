// Package harness implements the wire-level side of the test harness: building request
// bodies, executing them over a single reusable HTTP session, and capturing the outcome
// of each exchange. It contains no knowledge of expectations or pass/fail policy; that
// belongs to the caller.
package harness
