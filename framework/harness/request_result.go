package harness

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	o "github.com/questlabs/api-test-harness/framework/opt"
)

// RequestResult captures everything observed about a single request/response exchange.
// It is created exactly once per executed case and never mutated afterward.
//
// Status and Elapsed are absent if the exchange did not complete; ResponseJSON is absent
// if the response body was not valid JSON, which is an expected situation for many
// negative-path cases and is never an error by itself.
type RequestResult struct {
	URL            string
	SentBody       string
	Status         o.Maybe[int]
	Elapsed        o.Maybe[time.Duration]
	ResponseText   o.Maybe[string]
	ResponseJSON   o.Maybe[ldvalue.Value]
	TransportError o.Maybe[string]
}

// Completed returns true if the HTTP exchange finished, regardless of status code.
func (r RequestResult) Completed() bool {
	return !r.TransportError.IsDefined()
}

// CanonicalResponseText renders the response in its canonical text form: the re-serialized
// JSON parse if the body parsed, otherwise the raw body text. Substring expectations are
// checked against this rendering.
func (r RequestResult) CanonicalResponseText() string {
	if r.ResponseJSON.IsDefined() {
		return r.ResponseJSON.Value().JSONString()
	}
	return r.ResponseText.OrElse("")
}
