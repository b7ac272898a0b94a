package apitests

import (
	"strings"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlabs/api-test-harness/framework/harness"
	o "github.com/questlabs/api-test-harness/framework/opt"
	"github.com/questlabs/api-test-harness/testmodel"
)

func completedResult(status int, body string) harness.RequestResult {
	result := harness.RequestResult{
		URL:          "http://localhost/x",
		Status:       o.Some(status),
		Elapsed:      o.Some(10 * time.Millisecond),
		ResponseText: o.Some(body),
	}
	if ldvalue.Parse([]byte(body)).Type() != ldvalue.NullType {
		result.ResponseJSON = o.Some(ldvalue.Parse([]byte(body)))
	}
	return result
}

func TestValidateNoExpectationAlwaysPasses(t *testing.T) {
	noExpect := testmodel.Expectation{}
	assert.Empty(t, Validate(completedResult(500, "anything"), noExpect))
	assert.Empty(t, Validate(harness.RequestResult{TransportError: o.Some("boom")}, noExpect))
}

func TestValidateTransportErrorFailsAnyExpectation(t *testing.T) {
	result := harness.RequestResult{TransportError: o.Some("connection refused")}
	problems := Validate(result, testmodel.Expectation{Status: o.Some(200)})
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Error(), "connection refused")
}

func TestValidateStatusIsExactMatch(t *testing.T) {
	expect := testmodel.Expectation{Status: o.Some(200)}
	assert.Empty(t, Validate(completedResult(200, "{}"), expect))
	assert.Len(t, Validate(completedResult(201, "{}"), expect), 1)
	assert.Len(t, Validate(completedResult(400, "{}"), expect), 1)
}

func TestValidateContainsUsesCanonicalResponseText(t *testing.T) {
	expect := testmodel.Expectation{Contains: o.Some(`"error":"missing required field: uid"`)}

	// The response JSON re-serializes compactly, so the expectation matches even though
	// the raw body had different whitespace.
	result := completedResult(400, `{ "error" : "missing required field: uid" }`)
	assert.Empty(t, Validate(result, expect))

	assert.Len(t, Validate(completedResult(400, `{"error":"other"}`), expect), 1)
}

func TestValidateContainsOnNonJSONBody(t *testing.T) {
	expect := testmodel.Expectation{Contains: o.Some("Service Unavailable")}
	assert.Empty(t, Validate(completedResult(503, "503 Service Unavailable"), expect))
}

func TestValidateStatusAndContainsAreBothChecked(t *testing.T) {
	expect := testmodel.Expectation{Status: o.Some(400), Contains: o.Some("uid")}
	problems := Validate(completedResult(200, `{"unrelated":true}`), expect)
	assert.Len(t, problems, 2)
}

func TestValidateAbbreviatesLongResponses(t *testing.T) {
	longBody := strings.Repeat("x", 500)
	problems := Validate(completedResult(200, longBody), testmodel.Expectation{Contains: o.Some("needle")})
	require.Len(t, problems, 1)
	assert.Less(t, len(problems[0].Error()), 400)
}
