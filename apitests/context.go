package apitests

import (
	"github.com/questlabs/api-test-harness/framework/apitest"
	"github.com/questlabs/api-test-harness/framework/harness"
)

// TestContext is the application context attached to every test scope in a run. It
// carries the shared session that all cases send their requests through.
type TestContext struct {
	Session *harness.Session
}

func requireContext(t *apitest.T) TestContext {
	if tc, ok := t.Context().(TestContext); ok {
		return tc
	}
	panic("test was run without a TestContext; use RunSuite")
}
