package apitests

import (
	"github.com/stretchr/testify/require"

	"github.com/questlabs/api-test-harness/framework/apitest"
	"github.com/questlabs/api-test-harness/framework/harness"
	"github.com/questlabs/api-test-harness/testmodel"
)

// RunOptions configures a suite run.
type RunOptions struct {
	Filters    apitest.RegexFilters
	TestLogger apitest.TestLogger

	// FailFastCases switches the per-case behavior from collecting every mismatch in a
	// case to aborting the case at its first mismatch. The run itself always continues
	// to the next case either way.
	FailFastCases bool

	// ResultsLog, if non-nil, receives an appended block for every executed case.
	ResultsLog *ResultsLog
}

// RunSuite executes every case of the suite in declaration order, one test scope per
// category and one subscope per case. It returns the scope-level results (which drive
// the exit code) and the aggregated summary used for reporting.
func RunSuite(suite *testmodel.Suite, session *harness.Session, opts RunOptions) (apitest.Results, *RunSummary) {
	summary := &RunSummary{}
	results := apitest.Run(apitest.TestConfiguration{
		Filter:     opts.Filters,
		TestLogger: opts.TestLogger,
		Context:    TestContext{Session: session},
	}, func(t *apitest.T) {
		for _, category := range suite.Categories {
			category := category
			t.Run(category.Name, func(t *apitest.T) {
				for _, tc := range category.Cases {
					tc := tc
					t.Run(tc.Name, func(t *apitest.T) {
						runCase(t, category.Name, tc, opts, summary)
					})
				}
			})
		}
	})
	return results, summary
}

func runCase(t *apitest.T, categoryName string, tc testmodel.TestCase, opts RunOptions, summary *RunSummary) {
	session := requireContext(t).Session
	if tc.Description != "" {
		t.Debug("%s", tc.Description)
	}

	var result harness.RequestResult
	if tc.Encoding == testmodel.EncodingJSON {
		result = session.DoJSON(tc.Method, tc.Endpoint, tc.Payload, t.DebugLogger())
	} else {
		result = session.PostForm(tc.Endpoint, harness.FormBody(tc.UID, tc.Payload), t.DebugLogger())
	}

	problems := Validate(result, tc.Expect)
	outcome := CaseOutcome{
		Category:    categoryName,
		CaseName:    tc.Name,
		Description: tc.Description,
		Expect:      tc.Expect,
		Result:      result,
		Passed:      len(problems) == 0,
	}
	summary.record(outcome)
	if opts.ResultsLog != nil {
		if err := opts.ResultsLog.Record(outcome); err != nil {
			t.Debug("could not write to results log: %s", err)
		}
	}

	if opts.FailFastCases {
		assertOutcome(t, result, tc.Expect)
		return
	}
	for _, problem := range problems {
		t.Errorf("%s", problem)
	}
}

// assertOutcome is the fail-fast rendering of the validation rules: the first unmet
// condition aborts the case via require, so later conditions are not even checked.
func assertOutcome(t *apitest.T, result harness.RequestResult, expect testmodel.Expectation) {
	t.Helper()
	if !expect.IsDefined() {
		return
	}
	require.False(t, result.TransportError.IsDefined(),
		"transport error: %s", result.TransportError.OrElse(""))
	if expect.Status.IsDefined() {
		require.Equal(t, expect.Status.Value(), result.Status.OrElse(0), "unexpected status code")
	}
	if expect.Contains.IsDefined() {
		require.Contains(t, result.CanonicalResponseText(), expect.Contains.Value(),
			"response does not contain expected text")
	}
}
