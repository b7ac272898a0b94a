package apitest

import (
	"strings"
)

// Results is the accumulated outcome of an entire test run. Every executed scope appears
// in Tests; the subset that failed also appears in Failures, in execution order.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID TestID
	Errors []error
}

// OK returns true if no tests failed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// TestID is the full path of a test scope: category name, then case name.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}
