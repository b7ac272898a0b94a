package apitests

import (
	"fmt"
	"strings"

	"github.com/questlabs/api-test-harness/framework/harness"
	"github.com/questlabs/api-test-harness/testmodel"
)

// Validate compares an executed request against a case's expectation and returns one
// error per unmet condition; an empty result means the case passed. It is deterministic
// and has no side effects.
//
// The rules, in order: a case with no expectation passes vacuously regardless of what
// happened on the wire; a transport error fails unconditionally; the status code must
// equal the expected status exactly (no ranges, no wildcards); a substring expectation
// is checked against the canonical rendering of the response and is AND-ed with the
// status check.
func Validate(result harness.RequestResult, expect testmodel.Expectation) []error {
	if !expect.IsDefined() {
		return nil
	}
	if result.TransportError.IsDefined() {
		return []error{fmt.Errorf("transport error: %s", result.TransportError.Value())}
	}
	var problems []error
	if expect.Status.IsDefined() {
		if actual := result.Status.OrElse(0); actual != expect.Status.Value() {
			problems = append(problems,
				fmt.Errorf("expected status %d, got %d", expect.Status.Value(), actual))
		}
	}
	if expect.Contains.IsDefined() {
		rendered := result.CanonicalResponseText()
		if !strings.Contains(rendered, expect.Contains.Value()) {
			problems = append(problems,
				fmt.Errorf("response does not contain %q (response was: %s)",
					expect.Contains.Value(), abbreviate(rendered)))
		}
	}
	return problems
}

const maxReportedResponseLength = 200

func abbreviate(s string) string {
	if len(s) > maxReportedResponseLength {
		return s[:maxReportedResponseLength] + "..."
	}
	return s
}
