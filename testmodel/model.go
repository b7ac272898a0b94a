// Package testmodel defines the canonical model for a test suite configuration and the
// loader that reads it from a YAML (or JSON) document. Two document shapes are accepted:
// the canonical categorized shape, and an alternate per-endpoint shape that is adapted
// into the canonical model at load time so that the rest of the harness has a single
// code path.
package testmodel

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	o "github.com/questlabs/api-test-harness/framework/opt"
)

// BodyEncoding selects how a case's request body is sent on the wire.
type BodyEncoding string

const (
	// EncodingForm posts uid/data as form fields (the canonical shape).
	EncodingForm BodyEncoding = "form"
	// EncodingJSON posts the payload as a JSON document (the endpoints shape).
	EncodingJSON BodyEncoding = "json"
)

// TestCase is one named request/expectation pair. Immutable once loaded.
//
// UID and Payload distinguish "absent" from empty: an undefined UID or a null Payload
// means the field is left out of the request entirely. A Payload that is a raw string
// (including deliberately malformed JSON text) is sent unchanged.
type TestCase struct {
	Name        string
	Description string
	Endpoint    string
	Method      string
	UID         o.Maybe[string]
	Payload     ldvalue.Value
	Encoding    BodyEncoding
	Expect      Expectation
}

// Expectation describes the outcome a case asserts. An Expectation with neither field
// defined asserts nothing: the case is exploratory and always passes.
type Expectation struct {
	Status   o.Maybe[int]
	Contains o.Maybe[string]
}

func (e Expectation) IsDefined() bool {
	return e.Status.IsDefined() || e.Contains.IsDefined()
}

// Category is a named, ordered group of cases. Categories exist for reporting breakdown
// only; they do not change how a case executes. The explicit slice ordering here is the
// execution order - nothing depends on map traversal order.
type Category struct {
	Name  string
	Cases []TestCase
}

// Suite is a fully loaded test configuration.
type Suite struct {
	BaseURL    string
	Headers    map[string]string
	Categories []Category
}

func (s *Suite) TotalCases() int {
	total := 0
	for _, c := range s.Categories {
		total += len(c.Cases)
	}
	return total
}
