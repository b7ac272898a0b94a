// Package apitests contains the domain test logic: it turns a loaded suite
// configuration into executed test cases, validates each response against the case's
// expectation, and aggregates the run into a reportable summary.
package apitests
