// Package apitest provides a test-scope framework for running API test cases outside of
// Go's own "go test" runner: named test scopes, pass/fail accumulation, filtering, and
// pluggable reporting. It is deliberately similar to the testing package so that the
// assertion helpers in testify can be used against it.
package apitest
