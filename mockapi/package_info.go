// Package mockapi provides an in-process implementation of the quest API contract, so
// the harness can be exercised end to end without a deployed service.
package mockapi
