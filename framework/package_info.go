// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests. The base package contains shared
// types such as Logger; other components are in the subpackages harness and apitest.
//
// The general model is:
//
// 1. The test harness holds a single reusable HTTP session to the target API, through
// which every test case sends one request.
//
// 2. There is a general notion of a test context which is similar to Go's testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the request parameters to send to the target API and the validation of each response,
// built on top of the test context.
package framework
