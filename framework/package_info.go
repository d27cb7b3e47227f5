// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of API contract tests. The base package contains
// shared types such as Logger; other components are in the subpackages harness and apitest.
//
// The general model is:
//
// 1. The test harness talks to a remote HTTP API (the service under test) through an API
// client that records every request and response in the current test's debug log.
//
// 2. Anything the remote service rejects comes back as a RequestError, so that tests can
// assert on the status code and message the way they would assert on a successful response.
//
// 3. There is a general notion of a test context which is similar to Go's testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results.
//
// The domain-specific code that knows what is being tested is responsible for building the
// request payloads, knowing which paths to call, and providing a domain-specific test API on
// top of the test context.
package framework
