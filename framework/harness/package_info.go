// Package harness contains the HTTP plumbing for talking to the service under test: an API
// client that records traffic in a test's debug log, the RequestError taxonomy, a dispatcher
// for overlapping requests, and helpers for checking reachability and starting local servers.
package harness
