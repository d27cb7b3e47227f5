// Package usertests contains the contract tests for the users API and their supporting
// domain-specific test API.
//
// HTTP plumbing that is not specific to the users API, such as the API client and the
// dispatcher for overlapping requests, is in the lower-level framework/harness package.
package usertests
