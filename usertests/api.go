package usertests

import (
	"context"
	"sync"

	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	// CapabilityValidation means the service rejects create payloads with missing or
	// wrongly typed values.
	CapabilityValidation = "validation"

	// CapabilityRateLimit means the service rejects a create request that overlaps another.
	CapabilityRateLimit = "rate-limit"

	// CapabilityPersistence means a created user can be fetched by its id afterward.
	CapabilityPersistence = "persistence"

	// CapabilityMethodRestriction means the service rejects methods other than GET and POST.
	CapabilityMethodRestriction = "method-restriction"

	CapabilityPaging     = "paging"
	CapabilitySingleUser = "single-user"
)

var AllCapabilities = []string{
	CapabilityValidation,
	CapabilityRateLimit,
	CapabilityPersistence,
	CapabilityMethodRestriction,
	CapabilityPaging,
	CapabilitySingleUser,
}

// UsersTestContext is the global state that all tests share.
type UsersTestContext struct {
	client *harness.APIClient
	ctx    context.Context

	// writes is held by any test that creates users, so that when tests run in parallel,
	// their create requests cannot overlap and trip the service's rate limit by accident.
	writes *sync.Mutex
}

func requireContext(t *apitest.T) UsersTestContext {
	if c, ok := t.Context().(UsersTestContext); ok {
		return c
	}
	panic("UsersTestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}

// lockWrites keeps other tests from creating users until the current test finishes.
func lockWrites(t *apitest.T) {
	c := requireContext(t)
	c.writes.Lock()
	t.Defer(c.writes.Unlock)
}

// sendRequest sends a request on behalf of a test, logging the traffic to its debug output.
func sendRequest(t *apitest.T, req harness.Request) (*harness.Response, error) {
	c := requireContext(t)
	return c.client.Do(c.ctx, req, t.DebugLogger())
}

// RequireSuccess sends a request and fails the test immediately unless it gets a response
// with the expected status.
func RequireSuccess(t *apitest.T, req harness.Request, expectedStatus int) *harness.Response {
	resp, err := sendRequest(t, req)
	require.NoError(t, err, "%s %s should have succeeded", req.Method, req.Path)
	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status for %s %s", req.Method, req.Path)
	return resp
}

// RequireRequestError sends a request and fails the test immediately unless the service
// rejects it with the expected status.
func RequireRequestError(t *apitest.T, req harness.Request, expectedStatus int) *harness.RequestError {
	resp, err := sendRequest(t, req)
	if err == nil {
		require.Fail(t, "request should have been rejected",
			"%s %s returned HTTP %d (%s), expected HTTP %d", req.Method, req.Path,
			resp.StatusCode, string(resp.Body), expectedStatus)
	}
	re, ok := harness.AsRequestError(err)
	require.True(t, ok, "%s %s failed without an HTTP response: %s", req.Method, req.Path, err)
	require.Equal(t, expectedStatus, re.StatusCode, "unexpected status for %s %s: %s", req.Method, req.Path, re.Message)
	return re
}

// ListUsers fetches a page of the listing and fails the test immediately if that does not
// succeed.
func ListUsers(t *apitest.T, path string) (apidef.UserPage, ldvalue.Value) {
	resp := RequireSuccess(t, harness.Request{Method: "GET", Path: path}, 200)
	var page apidef.UserPage
	require.NoError(t, resp.DecodeJSON(&page))
	return page, resp.JSON()
}

// CreateUser creates a user and fails the test immediately unless the service answers 201.
// It returns the parsed response body.
func CreateUser(t *apitest.T, payload apidef.UserPayload) ldvalue.Value {
	resp := RequireSuccess(t, harness.Request{Method: "POST", Path: apidef.UsersPath, Body: payload}, 201)
	body := resp.JSON()
	require.Equal(t, ldvalue.ObjectType, body.Type(), "create response was not a JSON object: %s", string(resp.Body))
	return body
}

// AssertFieldsEqual checks that each of the named properties has the same value in both
// objects.
func AssertFieldsEqual(t *apitest.T, expected, actual ldvalue.Value, fields []string) {
	for _, field := range fields {
		e, a := expected.GetByKey(field), actual.GetByKey(field)
		assert.True(t, e.Equal(a), "property %q: expected %s but got %s", field, e.JSONString(), a.JSONString())
	}
}

// AssertFieldsPresent checks that each of the named properties exists and is not empty.
func AssertFieldsPresent(t *apitest.T, object ldvalue.Value, fields []string, description string) {
	for _, field := range fields {
		v := object.GetByKey(field)
		switch {
		case v.IsNull():
			assert.Fail(t, "missing property", "%s has no %q property: %s", description, field, object.JSONString())
		case v.Type() == ldvalue.StringType && v.StringValue() == "":
			assert.Fail(t, "empty property", "%s has an empty %q property", description, field)
		}
	}
}

// samplePayload is the user that tests create when the details do not matter.
func samplePayload() apidef.UserPayload {
	return apidef.NewUserPayload("Yuval Mendelovitz", "QA Engineer", 22, "Israel")
}
