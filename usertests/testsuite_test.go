package usertests

import (
	"context"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"
	"github.com/apitests/reqres-contract-tests/mockapi"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allLeafTests = []string{
	"create user/created user can be fetched by id",
	"create user/empty name",
	"create user/name of wrong type",
	"create user/valid payload",
	"rate limiting/overlapping creates",
	"single user/existing id",
	"single user/unknown id",
	"unknown path/GET",
	"unknown path/POST",
	"unsupported methods/DELETE",
	"unsupported methods/PATCH",
	"unsupported methods/PUT",
	"users listing/page parameter is honored",
	"users listing/pagination totals are consistent",
	"users listing/records have required fields",
}

func leafIDs(results []apitest.TestResult) []string {
	ret := []string{}
	for _, r := range results {
		if len(r.TestID.Path) > 1 {
			ret = append(ret, r.TestID.String())
		}
	}
	sort.Strings(ret)
	return ret
}

func failureMessages(results apitest.Results) []string {
	var ret []string
	for _, f := range results.Failures {
		for _, e := range f.Errors {
			ret = append(ret, f.TestID.String()+": "+e.Error())
		}
	}
	return ret
}

func newClient(t *testing.T, baseURL string) *harness.APIClient {
	client, err := harness.NewAPIClient(harness.ClientConfig{BaseURL: baseURL, Timeout: time.Second * 5})
	require.NoError(t, err)
	return client
}

func runAgainstMock(t *testing.T, config apitest.TestConfiguration) apitest.Results {
	opts := mockapi.DefaultOptions()
	server := httptest.NewServer(mockapi.New(opts))
	defer server.Close()
	return RunTestSuite(context.Background(), newClient(t, server.URL+opts.BasePath), config)
}

func TestSuitePassesAgainstMockAPI(t *testing.T) {
	results := runAgainstMock(t, apitest.TestConfiguration{Capabilities: AllCapabilities})

	assert.True(t, results.OK(), "failures: %v", failureMessages(results))
	assert.Equal(t, allLeafTests, leafIDs(results.Tests))
	assert.Empty(t, results.Skipped())
}

func TestSuitePassesAgainstMockAPIWithParallelGroups(t *testing.T) {
	results := runAgainstMock(t, apitest.TestConfiguration{Capabilities: AllCapabilities, MaxParallel: 6})

	assert.True(t, results.OK(), "failures: %v", failureMessages(results))
	assert.Equal(t, allLeafTests, leafIDs(results.Tests))
}

func TestCapabilityGatedTestsAreSkipped(t *testing.T) {
	results := runAgainstMock(t, apitest.TestConfiguration{})

	assert.True(t, results.OK(), "failures: %v", failureMessages(results))
	assert.Equal(t, []string{
		"create user/created user can be fetched by id",
		"create user/empty name",
		"create user/name of wrong type",
		"rate limiting/overlapping creates",
		"single user/existing id",
		"single user/unknown id",
		"unsupported methods/DELETE",
		"unsupported methods/PATCH",
		"unsupported methods/PUT",
		"users listing/page parameter is honored",
	}, leafIDs(results.Skipped()))
}

func TestFilterSelectsSingleTest(t *testing.T) {
	var filters apitest.RegexFilters
	require.NoError(t, filters.MustMatch.Set(apitest.ExactMatch(apitest.TestID{Path: []string{"create user", "empty name"}})))
	results := runAgainstMock(t, apitest.TestConfiguration{Capabilities: AllCapabilities, Filter: filters.AsFilter})

	assert.True(t, results.OK(), "failures: %v", failureMessages(results))
	var ran []string
	for _, r := range results.Tests {
		if !r.Skipped {
			ran = append(ran, r.TestID.String())
		}
	}
	assert.Equal(t, []string{"create user/empty name", "create user"}, ran)
}

func TestSuiteDetectsInconsistentListing(t *testing.T) {
	listing := map[string]interface{}{
		"page":        1,
		"per_page":    5,
		"total":       12,
		"total_pages": 2,
		"data": []interface{}{
			map[string]interface{}{"id": 1, "email": "", "first_name": "George", "last_name": "Bluth"},
		},
	}
	handler := httphelpers.HandlerWithJSONResponse(listing, nil)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var filters apitest.RegexFilters
		require.NoError(t, filters.MustMatch.Set("^users listing"))
		results := RunTestSuite(context.Background(), newClient(t, server.URL),
			apitest.TestConfiguration{Filter: filters.AsFilter})

		assert.Equal(t, []string{
			"users listing/pagination totals are consistent",
			"users listing/records have required fields",
		}, leafIDs(results.Failures))
		messages := failureMessages(results)
		assert.Len(t, messages, 3) // empty email, missing avatar, inconsistent totals
	})
}

func TestSuiteDetectsServiceThatAcceptsEverything(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(201, nil, []byte(`{"id": "1", "name": "x"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var filters apitest.RegexFilters
		require.NoError(t, filters.MustMatch.Set("^(unknown path|unsupported methods|rate limiting)"))
		results := RunTestSuite(context.Background(), newClient(t, server.URL),
			apitest.TestConfiguration{Filter: filters.AsFilter, Capabilities: AllCapabilities})

		assert.Equal(t, []string{
			"rate limiting/overlapping creates",
			"unknown path/GET",
			"unknown path/POST",
			"unsupported methods/DELETE",
			"unsupported methods/PATCH",
			"unsupported methods/PUT",
		}, leafIDs(results.Failures))
	})
}

func TestMissingContextIsReportedAsFailure(t *testing.T) {
	results := apitest.Run(apitest.TestConfiguration{}, func(t *apitest.T) {
		t.Run("x", DoUnknownPathTests)
	})
	require.Len(t, results.Failures, 2)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "UsersTestContext was not included")
}
