package usertests

import (
	"context"
	"sync"

	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"
)

// RunTestSuite runs every users API contract test against the service that client talks to.
// The Context property of config is replaced with the suite's own state.
func RunTestSuite(ctx context.Context, client *harness.APIClient, config apitest.TestConfiguration) apitest.Results {
	config.Context = UsersTestContext{
		client: client,
		ctx:    ctx,
		writes: &sync.Mutex{},
	}
	return apitest.Run(config, func(t *apitest.T) {
		t.RunConcurrently(
			apitest.NamedTest{Name: "users listing", Action: DoListingTests},
			apitest.NamedTest{Name: "single user", Action: DoSingleUserTests},
			apitest.NamedTest{Name: "unknown path", Action: DoUnknownPathTests},
			apitest.NamedTest{Name: "create user", Action: DoCreateUserTests},
			apitest.NamedTest{Name: "rate limiting", Action: DoRateLimitTests},
			apitest.NamedTest{Name: "unsupported methods", Action: DoUnsupportedMethodTests},
		)
	})
}
