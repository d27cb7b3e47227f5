package usertests

import (
	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoRateLimitTests(t *apitest.T) {
	t.Run("overlapping creates", func(t *apitest.T) {
		t.RequireCapability(CapabilityRateLimit)
		lockWrites(t)

		c := requireContext(t)
		d := c.client.NewDispatcher(t.DebugLogger())
		d.Dispatch(c.ctx, harness.Request{Method: "POST", Path: apidef.UsersPath, Body: samplePayload()})
		d.Dispatch(c.ctx, harness.Request{Method: "POST", Path: apidef.UsersPath,
			Body: apidef.NewUserPayload("Amit Cohen", "DevOps", 40, "Israel")})
		outcomes := d.Wait()

		var limited []*harness.RequestError
		for _, o := range outcomes {
			if o.Err == nil {
				t.Debug("request #%d succeeded with HTTP %d", o.Seq, o.Response.StatusCode)
				continue
			}
			re, ok := harness.AsRequestError(o.Err)
			require.True(t, ok, "request #%d failed without an HTTP response: %s", o.Seq, o.Err)
			if re.Kind() == harness.RateLimited {
				limited = append(limited, re)
			} else {
				assert.Fail(t, "unexpected error status", "request #%d: %s", o.Seq, re)
			}
		}
		require.NotEmpty(t, limited, "expected at least one of two overlapping create requests to be rejected with HTTP 429")
		if !harness.IsRateLimited(outcomes[len(outcomes)-1].Err) {
			// In-flight requests may be processed in either order.
			t.Debug("the first request was rate-limited rather than the second")
		}
		for _, re := range limited {
			assert.Equal(t, apidef.MessageTooManyRequests, re.Message)
		}
	})
}
