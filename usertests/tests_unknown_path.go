package usertests

import (
	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
)

func DoUnknownPathTests(t *apitest.T) {
	t.Run("GET", func(t *apitest.T) {
		re := RequireRequestError(t, harness.Request{Method: "GET", Path: apidef.UnknownUsersPath}, 404)
		assert.Equal(t, apidef.MessagePathNotFound, re.Message)
	})

	t.Run("POST", func(t *apitest.T) {
		lockWrites(t)
		re := RequireRequestError(t, harness.Request{
			Method: "POST",
			Path:   apidef.UnknownUsersPath,
			Body:   samplePayload(),
		}, 404)
		assert.Equal(t, apidef.MessagePathNotFound, re.Message)
	})
}
