package usertests

import (
	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoCreateUserTests(t *apitest.T) {
	t.Run("valid payload", func(t *apitest.T) {
		lockWrites(t)
		payload := samplePayload()
		created := CreateUser(t, payload)
		AssertFieldsEqual(t, payload.AsValue(), created, apidef.UserPayloadFields)
	})

	t.Run("empty name", func(t *apitest.T) {
		t.RequireCapability(CapabilityValidation)
		lockWrites(t)

		payload := samplePayload()
		payload.Name = ldvalue.String("")
		re := RequireRequestError(t, harness.Request{Method: "POST", Path: apidef.UsersPath, Body: payload}, 400)
		assert.Contains(t, re.Message, "missing required values")
	})

	t.Run("name of wrong type", func(t *apitest.T) {
		t.RequireCapability(CapabilityValidation)
		lockWrites(t)

		payload := samplePayload()
		payload.Name = ldvalue.Int(40)
		re := RequireRequestError(t, harness.Request{Method: "POST", Path: apidef.UsersPath, Body: payload}, 400)
		assert.Contains(t, re.Message, "values are invalid")
	})

	t.Run("created user can be fetched by id", func(t *apitest.T) {
		t.RequireCapability(CapabilityPersistence)
		lockWrites(t)

		payload := samplePayload()
		created := CreateUser(t, payload)
		id := apidef.IDString(created)
		require.NotEmpty(t, id, "create response has no id: %s", created.JSONString())
		t.Debug("created user has id %s", id)

		resp := RequireSuccess(t, harness.Request{Method: "GET", Path: apidef.UserPath(id)}, 200)
		fetched := apidef.UnwrapData(resp.JSON())
		AssertFieldsEqual(t, payload.AsValue(), fetched, apidef.UserPayloadFields)
	})
}
