package usertests

import (
	"strconv"

	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
)

func DoSingleUserTests(t *apitest.T) {
	t.Run("existing id", func(t *apitest.T) {
		t.RequireCapability(CapabilitySingleUser)

		resp := RequireSuccess(t, harness.Request{Method: "GET", Path: apidef.UserPath("2")}, 200)
		user := apidef.UnwrapData(resp.JSON())
		assert.Equal(t, "2", apidef.IDString(user))
		AssertFieldsPresent(t, user, apidef.UserRecordFields, "user 2")
	})

	t.Run("unknown id", func(t *apitest.T) {
		t.RequireCapability(CapabilitySingleUser)

		page, _ := ListUsers(t, apidef.UsersPath)
		unknownID := strconv.Itoa(page.Total + 1)
		RequireRequestError(t, harness.Request{Method: "GET", Path: apidef.UserPath(unknownID)}, 404)
	})
}
