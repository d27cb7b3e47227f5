package usertests

import (
	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"
)

func DoUnsupportedMethodTests(t *apitest.T) {
	fakeUser := apidef.NewUserPayload("blabla", "bla", 1, "blabla")

	for _, method := range []string{"PUT", "PATCH", "DELETE"} {
		method := method
		t.Run(method, func(t *apitest.T) {
			t.RequireCapability(CapabilityMethodRestriction)
			lockWrites(t)

			req := harness.Request{Method: method, Path: apidef.UserPath("1")}
			if method != "DELETE" {
				req.Body = fakeUser
			}
			RequireRequestError(t, req, 400)
		})
	}
}
