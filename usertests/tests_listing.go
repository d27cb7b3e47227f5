package usertests

import (
	"fmt"

	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoListingTests(t *apitest.T) {
	t.Run("records have required fields", func(t *apitest.T) {
		_, body := ListUsers(t, apidef.UsersPath)

		data := body.GetByKey("data")
		require.Equal(t, ldvalue.ArrayType, data.Type(), "listing has no data array: %s", body.JSONString())
		for i := 0; i < data.Count(); i++ {
			AssertFieldsPresent(t, data.GetByIndex(i), apidef.UserRecordFields, fmt.Sprintf("record %d", i))
		}
	})

	t.Run("pagination totals are consistent", func(t *apitest.T) {
		page, _ := ListUsers(t, apidef.UsersPath)

		assert.Greater(t, page.Total, 0, "total")
		assert.GreaterOrEqual(t, page.Page, 1, "page")
		assert.Greater(t, page.PerPage, 0, "per_page")
		assert.GreaterOrEqual(t, page.TotalPages, 1, "total_pages")
		assert.Equal(t, page.Total, page.TotalPages*page.PerPage,
			"total_pages (%d) * per_page (%d) should equal total", page.TotalPages, page.PerPage)
	})

	t.Run("page parameter is honored", func(t *apitest.T) {
		t.RequireCapability(CapabilityPaging)

		first, _ := ListUsers(t, apidef.UsersPath)
		if first.TotalPages < 2 {
			t.SkipWithReason("the listing has only one page")
		}
		second, _ := ListUsers(t, apidef.UsersPagePath(2))

		assert.Equal(t, 2, second.Page)
		assert.Equal(t, first.PerPage, second.PerPage)
		assert.Equal(t, first.Total, second.Total)
		if assert.NotEmpty(t, second.Data) && assert.NotEmpty(t, first.Data) {
			assert.NotEqual(t, first.Data[0].ID, second.Data[0].ID, "page 2 should not repeat page 1")
		}
	})
}
