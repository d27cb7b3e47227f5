package mockapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func withMockAPI(t *testing.T, opts Options, action func(*harness.APIClient)) {
	server := httptest.NewServer(New(opts))
	defer server.Close()
	client, err := harness.NewAPIClient(harness.ClientConfig{BaseURL: server.URL + opts.BasePath, Timeout: time.Second * 5})
	require.NoError(t, err)
	action(client)
}

func fastOptions() Options {
	opts := DefaultOptions()
	opts.WriteDelay = 0
	return opts
}

func TestListUsers(t *testing.T) {
	withMockAPI(t, fastOptions(), func(c *harness.APIClient) {
		resp, err := c.Get(context.Background(), apidef.UsersPath, nil)
		require.NoError(t, err)
		var page apidef.UserPage
		require.NoError(t, resp.DecodeJSON(&page))

		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 6, page.PerPage)
		assert.Equal(t, 12, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Data, 6)
		assert.Equal(t, apidef.UserRecord{
			ID:        1,
			Email:     "george.bluth@reqres.in",
			FirstName: "George",
			LastName:  "Bluth",
			Avatar:    "https://reqres.in/img/faces/1-image.jpg",
		}, page.Data[0])
	})
}

func TestListUsersPaging(t *testing.T) {
	withMockAPI(t, fastOptions(), func(c *harness.APIClient) {
		for _, p := range []struct {
			page, expectedPage, expectedCount, expectedFirstID int
		}{
			{2, 2, 6, 7},
			{3, 3, 0, 0},
			{0, 1, 6, 1},
		} {
			resp, err := c.Get(context.Background(), apidef.UsersPagePath(p.page), nil)
			require.NoError(t, err)
			var page apidef.UserPage
			require.NoError(t, resp.DecodeJSON(&page))
			assert.Equal(t, p.expectedPage, page.Page)
			require.Len(t, page.Data, p.expectedCount)
			if p.expectedCount > 0 {
				assert.Equal(t, p.expectedFirstID, page.Data[0].ID)
			}
		}
	})
}

func TestGetSeedUser(t *testing.T) {
	withMockAPI(t, fastOptions(), func(c *harness.APIClient) {
		resp, err := c.Get(context.Background(), apidef.UserPath("2"), nil)
		require.NoError(t, err)
		user := apidef.UnwrapData(resp.JSON())
		assert.Equal(t, "2", apidef.IDString(user))
		assert.Equal(t, "janet.weaver@reqres.in", user.GetByKey("email").StringValue())
	})
}

func TestGetUnknownUser(t *testing.T) {
	withMockAPI(t, fastOptions(), func(c *harness.APIClient) {
		for _, id := range []string{"13", "0", "abc"} {
			_, err := c.Get(context.Background(), apidef.UserPath(id), nil)
			assert.True(t, harness.IsNotFound(err), "id %s: %v", id, err)
		}
	})
}

func TestUnknownPath(t *testing.T) {
	withMockAPI(t, fastOptions(), func(c *harness.APIClient) {
		_, err := c.Get(context.Background(), apidef.UnknownUsersPath, nil)
		re, ok := harness.AsRequestError(err)
		require.True(t, ok)
		assert.Equal(t, 404, re.StatusCode)
		assert.Equal(t, apidef.MessagePathNotFound, re.Message)

		_, err = c.Post(context.Background(), apidef.UnknownUsersPath, apidef.NewUserPayload("a", "b", 1, "c"), nil)
		assert.True(t, harness.IsNotFound(err))
	})
}

func TestCreateAndFetchUser(t *testing.T) {
	withMockAPI(t, fastOptions(), func(c *harness.APIClient) {
		payload := apidef.NewUserPayload("Yuval Mendelovitz", "QA Engineer", 22, "Israel")
		resp, err := c.Post(context.Background(), apidef.UsersPath, payload, nil)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		var created apidef.CreatedUser
		require.NoError(t, resp.DecodeJSON(&created))
		assert.Equal(t, "1000", created.ID)
		assert.Equal(t, ldvalue.String("Yuval Mendelovitz"), created.Name)
		assert.Equal(t, "QA Engineer", created.Job)
		assert.Equal(t, 22, created.Age)
		assert.Equal(t, "Israel", created.Country)
		assert.NotEmpty(t, created.CreatedAt)

		resp, err = c.Get(context.Background(), apidef.UserPath(created.ID), nil)
		require.NoError(t, err)
		fetched := apidef.UnwrapData(resp.JSON())
		for _, field := range apidef.UserPayloadFields {
			assert.Equal(t, payload.AsValue().GetByKey(field), fetched.GetByKey(field), field)
		}

		resp, err = c.Post(context.Background(), apidef.UsersPath, payload, nil)
		require.NoError(t, err)
		assert.Equal(t, "1001", apidef.IDString(resp.JSON()))
	})
}

func TestCreateUserValidation(t *testing.T) {
	for _, p := range []struct {
		name            string
		body            interface{}
		expectedMessage string
	}{
		{"empty name", apidef.NewUserPayload("", "QA Engineer", 22, "Israel"), apidef.MessageMissingValues},
		{"missing job", map[string]interface{}{"name": "x"}, apidef.MessageMissingValues},
		{"numeric name", apidef.UserPayload{Name: ldvalue.Int(40), Job: "QA Engineer", Age: 22, Country: "Israel"},
			apidef.MessageInvalidValues},
		{"fractional age", map[string]interface{}{"name": "x", "job": "y", "age": 1.5}, apidef.MessageInvalidValues},
		{"numeric country", map[string]interface{}{"name": "x", "job": "y", "country": 1}, apidef.MessageInvalidValues},
		{"not an object", []string{"x"}, apidef.MessageInvalidValues},
	} {
		t.Run(p.name, func(t *testing.T) {
			withMockAPI(t, fastOptions(), func(c *harness.APIClient) {
				_, err := c.Post(context.Background(), apidef.UsersPath, p.body, nil)
				re, ok := harness.AsRequestError(err)
				require.True(t, ok, "expected RequestError, got %v", err)
				assert.Equal(t, 400, re.StatusCode)
				assert.Equal(t, p.expectedMessage, re.Message)
			})
		})
	}
}

func TestUnsupportedMethods(t *testing.T) {
	withMockAPI(t, fastOptions(), func(c *harness.APIClient) {
		for _, req := range []harness.Request{
			{Method: "PUT", Path: apidef.UserPath("1"), Body: apidef.NewUserPayload("blabla", "bla", 1, "blabla")},
			{Method: "PATCH", Path: apidef.UserPath("1")},
			{Method: "DELETE", Path: apidef.UserPath("1")},
			{Method: "PUT", Path: apidef.UsersPath},
		} {
			_, err := c.Do(context.Background(), req, nil)
			assert.True(t, harness.IsBadRequest(err), "%s %s: %v", req.Method, req.Path, err)
		}
	})
}

func TestOverlappingCreatesAreRateLimited(t *testing.T) {
	opts := DefaultOptions()
	opts.WriteDelay = time.Millisecond * 300
	withMockAPI(t, opts, func(c *harness.APIClient) {
		d := c.NewDispatcher(nil)
		d.Dispatch(context.Background(), harness.Request{Method: "POST", Path: apidef.UsersPath,
			Body: apidef.NewUserPayload("Yuval Mendelovitz", "QA Engineer", 22, "Israel")})
		d.Dispatch(context.Background(), harness.Request{Method: "POST", Path: apidef.UsersPath,
			Body: apidef.NewUserPayload("Amit Cohen", "DevOps", 40, "Israel")})
		outcomes := d.Wait()
		require.Len(t, outcomes, 2)
		assert.NoError(t, outcomes[0].Err)
		re, ok := harness.AsRequestError(outcomes[1].Err)
		require.True(t, ok, "expected RequestError, got %v", outcomes[1].Err)
		assert.Equal(t, 429, re.StatusCode)
		assert.Equal(t, apidef.MessageTooManyRequests, re.Message)

		// once the first write has finished, writes are accepted again
		_, err := c.Post(context.Background(), apidef.UsersPath, apidef.NewUserPayload("a", "b", 1, "c"), nil)
		assert.NoError(t, err)
	})
}

func TestEmptyBasePath(t *testing.T) {
	opts := fastOptions()
	opts.BasePath = ""
	withMockAPI(t, opts, func(c *harness.APIClient) {
		_, err := c.Get(context.Background(), apidef.UsersPath, nil)
		assert.NoError(t, err)
	})
}
