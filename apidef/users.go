// Package apidef describes the wire format of the users API: resource paths, request payloads,
// response bodies and the error messages the service is expected to return.
package apidef

import (
	"net/url"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const DefaultBaseURL = "https://reqres.in/api"

const (
	UsersPath = "/users"

	// UnknownUsersPath is a deliberately misspelled resource path that no route matches.
	UnknownUsersPath = "/userss"
)

const (
	MessagePathNotFound     = "path not found"
	MessageMissingValues    = "cannot create user because there are missing required values"
	MessageInvalidValues    = "cannot create user because the values are invalid"
	MessageTooManyRequests  = "Too Many Requests"
	MessageMethodNotAllowed = "method not supported"
)

// UserPath returns the path of a single user resource.
func UserPath(id string) string {
	return UsersPath + "/" + url.PathEscape(id)
}

// UsersPagePath returns the listing path for a specific page.
func UsersPagePath(page int) string {
	return UsersPath + "?page=" + strconv.Itoa(page)
}

// UserPayloadFields are the properties of a UserPayload, which the service echoes back when a
// user is created.
var UserPayloadFields = []string{"name", "job", "age", "country"}

// UserRecordFields are the properties every record in a listing must have.
var UserRecordFields = []string{"id", "email", "first_name", "last_name", "avatar"}

// UserPayload is the body of a create request. Name is an untyped JSON value so that tests can
// send a value of the wrong type.
type UserPayload struct {
	Name    ldvalue.Value `json:"name"`
	Job     string        `json:"job"`
	Age     int           `json:"age"`
	Country string        `json:"country"`
}

// NewUserPayload returns a payload whose name is a string.
func NewUserPayload(name, job string, age int, country string) UserPayload {
	return UserPayload{Name: ldvalue.String(name), Job: job, Age: age, Country: country}
}

// AsValue returns the payload as a JSON object value, for comparing against response bodies.
func (p UserPayload) AsValue() ldvalue.Value {
	return ldvalue.ObjectBuild().
		Set("name", p.Name).
		Set("job", ldvalue.String(p.Job)).
		Set("age", ldvalue.Int(p.Age)).
		Set("country", ldvalue.String(p.Country)).
		Build()
}

// UserRecord is a user as it appears in listings.
type UserRecord struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// UserPage is the body of a listing response.
type UserPage struct {
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
	Data       []UserRecord `json:"data"`
}

// SingleUser is the body of a response for one user resource.
type SingleUser struct {
	Data interface{} `json:"data"`
}

// CreatedUser is the body of a create response: the submitted fields plus a generated id.
type CreatedUser struct {
	ID        string        `json:"id"`
	Name      ldvalue.Value `json:"name"`
	Job       string        `json:"job"`
	Age       int           `json:"age"`
	Country   string        `json:"country"`
	CreatedAt string        `json:"createdAt"`
}

// ErrorBody is the body of an error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// IDString returns the "id" property of a JSON object as a string, whether the service
// encoded it as a string or as a number. It returns "" if there is no usable id.
func IDString(object ldvalue.Value) string {
	id := object.GetByKey("id")
	switch id.Type() {
	case ldvalue.StringType:
		return id.StringValue()
	case ldvalue.NumberType:
		if id.IsInt() {
			return strconv.Itoa(id.IntValue())
		}
		return strconv.FormatFloat(id.Float64Value(), 'f', -1, 64)
	default:
		return ""
	}
}

// UnwrapData returns the "data" property of a response body if it is an object, or the body
// itself otherwise. Single-resource responses wrap the resource in "data".
func UnwrapData(body ldvalue.Value) ldvalue.Value {
	if data := body.GetByKey("data"); data.Type() == ldvalue.ObjectType {
		return data
	}
	return body
}
