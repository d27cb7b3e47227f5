package harness

import (
	"errors"
	"fmt"
	"net/http"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ErrorKind classifies a RequestError by its HTTP status.
type ErrorKind int

const (
	OtherError ErrorKind = iota
	NotFound
	BadRequest
	RateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case BadRequest:
		return "BadRequest"
	case RateLimited:
		return "RateLimited"
	default:
		return "Other"
	}
}

// RequestError is returned by APIClient when the service under test answers with an error
// status (400 or higher). The request itself reached the service; transport failures are
// returned as ordinary errors instead.
type RequestError struct {
	Method     string
	URL        string
	RequestID  string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s returned HTTP %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

func (e *RequestError) Kind() ErrorKind {
	switch e.StatusCode {
	case http.StatusNotFound:
		return NotFound
	case http.StatusBadRequest:
		return BadRequest
	case http.StatusTooManyRequests:
		return RateLimited
	default:
		return OtherError
	}
}

// AsRequestError returns the RequestError in err's chain, if any.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func kindOf(err error) (ErrorKind, bool) {
	if re, ok := AsRequestError(err); ok {
		return re.Kind(), true
	}
	return OtherError, false
}

func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == NotFound
}

func IsBadRequest(err error) bool {
	k, ok := kindOf(err)
	return ok && k == BadRequest
}

func IsRateLimited(err error) bool {
	k, ok := kindOf(err)
	return ok && k == RateLimited
}

// errorMessage extracts a human-readable message from an error response body. The JSON
// "error" property is preferred, then "message"; if the body has neither, the standard text
// for the status code is used.
func errorMessage(status int, body []byte) string {
	value := ldvalue.Parse(body)
	if value.Type() == ldvalue.ObjectType {
		for _, key := range []string{"error", "message"} {
			if m := value.GetByKey(key); m.Type() == ldvalue.StringType && m.StringValue() != "" {
				return m.StringValue()
			}
		}
	}
	return http.StatusText(status)
}
