package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"github.com/apitests/reqres-contract-tests/framework"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	DefaultTimeout  = time.Second * 10
	RequestIDHeader = "X-Request-Id"
)

// ClientConfig contains the parameters for NewAPIClient.
type ClientConfig struct {
	// BaseURL is the URL that request paths are appended to, such as "https://reqres.in/api".
	BaseURL string

	// Timeout applies to each individual request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Headers are added to every request.
	Headers map[string]string

	// HTTPClient is used to send requests. If nil, a new client is created.
	HTTPClient *http.Client
}

// APIClient sends requests to the service under test.
type APIClient struct {
	baseURL    string
	timeout    time.Duration
	headers    map[string]string
	httpClient *http.Client
}

// Request describes a single call to the service under test.
type Request struct {
	Method string

	// Path is appended to the base URL. It may include a query string.
	Path string

	// Body, if not nil, is sent as JSON.
	Body interface{}
}

// Response is a successful (status below 400) response from the service under test.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
	Duration   time.Duration
}

// JSON parses the response body. If the body is not valid JSON, the result is a null value.
func (r *Response) JSON() ldvalue.Value {
	return ldvalue.Parse(r.Body)
}

// DecodeJSON unmarshals the response body into target.
func (r *Response) DecodeJSON(target interface{}) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("malformed JSON response (%s): %w", string(r.Body), err)
	}
	return nil
}

func NewAPIClient(config ClientConfig) (*APIClient, error) {
	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base URL must be an absolute http or https URL, was %q", config.BaseURL)
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	headers := make(map[string]string, len(config.Headers))
	for k, v := range config.Headers {
		headers[k] = v
	}
	return &APIClient{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		timeout:    timeout,
		headers:    headers,
		httpClient: httpClient,
	}, nil
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// URL returns the absolute URL for a request path.
func (c *APIClient) URL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do sends a request and waits for the response. If the service returns an error status, the
// error is a *RequestError. Every request and response is written to logger.
func (c *APIClient) Do(ctx context.Context, req Request, logger framework.Logger) (*Response, error) {
	return c.do(ctx, req, logger, nil)
}

func (c *APIClient) Get(ctx context.Context, path string, logger framework.Logger) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path}, logger)
}

func (c *APIClient) Post(ctx context.Context, path string, body interface{}, logger framework.Logger) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, logger)
}

func (c *APIClient) Put(ctx context.Context, path string, body interface{}, logger framework.Logger) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, logger)
}

func (c *APIClient) do(
	ctx context.Context,
	req Request,
	logger framework.Logger,
	wroteRequest func(),
) (*Response, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	fullURL := c.URL(req.Path)
	requestID := uuid.NewString()

	var body io.Reader
	var data []byte
	if req.Body != nil {
		var err error
		if data, err = json.Marshal(req.Body); err != nil {
			return nil, fmt.Errorf("could not encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if wroteRequest != nil {
		reqCtx = httptrace.WithClientTrace(reqCtx, &httptrace.ClientTrace{
			WroteRequest: func(httptrace.WroteRequestInfo) { wroteRequest() },
		})
	}
	httpReq, err := http.NewRequestWithContext(reqCtx, method, fullURL, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if data != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(RequestIDHeader, requestID)

	if data != nil {
		logger.Printf("Sending %s %s (%s) with body: %s", method, fullURL, requestID, string(data))
	} else {
		logger.Printf("Sending %s %s (%s)", method, fullURL, requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Printf("Request %s failed: %s", requestID, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s %s timed out after %s: %w", method, fullURL, c.timeout, err)
		}
		return nil, fmt.Errorf("%s %s failed: %w", method, fullURL, err)
	}
	respData, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	duration := time.Since(start)
	if err != nil {
		logger.Printf("Reading response to %s failed: %s", requestID, err)
		return nil, fmt.Errorf("error reading response body from %s %s: %w", method, fullURL, err)
	}
	logger.Printf("Received HTTP %d for %s in %s: %s", resp.StatusCode, requestID,
		duration.Round(time.Millisecond), string(respData))

	if resp.StatusCode >= 400 {
		return nil, &RequestError{
			Method:     method,
			URL:        fullURL,
			RequestID:  requestID,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, respData),
			Body:       respData,
		}
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respData,
		RequestID:  requestID,
		Duration:   duration,
	}, nil
}
