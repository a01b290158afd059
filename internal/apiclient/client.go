// Package apiclient issues requests against the RailSpark backend and tracks
// per-client request lifecycle state (loading and last error).
//
// Every call sets loading, clears the previous error, attaches a bearer
// token when the injected session has one, and normalizes failures into a
// *RequestError. A 401 logs the session out. Calls are not queued or
// deduplicated: concurrent calls race and the last one to resolve writes the
// state last.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"railspark/internal/logging"
)

// DefaultBaseURL is the backend origin used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

// TokenSource is the authentication context the client reads credentials
// from. *session.Session implements it.
type TokenSource interface {
	Token() string
	Logout()
}

// Client is one request utility instance with its own loading/error state.
type Client struct {
	baseURL      string
	auth         TokenSource
	httpClient   *http.Client
	observers    []Observer
	newRequestID func() string

	mu       sync.Mutex
	loading  bool
	errMsg   string
	inFlight int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets an overall timeout on the transport client. Zero keeps
// the transport default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithObserver registers an observer notified around every request.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithRequestIDFunc replaces the X-Request-ID generator.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

// New creates a client for baseURL. auth may be nil for anonymous use.
func New(baseURL string, auth TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		auth:         auth,
		httpClient:   &http.Client{},
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Loading reports whether a request is in progress. With concurrent calls
// this is the value written by the most recent transition.
func (c *Client) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Error returns the last recorded error message, or "".
func (c *Client) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ClearError resets the error state.
func (c *Client) ClearError() {
	c.mu.Lock()
	c.errMsg = ""
	c.mu.Unlock()
}

// InFlight returns the exact number of outstanding calls.
func (c *Client) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *Client) begin() {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.inFlight++
	c.mu.Unlock()
}

func (c *Client) end() {
	c.mu.Lock()
	c.loading = false
	c.inFlight--
	c.mu.Unlock()
}

func (c *Client) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

// CallOption adjusts a single call.
type CallOption func(*callConfig)

type callConfig struct {
	headers http.Header
}

// WithHeader sets a request header, overriding the defaults.
func WithHeader(key, value string) CallOption {
	return func(cc *callConfig) {
		cc.headers.Set(key, value)
	}
}

// WithHeaders sets several request headers, overriding the defaults.
func WithHeaders(h map[string]string) CallOption {
	return func(cc *callConfig) {
		for k, v := range h {
			cc.headers.Set(k, v)
		}
	}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...CallOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil, opts...)
}

// Post issues a POST request with body.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts ...CallOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body, opts...)
}

// Put issues a PUT request with body.
func (c *Client) Put(ctx context.Context, endpoint string, body any, opts ...CallOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, endpoint, body, opts...)
}

// Patch issues a PATCH request with body.
func (c *Client) Patch(ctx context.Context, endpoint string, body any, opts ...CallOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, endpoint, body, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...CallOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, opts...)
}

// Do runs one request through the full lifecycle. On failure the error
// message is recorded in the client state and the *RequestError returned.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, opts ...CallOption) (*Response, error) {
	c.begin()
	defer c.end()

	info := RequestInfo{
		ID:       c.newRequestID(),
		Method:   method,
		Endpoint: endpoint,
		Started:  time.Now(),
	}
	for _, o := range c.observers {
		o.RequestStarted(info)
	}

	resp, err := c.do(ctx, info, body, opts)

	result := Result{Duration: time.Since(info.Started), Err: err}
	if resp != nil {
		result.Status = resp.Status
	} else if err != nil {
		result.Status = StatusOf(err)
	}
	for _, o := range c.observers {
		o.RequestFinished(info, result)
	}

	if err != nil {
		c.setError(err.Error())
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, info RequestInfo, body any, opts []CallOption) (*Response, error) {
	method, endpoint := info.Method, info.Endpoint
	if !strings.HasPrefix(endpoint, "/") {
		return nil, networkError(method, endpoint, fmt.Errorf("malformed URL: endpoint %q must start with /", endpoint))
	}

	reader, bodyType, err := encodeBody(body)
	if err != nil {
		return nil, networkError(method, endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, networkError(method, endpoint, fmt.Errorf("malformed URL: %w", err))
	}

	if bodyType == "" {
		bodyType = contentTypeJSON
	}
	req.Header.Set("Content-Type", bodyType)
	if c.auth != nil {
		if token := c.auth.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Request-ID", info.ID)

	cc := callConfig{headers: make(http.Header)}
	for _, opt := range opts {
		opt(&cc)
	}
	for k, v := range cc.headers {
		req.Header[k] = v
	}
	if _, isMultipart := body.(*Multipart); isMultipart && strings.Contains(req.Header.Get("Content-Type"), contentTypeJSON) {
		req.Header.Set("Content-Type", bodyType)
	}

	logging.APIDebug("%s %s id=%s", method, endpoint, info.ID)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("%s %s failed: %v", method, endpoint, err)
		return nil, networkError(method, endpoint, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, networkError(method, endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		logging.API("%s %s: 401, logging out", method, endpoint)
		if c.auth != nil {
			c.auth.Logout()
		}
		return nil, &RequestError{
			Kind:    KindAuthenticationRequired,
			Status:  http.StatusUnauthorized,
			Method:  method,
			Path:    endpoint,
			Message: authRequiredMessage,
			Err:     ErrAuthenticationRequired,
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		msg := errorMessage(httpResp.StatusCode, data)
		logging.APIDebug("%s %s: status=%d message=%q", method, endpoint, httpResp.StatusCode, msg)
		return nil, &RequestError{
			Kind:    KindRequestFailed,
			Status:  httpResp.StatusCode,
			Method:  method,
			Path:    endpoint,
			Message: msg,
		}
	}

	resp := &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   data,
	}
	if strings.Contains(httpResp.Header.Get("Content-Type"), contentTypeJSON) {
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &resp.Value); err != nil {
				return nil, parseError(method, endpoint, httpResp.StatusCode, err)
			}
		}
	} else {
		resp.Value = string(data)
	}
	return resp, nil
}

// errorMessage extracts the best available message from a failed response:
// detail, then message, then the whole JSON body, then raw text, then the
// status line.
func errorMessage(status int, data []byte) string {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err == nil {
		if obj, ok := parsed.(map[string]any); ok {
			if msg := fieldMessage(obj["detail"]); msg != "" {
				return msg
			}
			if msg := fieldMessage(obj["message"]); msg != "" {
				return msg
			}
		}
		if encoded, err := json.Marshal(parsed); err == nil {
			return string(encoded)
		}
	}
	if text := string(data); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

func fieldMessage(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
	case float64:
		if val == 0 {
			return ""
		}
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(encoded)
}
