package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
)

// Response is a successful reply. Value holds the decoded JSON document for
// JSON content types (nil for an empty body) and the raw text otherwise.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	Value  any
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// Validator is implemented by response types that check their own shape.
type Validator interface {
	Validate() error
}

// GetJSON issues a GET and decodes the reply into T.
func GetJSON[T any](ctx context.Context, c *Client, endpoint string, opts ...CallOption) (T, error) {
	return DoJSON[T](ctx, c, http.MethodGet, endpoint, nil, opts...)
}

// PostJSON issues a POST and decodes the reply into T.
func PostJSON[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...CallOption) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPost, endpoint, body, opts...)
}

// PutJSON issues a PUT and decodes the reply into T.
func PutJSON[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...CallOption) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPut, endpoint, body, opts...)
}

// PatchJSON issues a PATCH and decodes the reply into T.
func PatchJSON[T any](ctx context.Context, c *Client, endpoint string, body any, opts ...CallOption) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPatch, endpoint, body, opts...)
}

// DeleteJSON issues a DELETE and decodes the reply into T.
func DeleteJSON[T any](ctx context.Context, c *Client, endpoint string, opts ...CallOption) (T, error) {
	return DoJSON[T](ctx, c, http.MethodDelete, endpoint, nil, opts...)
}

// DoJSON runs a request and decodes the reply into T, then validates it.
// Values (or slice elements) implementing Validator are checked; a failure
// is a KindNetworkOrParse error recorded in the client state.
func DoJSON[T any](ctx context.Context, c *Client, method, endpoint string, body any, opts ...CallOption) (T, error) {
	var out T
	resp, err := c.Do(ctx, method, endpoint, body, opts...)
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		rerr := parseError(method, endpoint, resp.Status, err)
		c.setError(rerr.Message)
		return out, rerr
	}
	if err := validateValue(&out); err != nil {
		rerr := &RequestError{
			Kind:    KindNetworkOrParse,
			Status:  resp.Status,
			Method:  method,
			Path:    endpoint,
			Message: fmt.Sprintf("invalid response from %s: %v", endpoint, err),
			Err:     err,
		}
		c.setError(rerr.Message)
		return out, rerr
	}
	return out, nil
}

func validateValue(v any) error {
	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		if val, ok := rv.Interface().(Validator); ok {
			return val.Validate()
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		target := elem.Interface()
		if elem.CanAddr() {
			target = elem.Addr().Interface()
		}
		if err := validateValue(target); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
