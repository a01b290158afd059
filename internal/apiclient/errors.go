package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a request failure.
type Kind int

const (
	// KindNetworkOrParse covers transport failures, malformed endpoints,
	// cancellation and undecodable or invalid responses.
	KindNetworkOrParse Kind = iota
	// KindAuthenticationRequired is a 401 from the backend.
	KindAuthenticationRequired
	// KindRequestFailed is any other non-2xx status.
	KindRequestFailed
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "authentication_required"
	case KindRequestFailed:
		return "request_failed"
	default:
		return "network_or_parse"
	}
}

const authRequiredMessage = "Authentication required. Please login again."

// ErrAuthenticationRequired is matched by errors.Is for every 401 failure.
var ErrAuthenticationRequired = errors.New(authRequiredMessage)

// RequestError is the error returned by every failed call. Message is the
// text recorded in the client's error state.
type RequestError struct {
	Kind    Kind
	Status  int
	Method  string
	Path    string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindNetworkOrParse when err is not a
// *RequestError.
func KindOf(err error) Kind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindNetworkOrParse
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

func networkError(method, path string, err error) *RequestError {
	return &RequestError{
		Kind:    KindNetworkOrParse,
		Method:  method,
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}

func parseError(method, path string, status int, err error) *RequestError {
	return &RequestError{
		Kind:    KindNetworkOrParse,
		Status:  status,
		Method:  method,
		Path:    path,
		Message: fmt.Sprintf("failed to parse response: %v", err),
		Err:     err,
	}
}
