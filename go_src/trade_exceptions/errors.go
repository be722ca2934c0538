package trade_exceptions

import (
	"fmt"
	"net/http"
)

const maxBodyInMessage = 200

// ConfigurationError reports a bad endpoint name, a missing credential or a
// resource constructed against the wrong endpoint tier.
type ConfigurationError struct {
	Message string
	Key     string // Config key or resource that was problematic
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("ConfigurationError: %s", e.Message)
	}
	return fmt.Sprintf("ConfigurationError: %s (Key: %s)", e.Message, e.Key)
}

// AuthError is returned when the API rejects the bearer token (HTTP 401/403).
type AuthError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("AuthError: credentials rejected by %s (Status: %d %s)", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// NetworkError wraps a transport failure. No response was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("NetworkError: %s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ApiError is any non-2xx response without a more specific mapping, or a
// successful response whose body could not be decoded.
type ApiError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
	Err        error // decode failure, if any
}

func (e *ApiError) Error() string {
	body := e.Body
	if len(body) > maxBodyInMessage {
		body = body[:maxBodyInMessage] + "..."
	}
	if e.Err != nil {
		return fmt.Sprintf("ApiError: %s (Status: %d): %v. Body: %s", e.URL, e.StatusCode, e.Err, body)
	}
	return fmt.Sprintf("ApiError: %s (Status: %s): %s", e.URL, e.Status, body)
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

// KeyNotFoundError means the response document lacks a key the caller asked
// for. It signals schema drift, not a transient failure.
type KeyNotFoundError struct {
	Key  string
	Path string // dotted path that was being traversed
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("KeyNotFoundError: key '%s' not found at '%s'", e.Key, e.Path)
}

// SchemaError means a key was present but held a value of an unexpected JSON type.
type SchemaError struct {
	Key  string
	Want string
	Got  interface{}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("SchemaError: key '%s' expected %s, got %T (%v)", e.Key, e.Want, e.Got, e.Got)
}

// ValidationError rejects a request locally, before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ValidationError: %s: %s", e.Field, e.Message)
}
