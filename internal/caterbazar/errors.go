package caterbazar

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is unusable
	ErrInvalidConfig = errors.New("invalid marketplace client config")

	// ErrNetworkError is returned when the upstream could not be reached
	ErrNetworkError = errors.New("network error")

	// ErrMissingToken is returned when a protected call is made without a bearer token
	ErrMissingToken = errors.New("missing bearer token")

	// ErrMalformedResponse is returned when a 2xx body cannot be decoded
	ErrMalformedResponse = errors.New("malformed upstream response")
)
