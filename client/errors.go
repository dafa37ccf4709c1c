package client

import "fmt"

// AuthError means the token exchange against the identity provider failed.
// Fatal for oauth mode; the session aborts before any test runs.
type AuthError struct {
	Description string
	Err         error
}

func (e *AuthError) Error() string {
	if e.Description != "" {
		return "authentication failed: " + e.Description
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError is any non-2xx, non-400-with-errors HTTP status. It fails
// the individual test, not the run.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, truncate(e.Body, 200))
}

// DecodeError means the response body is not valid JSON.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v (body=%s)", e.Err, truncate(e.Raw, 200))
}

func (e *DecodeError) Unwrap() error { return e.Err }

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
