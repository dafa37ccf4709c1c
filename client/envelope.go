package client

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Envelope is the top-level object a GraphQL endpoint returns. The parse
// invariant: at least one of Data/Errors is present, and every error carries
// a non-empty message.
type Envelope struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors []ErrorObject  `json:"errors,omitempty"`

	hasData   bool
	hasErrors bool
}

type ErrorObject struct {
	Message   string     `json:"message"`
	Locations []Location `json:"locations,omitempty"`
	Path      []any      `json:"path,omitempty"`
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// EnvelopeError means the body was valid JSON but not a well-formed GraphQL
// envelope.
type EnvelopeError struct {
	Reason string
}

func (e *EnvelopeError) Error() string {
	return "malformed graphql envelope: " + e.Reason
}

// ParseEnvelope decodes raw JSON into an Envelope and enforces the envelope
// invariant. A non-JSON body is reported as *DecodeError.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var probe struct {
		Data   json.RawMessage `json:"data"`
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Envelope{}, &DecodeError{Raw: string(raw), Err: err}
	}

	var env Envelope
	if len(probe.Data) > 0 && string(probe.Data) != "null" {
		if err := json.Unmarshal(probe.Data, &env.Data); err != nil {
			return Envelope{}, &EnvelopeError{Reason: fmt.Sprintf("data is not an object: %v", err)}
		}
		env.hasData = true
	}
	if len(probe.Errors) > 0 && string(probe.Errors) != "null" {
		if err := json.Unmarshal(probe.Errors, &env.Errors); err != nil {
			return Envelope{}, &EnvelopeError{Reason: fmt.Sprintf("errors is not a list: %v", err)}
		}
		env.hasErrors = true
	}

	if !env.hasData && !env.hasErrors {
		return Envelope{}, &EnvelopeError{Reason: "neither data nor errors present"}
	}
	for i, e := range env.Errors {
		if strings.TrimSpace(e.Message) == "" {
			return Envelope{}, &EnvelopeError{Reason: fmt.Sprintf("errors[%d] has no message", i)}
		}
	}
	return env, nil
}

func (e Envelope) HasData() bool { return e.hasData }

func (e Envelope) HasErrors() bool { return e.hasErrors }

// ErrorMessages joins every error message, used when a strict-policy case
// fails on GraphQL errors.
func (e Envelope) ErrorMessages() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Message)
	}
	return strings.Join(msgs, "; ")
}
