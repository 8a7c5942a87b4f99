package mixcloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated is returned, before any request is sent, when an
	// operation that needs an identity is called without an access token.
	ErrUnauthenticated = errors.New("mixcloud: access token required")

	// ErrMalformedResponse is returned when a response lacks expected fields.
	ErrMalformedResponse = errors.New("mixcloud: malformed response")

	// ErrNotFound matches an *APIError with status 404.
	ErrNotFound = errors.New("mixcloud: not found")

	// ErrOAuthExchange matches every *OAuthError.
	ErrOAuthExchange = errors.New("mixcloud: oauth exchange failed")
)

// APIError is returned for responses with a status code of 400 or above.
type APIError struct {
	StatusCode int
	Method     string
	URL        string // access token removed
	Type       string // error type reported by the API, if any
	Message    string // error message reported by the API, if any
	Body       []byte
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("mixcloud: %s %s returned status %d", e.Method, e.URL, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// OAuthError is returned when exchanging an authorization code fails.
// Payload holds the provider's response body when one was received.
type OAuthError struct {
	StatusCode int
	Type       string
	Message    string
	Payload    []byte
	Err        error
}

func (e *OAuthError) Error() string {
	msg := ErrOAuthExchange.Error()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OAuthError) Is(target error) bool {
	return target == ErrOAuthExchange
}

func (e *OAuthError) Unwrap() error {
	return e.Err
}

// parseErrorPayload extracts the error type and message from the bodies the
// API sends with failures, either {"error": {"type": ..., "message": ...}}
// or {"error": "...", "error_description": "..."}.
func parseErrorPayload(body []byte) (errType, message string) {
	var payload struct {
		Error       json.RawMessage `json:"error"`
		Description string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return "", ""
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &detail); err == nil {
		return detail.Type, detail.Message
	}

	var code string
	if err := json.Unmarshal(payload.Error, &code); err == nil {
		if payload.Description != "" {
			return code, payload.Description
		}
		return code, code
	}
	return "", ""
}

func missingField(path string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedResponse, path)
}
