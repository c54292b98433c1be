package clockify

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the API rejects the API key (HTTP 401).
	ErrUnauthorized = errors.New("clockify: unauthorized request")

	// ErrForbidden is returned when the key is valid but lacks access (HTTP 403).
	ErrForbidden = errors.New("clockify: forbidden request")

	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("clockify: not found")

	errMissingKey = errors.New("required key missing")
)

// NotFoundError is returned for HTTP 404 and carries the resolved URL.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("clockify: not found: %s", e.URL)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ResponseNotJSONError is returned when a response body cannot be parsed as JSON.
type ResponseNotJSONError struct {
	URL  string
	Body []byte
}

func (e *ResponseNotJSONError) Error() string {
	return fmt.Sprintf("clockify: could not decode JSON from %s: %s", e.URL, truncate(string(e.Body), 200))
}

// APIError is returned for error statuses other than 401, 403 and 404.
type APIError struct {
	StatusCode int
	URL        string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clockify: API error (status %d) from %s: %s", e.StatusCode, e.URL, truncate(string(e.Body), 200))
}

// DecodeError reports a payload that is present but cannot be mapped onto a
// record: an unknown enum token, a malformed duration or timestamp, or JSON
// of the wrong shape.
type DecodeError struct {
	// Type names what was being decoded, e.g. "MembershipStatus" or "duration".
	Type string
	// Value is the offending input when there is a single one.
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Err != nil && e.Value != "":
		return fmt.Sprintf("clockify: cannot decode %s from %q: %v", e.Type, e.Value, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("clockify: cannot decode %s: %v", e.Type, e.Err)
	default:
		return fmt.Sprintf("clockify: cannot decode %s from %q", e.Type, e.Value)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// asDecodeError keeps an existing *DecodeError intact and wraps anything else
// (syntax or type mismatches from encoding/json) as a decode failure of typ.
func asDecodeError(typ string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Type: typ, Err: err}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
