package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Message is shown to clients in place of Err when set. 5xx responses
	// carry only this.
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Mapping pairs a sentinel with the HTTP status and code it surfaces as.
type Mapping struct {
	Target  error
	Status  int
	Code    string
	Message string
}

// From resolves err to an *Error. An *Error already in the chain wins,
// then the first matching mapping; anything else is a 500.
func From(err error, mappings ...Mapping) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			ae := New(m.Status, m.Code, err)
			ae.Message = m.Message
			return ae
		}
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}
