// Package apperr classifies client-side failures so each screen can decide how
// to surface them: inline next to a field, as a retryable alert, or verbatim.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the failure class of an AppError.
type Kind string

const (
	// Validation errors are caught before any network call.
	Validation Kind = "validation"
	// Network errors mean no server was reachable (or it did not answer in time).
	Network Kind = "network"
	// Server errors are non-2xx responses from the backend.
	Server Kind = "server"
	// Malformed errors are payloads that are not the JSON we expected.
	Malformed Kind = "malformed"
)

const (
	msgNetwork   = "Could not reach the server. Check your connection and try again."
	msgMalformed = "Bad server response."
	msgUnknown   = "Something went wrong."
)

// AppError is a classified error with a message that is safe to show to the user.
type AppError struct {
	Kind      Kind
	PublicMsg string
	Status    int               // HTTP status for Server errors
	Fields    map[string]string // field -> message for Validation errors
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.PublicMsg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
}

func (e *AppError) Unwrap() error { return e.Err }

// InvalidErr builds a Validation error. fields may be nil.
func InvalidErr(publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Validation, PublicMsg: publicMsg, Fields: fields}
}

// NetworkErr wraps a transport failure. An empty publicMsg uses the generic one.
func NetworkErr(publicMsg string, err error) *AppError {
	if publicMsg == "" {
		publicMsg = msgNetwork
	}
	return &AppError{Kind: Network, PublicMsg: publicMsg, Err: err}
}

// ServerErr wraps a non-2xx response; msg is the server-provided text.
func ServerErr(status int, msg string) *AppError {
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &AppError{Kind: Server, PublicMsg: msg, Status: status}
}

// MalformedErr wraps a response that could not be decoded.
func MalformedErr(publicMsg string, err error) *AppError {
	if publicMsg == "" {
		publicMsg = msgMalformed
	}
	return &AppError{Kind: Malformed, PublicMsg: publicMsg, Err: err}
}

// As extracts the AppError from err's chain.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return ""
}

// Is reports whether err is an AppError of kind k.
func Is(err error, k Kind) bool {
	return KindOf(err) == k
}

// Retryable reports whether resubmitting the same action may succeed.
func Retryable(err error) bool {
	return Is(err, Network)
}

// PublicMessage returns the user-facing text for err.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return msgUnknown
}
