// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind separates failures of the HTTP exchange from failures the
// backend reported inside a well-formed envelope.
type ErrorKind int

const (
	// KindTransport covers non-2xx statuses, network failures and bodies
	// that are not a valid envelope.
	KindTransport ErrorKind = iota + 1

	// KindApplication is an envelope with success=false.
	KindApplication
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// UnknownAPIError is used when the backend fails without saying why.
const UnknownAPIError = "An unknown API error occurred."

// ClientError represents an error from the backend client.
type ClientError struct {
	Kind ErrorKind

	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Message is the text surfaced to the user.
	Message string

	Cause error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by kind, so errors.Is(err, ErrTransport) works
// for every transport failure regardless of its message.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Sentinel errors for errors.Is checks.
var (
	ErrTransport   = &ClientError{Kind: KindTransport}
	ErrApplication = &ClientError{Kind: KindApplication}
)

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsApplication reports whether err is a backend-reported failure.
func IsApplication(err error) bool {
	return errors.Is(err, ErrApplication)
}

// Message returns the best user-facing message for err.
// For a *ClientError that is the message plus its cause; anything else is
// rendered with Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		if msg := ce.Error(); msg != "" {
			return msg
		}
		return UnknownAPIError
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "An unexpected error occurred."
}

func statusError(status int, statusText, detail string) *ClientError {
	msg := fmt.Sprintf("API Error: %s", statusText)
	if detail != "" {
		msg += ": " + detail
	}
	return &ClientError{Kind: KindTransport, Status: status, Message: msg}
}

func applicationError(env *Envelope) *ClientError {
	msg := env.Error
	if msg == "" {
		msg = UnknownAPIError
	}
	return &ClientError{Kind: KindApplication, Message: msg}
}
