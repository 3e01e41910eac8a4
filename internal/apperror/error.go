package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for presentation.
type Kind string

const (
	// KindTransport means no response arrived: network error, timeout or an open breaker.
	KindTransport Kind = "transport"
	// KindRemote is a non-success response from the API.
	KindRemote Kind = "remote"
	// KindNotFound is the sentinel "no such name" / "no matching records" result.
	KindNotFound Kind = "not_found"
	// KindLocal is a draft or input problem caught before any network call.
	KindLocal Kind = "local"
)

// NetworkMessage is shown for every transport failure.
const NetworkMessage = "Network error. Please try again."

// Error is the typed failure returned by the gateway and the workflows.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport wraps a network-level failure.
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// Remote builds a failure from a non-success status and its body, if any.
func Remote(status int, body string) *Error {
	return &Error{Kind: KindRemote, Status: status, Message: strings.TrimSpace(body)}
}

// NotFound builds a sentinel failure with a specific message.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Local builds a validation failure caught before the network.
func Local(format string, args ...any) *Error {
	return &Error{Kind: KindLocal, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message converts any failure into the text shown to the user. fallback is
// used for remote failures without a body and for untyped errors.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		if fallback != "" {
			return fallback
		}
		return err.Error()
	}
	switch appErr.Kind {
	case KindTransport:
		return NetworkMessage
	case KindRemote:
		if appErr.Message != "" {
			return appErr.Message
		}
		if fallback != "" {
			return fallback
		}
		return fmt.Sprintf("request failed with status %d", appErr.Status)
	default:
		if appErr.Message != "" {
			return appErr.Message
		}
		return fallback
	}
}
