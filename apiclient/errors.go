// Package apiclient provides the shared machinery for the FileDeck resource
// clients: the error taxonomy surfaced to page controllers, the
// authenticated request builder, and response decoding helpers.
package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure. Page controllers branch on the kind;
// the message is what gets rendered.
type Kind int

const (
	// KindLocalValidation means the input was rejected before any network
	// call was made (empty fields, format constraints, no file chosen).
	KindLocalValidation Kind = iota
	// KindUnauthenticated means no token was present locally, or the server
	// answered 401. The message is always normalized so the user is told to
	// log in again rather than shown a raw server error.
	KindUnauthenticated
	// KindAuthorization means the server answered 403: authenticated, but
	// the role does not permit the operation.
	KindAuthorization
	// KindRemoteOperation covers any other non-2xx response. The message is
	// the server-provided one when the body carries it.
	KindRemoteOperation
	// KindNetwork means the request could not complete at all.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindLocalValidation:
		return "local_validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAuthorization:
		return "authorization"
	case KindRemoteOperation:
		return "remote_operation"
	case KindNetwork:
		return "network"
	}
	return "unknown"
}

// UnauthenticatedMessage is the single message rendered for every
// unauthenticated outcome, whether detected locally or reported by the
// server. An expired or missing token is a user-actionable case and must
// not be drowned in whatever the server put in the body.
const UnauthenticatedMessage = "your session has expired, please log in again"

// Error is the failure type thrown by every resource-client operation.
type Error struct {
	Kind    Kind
	Op      string // operation name, e.g. "list files"
	Status  int    // HTTP status code, 0 when no response was received
	Message string // what the page controller renders
	Err     error  // underlying cause, when any

	// raw is the message extracted from the response body before any
	// normalization. Set only by DecodeError.
	raw string
}

// ServerMessage returns what the server actually said, bypassing any
// normalization, or fallback when the body carried no message. The login
// path uses it: a 401 there is bad credentials, not an expired session.
func (e *Error) ServerMessage(fallback string) string {
	if e.raw != "" {
		return e.raw
	}
	return fallback
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LocalValidation builds a pre-network validation failure.
func LocalValidation(op, msg string) *Error {
	return &Error{Kind: KindLocalValidation, Op: op, Message: msg}
}

// Unauthenticated builds the normalized logged-out failure.
func Unauthenticated(op string, status int, cause error) *Error {
	return &Error{
		Kind:    KindUnauthenticated,
		Op:      op,
		Status:  status,
		Message: UnauthenticatedMessage,
		Err:     cause,
	}
}

// NetworkFailure wraps a transport-level failure (DNS, refused connection,
// timeout) where no HTTP response was received.
func NetworkFailure(op string, cause error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Op:      op,
		Message: fmt.Sprintf("%s failed: could not reach server", op),
		Err:     cause,
	}
}

// KindOf extracts the Kind from an error chain. Errors that did not come
// from a resource client report KindNetwork, the conservative default.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}

// IsUnauthenticated reports whether err means the session is gone and the
// user must log in again.
func IsUnauthenticated(err error) bool {
	return KindOf(err) == KindUnauthenticated
}

// IsAuthorization reports whether err is a 403: the session is fine but the
// role is insufficient.
func IsAuthorization(err error) bool {
	return KindOf(err) == KindAuthorization
}
