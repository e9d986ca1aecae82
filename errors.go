package arachnid

import (
	"errors"
	"fmt"
)

// Kind classifies the failure behind an *Error.
type Kind int

const (
	// KindTransport means the server could not be reached: connection refused,
	// timeout, DNS failure or a broken response stream.
	KindTransport Kind = iota + 1
	// KindStatus means the server answered with a non-2xx HTTP status.
	KindStatus
	// KindDecode means the response body did not have the expected shape.
	KindDecode
	// KindNoSession means a session-scoped call was made without an active
	// session.
	KindNoSession
	// KindNoSuchElement means an element lookup returned no element.
	KindNoSuchElement
	// KindUsage means the call was rejected before reaching the server because
	// of an invalid argument.
	KindUsage
	// KindSessionActive means NewSession was called while a session is still
	// open.
	KindSessionActive
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport failure"
	case KindStatus:
		return "bad status"
	case KindDecode:
		return "decode failure"
	case KindNoSession:
		return "no active session"
	case KindNoSuchElement:
		return "no such element"
	case KindUsage:
		return "invalid argument"
	case KindSessionActive:
		return "session already active"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Errors returned by legacy (JSON wire protocol) servers, keyed by the
// "status" member of the reply.
var remoteErrors = map[int]string{
	6:  "invalid session id",
	7:  "no such element",
	8:  "no such frame",
	9:  "unknown command",
	10: "stale element reference",
	11: "element not visible",
	12: "invalid element state",
	13: "unknown error",
	15: "element is not selectable",
	17: "javascript error",
	19: "xpath lookup error",
	21: "timeout",
	23: "no such window",
	24: "invalid cookie domain",
	25: "unable to set cookie",
	26: "unexpected alert open",
	27: "no alert open",
	28: "script timeout",
	29: "invalid element coordinates",
	32: "invalid selector",
}

// Error is returned by every Driver operation that fails.
type Error struct {
	Kind Kind
	// Op names the operation, e.g. "find element".
	Op string

	// The following are set for KindStatus errors, as far as the server
	// provided them.

	// HTTPCode is the HTTP status code returned by the server.
	HTTPCode int
	// Err is the W3C error code, e.g. "no such element".
	Err string
	// Message is a human-readable description of the error.
	Message string
	// Stacktrace is the stack trace reported by the server, if any.
	Stacktrace string
	// LegacyCode is the "status" of a JSON wire protocol reply.
	LegacyCode int

	cause error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	switch {
	case e.HTTPCode != 0 && e.Err != "":
		if e.Kind != KindStatus {
			msg += ":"
		}
		msg += fmt.Sprintf(" %d: %s", e.HTTPCode, e.Err)
		if e.Message != "" {
			msg += ": " + e.Message
		}
	case e.Kind == KindStatus:
		msg += fmt.Sprintf(" %d", e.HTTPCode)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err, or an error it wraps, is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

func newError(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, cause: cause}
}
