package ledger

import (
	"errors"
	"fmt"
)

// Kind is the closed error taxonomy surfaced to callers. The gateway maps
// kinds to transport status codes; the core never retries and never
// swallows a failure.
type Kind string

const (
	KindAlreadyExists    Kind = "ALREADY_EXISTS"
	KindNotFound         Kind = "NOT_FOUND"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindInvalidState     Kind = "INVALID_STATE"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
)

// Error is a structured ledger failure: which operation, which key, and why.
type Error struct {
	Kind   Kind
	Op     string
	Key    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Key, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a ledger Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == kind
}

// KindOf extracts the error kind, or "" for non-ledger errors.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

func errAlreadyExists(op, key string) error {
	return &Error{Kind: KindAlreadyExists, Op: op, Key: key, Reason: "asset already registered"}
}

func errNotFound(op, key string) error {
	return &Error{Kind: KindNotFound, Op: op, Key: key, Reason: "asset not found"}
}

func errUnauthorized(op, key, role string) error {
	return &Error{Kind: KindUnauthorized, Op: op, Key: key, Reason: "role " + role + " not allowed"}
}

func errInvalidState(op, key, reason string) error {
	return &Error{Kind: KindInvalidState, Op: op, Key: key, Reason: reason}
}

func errStoreUnavailable(op, key string, err error) error {
	return &Error{Kind: KindStoreUnavailable, Op: op, Key: key, Err: err}
}
