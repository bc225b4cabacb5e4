package model

import (
	"errors"
	"fmt"
)

// ErrConflict is returned by a store when a unique key already exists.
var ErrConflict = errors.New("conflict: record already exists")

// Reason enumerates why a submission failed validation.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingField
	ReasonUnknownSlot
	ReasonBadEmail
	ReasonShortPassword
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonMissingField:
		return "missing field"
	case ReasonUnknownSlot:
		return "unknown slot"
	case ReasonBadEmail:
		return "invalid email"
	case ReasonShortPassword:
		return "password too short"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

type ValidationError struct {
	Field  string
	Reason Reason
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason.String()
}

// StoreError wraps a persistence failure. Nothing was written.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// TransportError reports a dropped fanout connection.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "fanout transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
