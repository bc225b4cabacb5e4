package model

import (
	"net/mail"
	"strings"
)

// Result is the outcome of a validation pass. OK reports success; otherwise
// Field and Reason describe the first failure found.
type Result struct {
	Field  string
	Reason Reason
}

func (r Result) OK() bool { return r.Reason == ReasonNone }

// Err converts a failed result into a *ValidationError, or nil on success.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Field: r.Field, Reason: r.Reason}
}

type BookingInput struct {
	Customer string
	Email    string
	Slot     string
	Status   string
}

// Normalize trims surrounding whitespace from every field.
func (in BookingInput) Normalize() BookingInput {
	return BookingInput{
		Customer: strings.TrimSpace(in.Customer),
		Email:    strings.TrimSpace(in.Email),
		Slot:     strings.TrimSpace(in.Slot),
		Status:   strings.TrimSpace(in.Status),
	}
}

// ValidateBooking checks a normalized submission. Status is optional.
func ValidateBooking(in BookingInput) Result {
	switch {
	case in.Customer == "":
		return Result{Field: "customer", Reason: ReasonMissingField}
	case in.Email == "":
		return Result{Field: "email", Reason: ReasonMissingField}
	case in.Slot == "":
		return Result{Field: "slot", Reason: ReasonMissingField}
	case !IsSlot(in.Slot):
		return Result{Field: "slot", Reason: ReasonUnknownSlot}
	}
	return Result{}
}

type UserInput struct {
	Username string
	Email    string
	Password string
}

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 8

// ValidateUser requires all fields and a parseable email address. The
// password is not trimmed.
func ValidateUser(in UserInput) Result {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return Result{Field: "username", Reason: ReasonMissingField}
	case strings.TrimSpace(in.Email) == "":
		return Result{Field: "email", Reason: ReasonMissingField}
	case in.Password == "":
		return Result{Field: "password", Reason: ReasonMissingField}
	case len(in.Password) < MinPasswordLen:
		return Result{Field: "password", Reason: ReasonShortPassword}
	}
	if a, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil || a.Address != strings.TrimSpace(in.Email) {
		return Result{Field: "email", Reason: ReasonBadEmail}
	}
	return Result{}
}
