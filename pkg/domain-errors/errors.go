// Package domainerrors provides coded domain errors. Services translate
// store-level sentinel errors into these so every rejected operation is
// observable by its caller with a specific, inspectable kind.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a distinct failure kind. Handlers map codes to HTTP
// statuses; callers branch on codes, never on message text.
type Code string

const (
	// Ambient codes shared by every domain.
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeInternal     Code = "internal"

	// Issuance failure kinds.
	CodeInvalidMetadata     Code = "invalid_metadata"
	CodeMintingDisabled     Code = "minting_disabled"
	CodeSupplyExhausted     Code = "supply_exhausted"
	CodeSupplyLimitDecrease Code = "supply_limit_decrease"
	CodeNotAllowlisted      Code = "not_allowlisted"

	// Marketplace failure kinds.
	CodeNotOwner          Code = "not_owner"
	CodeInvalidPrice      Code = "invalid_price"
	CodeNotListed         Code = "not_listed"
	CodeAlreadyListed     Code = "already_listed"
	CodePriceMismatch     Code = "price_mismatch"
	CodeSelfPurchase      Code = "self_purchase"
	CodeStaleListing      Code = "stale_listing"
	CodeReentrantCall     Code = "reentrant_call"
	CodeInsufficientFunds Code = "insufficient_funds"
)

// Error is a domain error with an inspectable code. The wrapped cause, if
// any, is preserved for errors.Is/As chains.
type Error struct {
	code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the failure kind.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message without the code prefix.
func (e *Error) Message() string { return e.msg }

// New creates a domain error with the given code.
func New(code Code, msg string) error {
	return &Error{code: code, msg: msg}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, err: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.code == code {
			return true
		}
		err = de.err
		if err == nil {
			break
		}
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}
