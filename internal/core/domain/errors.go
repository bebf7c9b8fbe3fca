package domain

import (
	"errors"
	"fmt"
)

// DomainError is an error with a stable, structured code.
//
// Codes have the form ZC-<AREA>-<NNNN>; the leading digit of NNNN follows
// HTTP status classes (4xxx caller, 5xxx configuration or system).
type DomainError struct {
	Code    string // e.g. "ZC-CONF-5001"
	Message string
	Details string
	Cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a DomainError.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy of the error with details attached.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, Cause: e.Cause}
}

// WithDetailsf is WithDetails with formatting.
func (e *DomainError) WithDetailsf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Details: e.Details, Cause: cause}
}

// IsDomainError reports whether err is a DomainError, optionally with the
// given code. An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return code == "" || de.Code == code
	}
	return false
}

// GetErrorCode extracts the code from a DomainError, or "" for other errors.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Configuration errors (CONF). Raised before any data is touched.
var (
	ErrConfigMissing    = NewDomainError("ZC-CONF-5001", "configuration incomplete")
	ErrResourceMissing  = NewDomainError("ZC-CONF-5002", "resource missing for cipher")
	ErrResourceInvalid  = NewDomainError("ZC-CONF-5003", "resource invalid")
	ErrAccessKeyInvalid = NewDomainError("ZC-CONF-5004", "access key malformed")
)

// Argument errors (ARG).
var (
	ErrInvalidInput    = NewDomainError("ZC-ARG-4001", "invalid input")
	ErrMissingArgument = NewDomainError("ZC-ARG-4002", "missing required argument")
)

// Token errors (TOKN).
var (
	// ErrPermutationRange is returned on encode when an index falls outside
	// [1, L!] for its pool. Decode reports the same condition as a result.
	ErrPermutationRange = NewDomainError("ZC-TOKN-4003", "permutation index out of range")
)

// Identity errors (IDEN).
var (
	ErrIdentityNotFound = NewDomainError("ZC-IDEN-4040", "identity not found")
	ErrIdentityConflict = NewDomainError("ZC-IDEN-4090", "identity already registered")
)

// System errors (SYS).
var (
	ErrInternal    = NewDomainError("ZC-SYS-5000", "internal error")
	ErrStorage     = NewDomainError("ZC-SYS-5001", "storage error")
	ErrBadRequest  = NewDomainError("ZC-SYS-4000", "bad request")
	ErrRateLimited = NewDomainError("ZC-SYS-4290", "too many requests")
)
