package mudder

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes mudder errors.
type ErrorCode string

const (
	// ErrCodeConstruction indicates a malformed alphabet or digit map.
	ErrCodeConstruction ErrorCode = "CONSTRUCTION"

	// ErrCodeParse indicates input that cannot be split into known symbols.
	ErrCodeParse ErrorCode = "PARSE"

	// ErrCodeDomain indicates boundaries with no room between them.
	ErrCodeDomain ErrorCode = "DOMAIN"

	// ErrCodeInvalidArgument indicates an out-of-range option or digit.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Error is returned by every fallible operation in this package.
type Error struct {
	Code    ErrorCode
	Message string

	// Input is the offending input, when there is one.
	Input string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s: %s (input=%q)", e.Code, e.Message, e.Input)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConstructionError reports whether err is a ConstructionError.
func IsConstructionError(err error) bool {
	return hasCode(err, ErrCodeConstruction)
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	return hasCode(err, ErrCodeParse)
}

// IsDomainError reports whether err is a DomainError.
func IsDomainError(err error) bool {
	return hasCode(err, ErrCodeDomain)
}

// IsInvalidArgumentError reports whether err is an InvalidArgument error.
func IsInvalidArgumentError(err error) bool {
	return hasCode(err, ErrCodeInvalidArgument)
}

func hasCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

func constructionError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeConstruction, Message: fmt.Sprintf(format, args...)}
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}
