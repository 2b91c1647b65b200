package ranking

import (
	"errors"
	"fmt"
)

// RankError represents a failed list operation.
type RankError struct {
	// Code identifies the error category.
	Code RankErrorCode

	// Message is a human-readable description.
	Message string

	// List names the affected list.
	List string

	// Item identifies the affected item, if any.
	Item string
}

// RankErrorCode categorizes ranking errors.
type RankErrorCode string

const (
	// ErrCodeListNotFound indicates no list has the requested name.
	ErrCodeListNotFound RankErrorCode = "LIST_NOT_FOUND"

	// ErrCodeItemNotFound indicates the item does not exist in the list.
	ErrCodeItemNotFound RankErrorCode = "ITEM_NOT_FOUND"

	// ErrCodeAlphabetMismatch indicates a list already exists under a
	// different alphabet.
	ErrCodeAlphabetMismatch RankErrorCode = "ALPHABET_MISMATCH"

	// ErrCodeAlphabetUnsupported indicates an alphabet whose keys cannot be
	// stored as plain strings (not a prefix code).
	ErrCodeAlphabetUnsupported RankErrorCode = "ALPHABET_UNSUPPORTED"
)

// Error implements the error interface.
func (e *RankError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("%s: %s (list=%s, item=%s)", e.Code, e.Message, e.List, e.Item)
	}
	return fmt.Sprintf("%s: %s (list=%s)", e.Code, e.Message, e.List)
}

// IsListNotFound returns true if the error reports a missing list.
// Uses errors.As to handle wrapped errors.
func IsListNotFound(err error) bool {
	return hasCode(err, ErrCodeListNotFound)
}

// IsItemNotFound returns true if the error reports a missing item.
func IsItemNotFound(err error) bool {
	return hasCode(err, ErrCodeItemNotFound)
}

// IsAlphabetMismatch returns true if the error reports a conflicting alphabet.
func IsAlphabetMismatch(err error) bool {
	return hasCode(err, ErrCodeAlphabetMismatch)
}

func hasCode(err error, code RankErrorCode) bool {
	var re *RankError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

func listNotFound(list string) *RankError {
	return &RankError{Code: ErrCodeListNotFound, Message: "no such list", List: list}
}

func itemNotFound(list, item string) *RankError {
	return &RankError{Code: ErrCodeItemNotFound, Message: "no such item in list", List: list, Item: item}
}
