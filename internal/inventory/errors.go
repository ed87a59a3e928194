package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode categorizes inventory errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates no record carries the requested id.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInsufficientStock indicates a sale larger than the quantity on hand.
	ErrCodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"

	// ErrCodeConflict indicates an id that already exists while duplicates are rejected.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeInvalid indicates a record or argument that breaks an invariant.
	ErrCodeInvalid ErrorCode = "INVALID"
)

// Error is returned by Store operations. The Store is never modified when an
// Error is returned.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ID is the record id the operation referred to.
	ID int

	// Details contains per-field context (INVALID) or quantities (INSUFFICIENT_STOCK).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Details) == 0 || e.Code != ErrCodeInvalid {
		return fmt.Sprintf("%s: %s (id=%d)", e.Code, e.Message, e.ID)
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Details[k])
	}
	return fmt.Sprintf("%s: %s (id=%d): %s", e.Code, e.Message, e.ID, strings.Join(parts, "; "))
}

// CodeOf returns the code of an inventory error, or "" if err is not one.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound returns true if err is a NOT_FOUND error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsInsufficientStock returns true if err is an INSUFFICIENT_STOCK error.
func IsInsufficientStock(err error) bool { return CodeOf(err) == ErrCodeInsufficientStock }

// IsConflict returns true if err is a CONFLICT error.
func IsConflict(err error) bool { return CodeOf(err) == ErrCodeConflict }

// IsInvalid returns true if err is an INVALID error.
func IsInvalid(err error) bool { return CodeOf(err) == ErrCodeInvalid }

func notFoundError(id int) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("item with id %d not found", id),
		ID:      id,
	}
}

func insufficientStockError(id, requested, available int) *Error {
	return &Error{
		Code:    ErrCodeInsufficientStock,
		Message: fmt.Sprintf("not enough stock: requested %d, available %d", requested, available),
		ID:      id,
		Details: map[string]string{
			"requested": fmt.Sprintf("%d", requested),
			"available": fmt.Sprintf("%d", available),
		},
	}
}

func conflictError(id int) *Error {
	return &Error{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("item with id %d already exists", id),
		ID:      id,
	}
}

func invalidError(id int, details map[string]string) *Error {
	return &Error{
		Code:    ErrCodeInvalid,
		Message: "invalid item",
		ID:      id,
		Details: details,
	}
}
