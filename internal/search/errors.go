package search

import (
	"errors"
	"fmt"
)

// Error codes for request-shape failures. Per-indexer faults never use these;
// they are absorbed into IndexerStatus entries instead.
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNoMatchingIndexers = "NO_MATCHING_INDEXERS"
)

// RequestError represents a malformed or unsatisfiable search request, caught
// before any indexer call is made.
type RequestError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is implements error matching for errors.Is().
func (e *RequestError) Is(target error) bool {
	var t *RequestError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Common error instances for comparison
var (
	ErrInvalidRequest     = &RequestError{Code: ErrCodeInvalidRequest, Message: "invalid search request"}
	ErrNoMatchingIndexers = &RequestError{Code: ErrCodeNoMatchingIndexers, Message: "no matching indexers"}
)

// NewInvalidRequestError creates an invalid-request error with a reason.
func NewInvalidRequestError(message string) *RequestError {
	return &RequestError{Code: ErrCodeInvalidRequest, Message: message}
}

// NewNoMatchingIndexersError creates a no-matching-indexers error.
func NewNoMatchingIndexersError(message string) *RequestError {
	return &RequestError{Code: ErrCodeNoMatchingIndexers, Message: message}
}
