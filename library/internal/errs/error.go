package errs

import (
	"errors"
)

var (
	// ErrNotFound is the storage-level absence sentinel. It is not a
	// business failure; services translate it where existence is required.
	ErrNotFound = errors.New("not found")

	ErrDuplicateISBN     = errors.New("isbn already registered")
	ErrBookAlreadyLoaned = errors.New("book already loaned")
	ErrBookNotFound      = errors.New("book not found for passed isbn")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrInvalidArgument   = errors.New("id is required")
)

// ErrorResponse is the boundary envelope for both validation and
// business-rule failures.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Errors: []string{err.Error()}}
}

func NewErrorsResponse(msgs []string) ErrorResponse {
	return ErrorResponse{Errors: msgs}
}
