package errors

import "errors"

var (
	ErrNotFound = errors.New("account not found")

	ErrDuplicateEmail = errors.New("email already registered")
)
