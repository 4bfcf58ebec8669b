package domain

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrComputation = errors.New("computation error")
)
