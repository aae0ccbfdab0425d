package domain

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUpstream          = errors.New("booking source unavailable")
	ErrValidation        = errors.New("validation failed")
)
