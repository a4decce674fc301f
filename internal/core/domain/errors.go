package domain

import "errors"

// Common domain errors shared across services
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)
