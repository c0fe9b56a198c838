package domain

import "errors"

// Sentinel errors shared across layers. Repositories and services wrap these
// with fmt.Errorf("...: %w", ...) so the HTTP layer can map them to statuses
// with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicateSensor = errors.New("sensor already exists")
)
