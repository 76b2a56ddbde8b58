package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when an operation conflicts with current state
	// (e.g. renewing a contract that was already renewed)
	ErrConflict = errors.New("resource conflict")

	// ErrMissingUnitColumn is returned when a unit CSV has no resolvable
	// unit-number column; the whole import is aborted in that case
	ErrMissingUnitColumn = errors.New("csv is missing the unit number column")

	// ErrEmptyFile is returned when a CSV contains no rows at all
	ErrEmptyFile = errors.New("csv file is empty")
)
