package matrix

import "errors"

// Sentinel errors returned while building or running the matrix.
var (
	// ErrInvalidSize is returned for a problem size below one element.
	ErrInvalidSize = errors.New("matrix: problem size must be positive")

	// ErrUnknownLayout is returned when a selection names no known layout.
	ErrUnknownLayout = errors.New("matrix: unknown layout")

	// ErrUnknownAlgorithm is returned when a selection names no known
	// sorting algorithm.
	ErrUnknownAlgorithm = errors.New("matrix: unknown algorithm")
)
