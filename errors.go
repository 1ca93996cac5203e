package sortcycles

import "errors"

// Sentinel errors returned by the trial runner.
var (
	// ErrInvalidRepeat is returned when a trial is asked to run fewer than
	// one repetition.
	ErrInvalidRepeat = errors.New("sortcycles: repeat count must be positive")

	// ErrInvalidElements is returned when the element count used to
	// normalize a result is not positive.
	ErrInvalidElements = errors.New("sortcycles: element count must be positive")
)
