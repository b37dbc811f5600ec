package classify

import "errors"

var (
	// ErrEmptyPattern indicates a pattern, or one of its ".*" pieces, is empty after normalization.
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrInvalidWeight indicates a table entry with a non-positive weight.
	ErrInvalidWeight = errors.New("table weight must be positive")

	// ErrEmptyTable indicates a table with no entries.
	ErrEmptyTable = errors.New("table has no entries")
)
