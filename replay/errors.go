package replay

import "errors"

var (
	// ErrCorpusRequired is returned when a corpus is not provided.
	ErrCorpusRequired = errors.New("corpus required")

	// ErrInvalidScript is returned when a script is malformed.
	ErrInvalidScript = errors.New("invalid script")
)
