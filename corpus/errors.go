package corpus

import "errors"

// ErrDuplicateID indicates a verse id that appeared earlier in the input.
var ErrDuplicateID = errors.New("duplicate verse id")
