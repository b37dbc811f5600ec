package server

import "errors"

var (
	// ErrCorpusRequired is returned when creating a server without a corpus.
	ErrCorpusRequired = errors.New("server: corpus is required")

	// ErrSessionNotFound is returned for an unknown or closed session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("too many open sessions")
)
