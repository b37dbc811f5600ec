// Package session holds the per-session mutable state of a recommendation
// engine: the rolling window of recent transcripts, user feedback verdicts
// and verse usage counts.
//
// None of the types here lock; the owning engine serializes access.
package session
