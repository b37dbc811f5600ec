package storage

import (
	"context"

	"github.com/poiesic/latif/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// VerseRepository provides operations for managing the verse library.
type VerseRepository interface {
	Repository
	// AddVerses stores new verses under their own ids.
	// Returns ErrDuplicateKey if an id is taken or if another verse already
	// has the same normalized text.
	AddVerses(ctx context.Context, verses ...*core.Verse) ([]*core.Verse, error)

	// PutVerses inserts or replaces verses by id. A verse whose normalized
	// text duplicates a different stored verse is rejected with ErrDuplicateKey.
	PutVerses(ctx context.Context, verses ...*core.Verse) ([]*core.Verse, error)

	// DeleteVerses removes verses by their ids.
	// Returns ErrNotFound if any verse doesn't exist.
	DeleteVerses(ctx context.Context, ids ...int) error

	// GetVerse retrieves a single verse by id.
	// Returns ErrNotFound if the verse doesn't exist.
	GetVerse(ctx context.Context, id int) (*core.Verse, error)

	// GetVerses retrieves multiple verses by their ids.
	// Returns only the verses that exist (no error for missing verses).
	GetVerses(ctx context.Context, ids ...int) ([]*core.Verse, error)

	// FindVerseByText finds the verse whose normalized text matches text.
	// Returns ErrNotFound if no verse matches.
	FindVerseByText(ctx context.Context, text string) (*core.Verse, error)

	// ListVerses returns every verse ordered by id.
	ListVerses(ctx context.Context) ([]*core.Verse, error)

	// CountVerses returns the number of stored verses.
	CountVerses(ctx context.Context) (int, error)
}

// CollectionRepository persists metadata about the stored collection.
type CollectionRepository interface {
	// SaveCollection stores the collection metadata, replacing any previous value.
	SaveCollection(ctx context.Context, collection *core.Collection) error

	// LoadCollection retrieves the collection metadata.
	// Returns nil, nil if none has been saved.
	LoadCollection(ctx context.Context) (*core.Collection, error)
}
