// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/sindhi"
	"github.com/poiesic/latif/storage"
)

// VerseRepository implements storage.VerseRepository for BadgerDB.
type VerseRepository struct {
	backend *Backend
}

var _ storage.VerseRepository = (*VerseRepository)(nil)

// NewVerseRepository creates a new VerseRepository.
func NewVerseRepository(backend *Backend) (storage.VerseRepository, error) {
	if backend == nil || backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &VerseRepository{
		backend: backend,
	}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *VerseRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VerseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddVerses adds new verses to storage.
func (r *VerseRepository) AddVerses(ctx context.Context, verses ...*core.Verse) ([]*core.Verse, error) {
	return r.write(verses, false)
}

// PutVerses inserts or replaces verses by id.
func (r *VerseRepository) PutVerses(ctx context.Context, verses ...*core.Verse) ([]*core.Verse, error) {
	return r.write(verses, true)
}

func (r *VerseRepository) write(verses []*core.Verse, replace bool) ([]*core.Verse, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, verse := range verses {
			if err := core.ValidateVerse(verse); err != nil {
				return err
			}
			key := makeVerseKey(verse.ID)

			old, err := readVerse(tx, key)
			if err != nil {
				return err
			}
			if old != nil && !replace {
				return fmt.Errorf("%w: verse %d", storage.ErrDuplicateKey, verse.ID)
			}

			// Check the text index
			fpKey := makeFingerprintKey(fingerprint(verse.Text))
			owner, err := readIndexedID(tx, fpKey)
			if err != nil {
				return err
			}
			if owner != 0 && owner != verse.ID {
				return fmt.Errorf("%w: verse %d has the same text as verse %d", storage.ErrDuplicateKey, verse.ID, owner)
			}

			// Drop the old index entry if the text changed
			if old != nil {
				oldKey := makeFingerprintKey(fingerprint(old.Text))
				if string(oldKey) != string(fpKey) {
					if err := tx.Delete(oldKey); err != nil {
						return err
					}
				}
			}

			if err := tx.Set(key, storage.MarshalVerse(verse)); err != nil {
				return err
			}
			if err := tx.Set(fpKey, storage.MarshalID(verse.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return verses, nil
}

// DeleteVerses removes verses by their ids.
func (r *VerseRepository) DeleteVerses(ctx context.Context, ids ...int) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeVerseKey(id)

			// Read verse to find its index entry
			verse, err := readVerse(tx, key)
			if err != nil {
				return err
			}
			if verse == nil {
				return fmt.Errorf("%w: verse %d", storage.ErrNotFound, id)
			}

			if err := tx.Delete(makeFingerprintKey(fingerprint(verse.Text))); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVerse retrieves a single verse by id.
func (r *VerseRepository) GetVerse(ctx context.Context, id int) (*core.Verse, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var result *core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readVerse(tx, makeVerseKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetVerses retrieves multiple verses by their ids.
func (r *VerseRepository) GetVerses(ctx context.Context, ids ...int) ([]*core.Verse, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var result []*core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			verse, err := readVerse(tx, makeVerseKey(id))
			if err != nil {
				return err
			}
			if verse != nil {
				result = append(result, verse)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindVerseByText finds the verse whose normalized text matches text.
func (r *VerseRepository) FindVerseByText(ctx context.Context, text string) (*core.Verse, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var result *core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := readIndexedID(tx, makeFingerprintKey(fingerprint(text)))
		if err != nil {
			return err
		}
		if id == 0 {
			return storage.ErrNotFound
		}
		result, err = readVerse(tx, makeVerseKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListVerses returns every verse ordered by id.
func (r *VerseRepository) ListVerses(ctx context.Context) ([]*core.Verse, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var results []*core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(versePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var verse *core.Verse
			err := iter.Item().Value(func(val []byte) error {
				var err error
				verse, err = storage.UnmarshalVerse(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, verse)
		}
		return nil
	}, false)
	return results, err
}

// CountVerses returns the number of stored verses.
func (r *VerseRepository) CountVerses(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(versePrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Helper methods

// fingerprint hashes the normalized form of text.
func fingerprint(text string) core.Fingerprint {
	return core.FingerprintText(sindhi.Normalize(text))
}

// readVerse reads a verse from the transaction.
func readVerse(tx *badger.Txn, key []byte) (*core.Verse, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var verse *core.Verse
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		verse, unmarshalErr = storage.UnmarshalVerse(val)
		return unmarshalErr
	})
	return verse, err
}

// readIndexedID reads the verse id stored under an index key.
// Returns 0 if the key is absent.
func readIndexedID(tx *badger.Txn, key []byte) (int, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}
