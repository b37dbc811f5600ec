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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/storage"
)

// CollectionRepository implements storage.CollectionRepository for BadgerDB.
type CollectionRepository struct {
	backend *Backend
}

var _ storage.CollectionRepository = (*CollectionRepository)(nil)

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(backend *Backend) *CollectionRepository {
	return &CollectionRepository{
		backend: backend,
	}
}

// SaveCollection persists the collection metadata.
// ImportedAt is set to the current time if zero.
func (r *CollectionRepository) SaveCollection(ctx context.Context, collection *core.Collection) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if collection.ImportedAt.IsZero() {
			collection.ImportedAt = time.Now().UTC()
		}
		value := storage.MarshalCollection(collection)
		if err := tx.Set([]byte(collectionKey), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadCollection retrieves the collection metadata.
// Returns nil, nil if none has been saved.
func (r *CollectionRepository) LoadCollection(ctx context.Context) (*core.Collection, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var collection *core.Collection
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(collectionKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			collection, unmarshalErr = storage.UnmarshalCollection(val)
			return unmarshalErr
		})
	}, false)

	return collection, err
}
