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


// Package storage provides the storage abstraction layer for the verse library.
//
// This package defines repository interfaces that decouple storage implementation
// from business logic. The recommendation engine never reads storage directly:
// callers load verses from a VerseRepository and build a corpus from them.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the repository interfaces:
//
//	repo, err := badger.NewVerseRepository(backend)  // returns storage.VerseRepository
//
// Internal helpers may return concrete types since they're only used within
// the implementation package.
//
// # Architecture
//
//   - Repository: transaction support and lifecycle shared by all repositories
//   - VerseRepository: verses keyed by id, with a text fingerprint index
//   - CollectionRepository: metadata about the imported collection
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer func() { repo.Close(); backend.Close() }()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
