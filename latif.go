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


// Package latif ties the verse library, the recommendation engine and its
// front ends together.
//
// A Library is opened from a config.Config. When a storage path is set the
// verses come from a badger verse store, otherwise (or while the store is
// still empty) from the embedded sample collection.
package latif

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/latif/classify"
	"github.com/poiesic/latif/config"
	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/corpus"
	"github.com/poiesic/latif/observe"
	"github.com/poiesic/latif/recommend"
	"github.com/poiesic/latif/replay"
	"github.com/poiesic/latif/search"
	"github.com/poiesic/latif/server"
	"github.com/poiesic/latif/storage"
	"github.com/poiesic/latif/storage/badger"
	"github.com/poiesic/latif/transcript"
)

// ErrNoStorage is returned by operations that need a verse store when the
// library runs on the embedded collection.
var ErrNoStorage = errors.New("latif: no verse store configured")

type Library struct {
	mu sync.RWMutex

	backend        *badger.Backend
	verseRepo      storage.VerseRepository
	collectionRepo storage.CollectionRepository

	corpus     *corpus.Corpus
	collection core.Collection
	embedded   bool

	cfg     *config.Config
	metrics *observe.Metrics
	logger  *slog.Logger
}

// Option configures a Library.
type Option func(*libraryOptions)

type libraryOptions struct {
	config   *config.Config
	metrics  *observe.Metrics
	logger   *slog.Logger
	inMemory bool
}

// WithConfig sets the configuration. Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) Option {
	return func(o *libraryOptions) {
		o.config = cfg
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *libraryOptions) {
		o.logger = logger
	}
}

// WithMetrics sets the metric instruments shared by every component.
// Default is observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(o *libraryOptions) {
		o.metrics = m
	}
}

// WithInMemoryStore backs the library with an in-memory verse store
// instead of the configured path.
func WithInMemoryStore() Option {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// Open opens a library.
func Open(ctx context.Context, opts ...Option) (*Library, error) {
	// Apply options
	options := &libraryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.config == nil {
		options.config = config.DefaultConfig()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.metrics == nil {
		options.metrics = observe.DefaultMetrics()
	}

	lib := &Library{
		cfg:     options.config,
		metrics: options.metrics,
		logger:  options.logger,
	}

	path := lib.cfg.Storage.Path
	if path == "" && !options.inMemory {
		lib.useEmbedded()
		return lib, nil
	}

	// Open backend
	backend, err := badger.OpenBackendWithLogger(path, options.inMemory, lib.logger)
	if err != nil {
		return nil, err
	}

	// Create verse repository
	verseRepo, err := badger.NewVerseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	lib.backend = backend
	lib.verseRepo = verseRepo
	lib.collectionRepo = badger.NewCollectionRepository(backend)

	if err := lib.reload(ctx); err != nil {
		lib.Close()
		return nil, err
	}
	return lib, nil
}

// useEmbedded switches to the embedded sample collection.
func (l *Library) useEmbedded() {
	cf := corpus.Default()
	l.corpus = l.build(cf.Verses)
	l.collection = core.Collection{
		Name:        cf.Collection.Name,
		Description: cf.Collection.Description,
		VerseCount:  l.corpus.Len(),
	}
	l.embedded = true
}

func (l *Library) build(verses []core.Verse) *corpus.Corpus {
	c, rejected := corpus.Build(verses)
	for _, r := range rejected {
		l.logger.Warn("skipping invalid verse", "record", r.Index, "id", r.ID, "err", r.Err)
	}
	return c
}

// reload rebuilds the corpus from the verse store.
func (l *Library) reload(ctx context.Context) error {
	stored, err := l.verseRepo.ListVerses(ctx)
	if err != nil {
		return fmt.Errorf("latif: load verses: %w", err)
	}
	meta, err := l.collectionRepo.LoadCollection(ctx)
	if err != nil {
		return fmt.Errorf("latif: load collection: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(stored) == 0 {
		l.logger.Info("verse store is empty, using the embedded collection")
		l.useEmbedded()
		return nil
	}

	verses := make([]core.Verse, len(stored))
	for i, v := range stored {
		verses[i] = *v
	}
	l.corpus = l.build(verses)
	l.embedded = false
	l.collection = core.Collection{VerseCount: l.corpus.Len()}
	if meta != nil {
		l.collection = *meta
		l.collection.VerseCount = l.corpus.Len()
	}
	l.logger.Debug("loaded verse library", "verses", l.corpus.Len(), "collection", l.collection.Name)
	return nil
}

// Close releases the verse store.
func (l *Library) Close() error {
	if l.backend == nil {
		return nil
	}
	if err := l.verseRepo.Close(); err != nil {
		l.logger.Error("error closing verse repository", "err", err)
		return err
	}

	// Close backend
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Corpus returns the current verse corpus.
func (l *Library) Corpus() *corpus.Corpus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.corpus
}

// Collection describes the current verse collection.
func (l *Library) Collection() core.Collection {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collection
}

// Embedded reports whether the library is serving the embedded sample
// collection.
func (l *Library) Embedded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.embedded
}

func (l *Library) VerseRepository() storage.VerseRepository {
	return l.verseRepo
}

// ImportResult summarizes an Import.
type ImportResult struct {
	Imported int
	Rejected []corpus.Rejection
}

// Import validates a collection file and writes its verses to the store.
// Invalid records are skipped and reported. With replace set, verses with
// an existing id are overwritten; otherwise an existing id fails the whole
// import.
func (l *Library) Import(ctx context.Context, cf *corpus.File, replace bool) (*ImportResult, error) {
	if l.verseRepo == nil {
		return nil, ErrNoStorage
	}

	valid, rejected := corpus.Build(cf.Verses)
	verses := valid.Verses()
	ptrs := make([]*core.Verse, len(verses))
	for i := range verses {
		ptrs[i] = &verses[i]
	}

	write := l.verseRepo.AddVerses
	if replace {
		write = l.verseRepo.PutVerses
	}
	if _, err := write(ctx, ptrs...); err != nil {
		return nil, fmt.Errorf("latif: import %q: %w", cf.Collection.Name, err)
	}

	count, err := l.verseRepo.CountVerses(ctx)
	if err != nil {
		return nil, err
	}
	err = l.collectionRepo.SaveCollection(ctx, &core.Collection{
		Name:        cf.Collection.Name,
		Description: cf.Collection.Description,
		VerseCount:  count,
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("imported verses", "collection", cf.Collection.Name, "imported", len(ptrs), "rejected", len(rejected))
	if err := l.reload(ctx); err != nil {
		return nil, err
	}
	return &ImportResult{Imported: len(ptrs), Rejected: rejected}, nil
}

// EngineOptions returns the engine options derived from the configuration.
func (l *Library) EngineOptions() []recommend.Option {
	ec := l.cfg.Engine
	opts := []recommend.Option{
		recommend.WithWeights(ec.Weights.Weights()),
		recommend.WithFallbackThreshold(ec.FallbackThreshold),
		recommend.WithContextCapacity(ec.ContextCapacity),
		recommend.WithPropagation(ec.Propagation),
		recommend.WithMetrics(l.metrics),
		recommend.WithLogger(l.logger),
	}
	if ec.Seed != nil {
		opts = append(opts, recommend.WithSeed(*ec.Seed))
	}
	if cc := l.cfg.Corrector; cc.Enabled {
		corrector := transcript.New(classify.Default().Vocabulary(),
			transcript.WithThreshold(cc.Threshold),
			transcript.WithMinLength(cc.MinLength),
			transcript.WithLogger(l.logger),
		)
		opts = append(opts, recommend.WithCorrector(corrector))
	}
	return opts
}

// NewSession creates a recommendation engine with its own session state.
func (l *Library) NewSession(opts ...recommend.Option) (*recommend.Engine, error) {
	return recommend.NewEngine(l.Corpus(), append(l.EngineOptions(), opts...)...)
}

func (l *Library) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{search.WithLogger(l.logger), search.WithMetrics(l.metrics)}
	return search.NewSearcher(l.Corpus(), append(base, opts...)...)
}

// NewReplayRunner creates a replay runner. Call Release on the runner when
// done.
func (l *Library) NewReplayRunner(opts ...replay.Option) (*replay.Runner, error) {
	base := []replay.Option{
		replay.WithPoolSize(l.cfg.Replay.Workers),
		replay.WithEngineOptions(l.EngineOptions()...),
		replay.WithMetrics(l.metrics),
		replay.WithLogger(l.logger),
	}
	return replay.NewRunner(l.Corpus(), append(base, opts...)...)
}

func (l *Library) NewServer(opts ...server.Option) (*server.Server, error) {
	sc := l.cfg.Server
	base := []server.Option{
		server.WithEngineOptions(l.EngineOptions()...),
		server.WithAllowOrigins(sc.AllowOrigins...),
		server.WithMaxSessions(sc.MaxSessions),
		server.WithMetrics(l.metrics),
		server.WithLogger(l.logger),
	}
	return server.New(l.Corpus(), append(base, opts...)...)
}
