package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/corpus"
	"github.com/poiesic/latif/observe"
	"github.com/poiesic/latif/sindhi"
)

// Fields reported to SearchMonitor.Matched.
const (
	FieldText        = "text"
	FieldTheme       = "theme"
	FieldSur         = "sur"
	FieldTranslation = "translation"
)

// Filter narrows a search. Zero fields match everything.
type Filter struct {
	Query   string
	Theme   core.Theme
	Emotion core.Emotion
}

// Searcher filters a verse corpus. It holds no mutable state and is safe
// for concurrent use.
type Searcher struct {
	corpus  *corpus.Corpus
	metrics *observe.Metrics
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metric instruments.
// Default is observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Searcher) error {
		if m != nil {
			s.metrics = m
		}
		return nil
	}
}

// NewSearcher creates a new searcher over c.
func NewSearcher(c *corpus.Corpus, opts ...Option) (*Searcher, error) {
	if c == nil {
		return nil, ErrCorpusRequired
	}

	s := &Searcher{
		corpus: c,
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}

	return s, nil
}

// Search returns the verses matching query in corpus order. An empty or
// whitespace-only query returns the whole corpus.
func (s *Searcher) Search(query string) []core.Verse {
	return s.FindWithMonitor(Filter{Query: query}, nil)
}

// Find returns the verses matching every non-zero field of f.
func (s *Searcher) Find(f Filter) []core.Verse {
	return s.FindWithMonitor(f, nil)
}

// FindWithMonitor is like Find and reports each match to monitor.
func (s *Searcher) FindWithMonitor(f Filter, monitor SearchMonitor) []core.Verse {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(f)
	s.metrics.SearchQueries.Add(context.Background(), 1)

	query := strings.TrimSpace(f.Query)
	normalized := sindhi.Normalize(query)
	lowered := strings.ToLower(query)

	results := []core.Verse{}
	for _, entry := range s.corpus.All() {
		v := entry.Verse
		if f.Theme != "" && v.Theme != f.Theme {
			continue
		}
		if f.Emotion != "" && v.Emotion != f.Emotion {
			continue
		}
		if query != "" {
			field, ok := matchField(entry, normalized, lowered)
			if !ok {
				continue
			}
			monitor.Matched(v, field)
		}
		results = append(results, v)
	}

	s.logger.Debug("searched verses", "query", query, "theme", f.Theme, "emotion", f.Emotion, "results", len(results))
	monitor.Finish(results)
	return results
}

// matchField returns the first field of entry containing the query.
func matchField(entry corpus.Entry, normalized, lowered string) (string, bool) {
	v := entry.Verse
	switch {
	case normalized != "" && strings.Contains(entry.Normalized, normalized):
		return FieldText, true
	case strings.Contains(strings.ToLower(string(v.Theme)), lowered):
		return FieldTheme, true
	case strings.Contains(strings.ToLower(v.Sur), lowered):
		return FieldSur, true
	case strings.Contains(strings.ToLower(v.Translation), lowered):
		return FieldTranslation, true
	}
	return "", false
}

// Verse looks up a verse by id.
func (s *Searcher) Verse(id int) (core.Verse, bool) {
	return s.corpus.Verse(id)
}

// Themes returns the distinct themes present in the corpus, in order of
// first appearance.
func (s *Searcher) Themes() []core.Theme {
	return distinct(s.corpus, func(v core.Verse) core.Theme { return v.Theme })
}

// Emotions returns the distinct emotions present in the corpus, in order
// of first appearance.
func (s *Searcher) Emotions() []core.Emotion {
	return distinct(s.corpus, func(v core.Verse) core.Emotion { return v.Emotion })
}

func distinct[T comparable](c *corpus.Corpus, key func(core.Verse) T) []T {
	seen := make(map[T]struct{})
	out := []T{}
	for _, e := range c.All() {
		k := key(e.Verse)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
