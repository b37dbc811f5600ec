package server

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/poiesic/latif/observe"
	"github.com/poiesic/latif/recommend"
)

// sessionStore maps session ids to their engines.
type sessionStore struct {
	mu      sync.Mutex
	engines map[string]*recommend.Engine
	limit   int
	metrics *observe.Metrics
	create  func() (*recommend.Engine, error)
}

func newSessionStore(limit int, metrics *observe.Metrics, create func() (*recommend.Engine, error)) *sessionStore {
	return &sessionStore{
		engines: make(map[string]*recommend.Engine),
		limit:   limit,
		metrics: metrics,
		create:  create,
	}
}

// open creates a session. A limit of zero means unbounded.
func (s *sessionStore) open(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit > 0 && len(s.engines) >= s.limit {
		return "", ErrTooManySessions
	}
	engine, err := s.create()
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.engines[id] = engine
	s.metrics.SessionOpened(ctx)
	return id, nil
}

func (s *sessionStore) get(id string) (*recommend.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, ok := s.engines[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return engine, nil
}

func (s *sessionStore) close(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.engines[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.engines, id)
	s.metrics.SessionClosed(ctx)
	return nil
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.engines)
}

// closeAll drops every session.
func (s *sessionStore) closeAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.engines {
		delete(s.engines, id)
		s.metrics.SessionClosed(ctx)
	}
}
