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


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/poiesic/latif/corpus"
	"github.com/poiesic/latif/observe"
	"github.com/poiesic/latif/recommend"
	"github.com/poiesic/latif/search"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxSessions bounds the number of concurrently open sessions.
const DefaultMaxSessions = 1000

// Server serves the HTTP API.
type Server struct {
	echo           *echo.Echo
	corpus         *corpus.Corpus
	searcher       *search.Searcher
	sessions       *sessionStore
	engineOpts     []recommend.Option
	allowOrigins   []string
	maxSessions    int
	metrics        *observe.Metrics
	metricsHandler http.Handler
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
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
	return func(s *Server) error {
		if m != nil {
			s.metrics = m
		}
		return nil
	}
}

// WithMetricsHandler sets the handler mounted at /metrics.
// Default is promhttp.Handler().
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) error {
		s.metricsHandler = h
		return nil
	}
}

// WithEngineOptions sets options applied to every session engine.
func WithEngineOptions(opts ...recommend.Option) Option {
	return func(s *Server) error {
		s.engineOpts = append(s.engineOpts, opts...)
		return nil
	}
}

// WithAllowOrigins sets the origins allowed by CORS.
// Default is any origin.
func WithAllowOrigins(origins ...string) Option {
	return func(s *Server) error {
		if len(origins) > 0 {
			s.allowOrigins = origins
		}
		return nil
	}
}

// WithMaxSessions sets the maximum number of open sessions. Zero means
// unbounded.
// Default is DefaultMaxSessions.
func WithMaxSessions(n int) Option {
	return func(s *Server) error {
		if n < 0 {
			return errors.New("server: max sessions must not be negative")
		}
		s.maxSessions = n
		return nil
	}
}

// New creates a server over c.
func New(c *corpus.Corpus, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, ErrCorpusRequired
	}

	s := &Server{
		corpus:       c,
		allowOrigins: []string{"*"},
		maxSessions:  DefaultMaxSessions,
		logger:       slog.Default(),
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
	if s.metricsHandler == nil {
		s.metricsHandler = promhttp.Handler()
	}
	s.logger = s.logger.With("component", "server")

	s.engineOpts = append(s.engineOpts, recommend.WithMetrics(s.metrics))
	// Surface bad engine options now rather than on the first session
	if _, err := s.newEngine(); err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(c, search.WithLogger(s.logger), search.WithMetrics(s.metrics))
	if err != nil {
		return nil, err
	}
	s.searcher = searcher
	s.sessions = newSessionStore(s.maxSessions, s.metrics, s.newEngine)

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(requestMetrics(s.metrics, s.logger))
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	s.routes()

	return s, nil
}

func (s *Server) newEngine() (*recommend.Engine, error) {
	return recommend.NewEngine(s.corpus, s.engineOpts...)
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.POST("/sessions", s.createSession)
	api.DELETE("/sessions/:id", s.deleteSession)
	api.POST("/sessions/:id/recommendations", s.recommend)
	api.POST("/sessions/:id/feedback", s.feedback)
	api.GET("/sessions/:id/accuracy", s.accuracy)

	api.GET("/verses", s.verses)
	api.GET("/verses/:id", s.verse)
	api.GET("/themes", s.themes)
	api.GET("/emotions", s.emotions)

	s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr and blocks until the server stops. It returns nil
// after a clean Shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", "addr", addr, "verses", s.corpus.Len())
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and drops
// every session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	s.sessions.closeAll(ctx)
	return err
}
