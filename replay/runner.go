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


package replay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/corpus"
	"github.com/poiesic/latif/observe"
	"github.com/poiesic/latif/recommend"
)

// Replay statuses recorded in metrics.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
	StatusError  = "error"
)

const releaseTimeout = 5 * time.Second

// StepResult is the outcome of one transcript step.
type StepResult struct {
	Index           int
	Transcript      string
	Recommendations []core.Recommendation
	Failures        []string
}

// Result is the outcome of one script.
type Result struct {
	Script   string
	Steps    []StepResult
	Accuracy core.AccuracyMetrics
	Err      error
}

// Failures returns every failed expectation in step order.
func (r *Result) Failures() []string {
	var out []string
	for _, s := range r.Steps {
		out = append(out, s.Failures...)
	}
	return out
}

// Passed reports whether the script ran and met every expectation.
func (r *Result) Passed() bool {
	return r.Err == nil && len(r.Failures()) == 0
}

func (r *Result) status() string {
	switch {
	case r.Err != nil:
		return StatusError
	case len(r.Failures()) > 0:
		return StatusFailed
	}
	return StatusPassed
}

// Runner replays scripts against fresh engine sessions.
type Runner struct {
	corpus     *corpus.Corpus
	pool       *ants.Pool
	engineOpts []recommend.Option
	metrics    *observe.Metrics
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets the number of scripts replayed concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if r.pool != nil {
			r.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithEngineOptions sets options applied to every session engine.
func WithEngineOptions(opts ...recommend.Option) Option {
	return func(r *Runner) error {
		r.engineOpts = append(r.engineOpts, opts...)
		return nil
	}
}

// WithProgress writes a progress line to w while scripts run.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) error {
		r.progress = w
		return nil
	}
}

// WithMetrics sets the metric instruments.
// Default is observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Runner) error {
		if m != nil {
			r.metrics = m
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a runner over c.
func NewRunner(c *corpus.Corpus, opts ...Option) (*Runner, error) {
	if c == nil {
		return nil, ErrCorpusRequired
	}

	// Default pool size
	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		corpus: c,
		pool:   pool,
		logger: slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	if r.metrics == nil {
		r.metrics = observe.DefaultMetrics()
	}

	return r, nil
}

// Run replays every script and returns one result per script, in input
// order. A script that cannot run reports its error in Result.Err; Run
// itself fails only when work cannot be scheduled.
func (r *Runner) Run(ctx context.Context, scripts []*Script) ([]Result, error) {
	results := make([]Result, len(scripts))

	var tracker *ProgressTracker
	if r.progress != nil {
		tracker = NewProgressTracker(r.progress, len(scripts), 1)
		tracker.Start()
		defer tracker.Finish()
	}

	var wg sync.WaitGroup
	for i, script := range scripts {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			results[i] = r.runScript(ctx, script)
			r.metrics.RecordReplay(ctx, results[i].status())
			if tracker != nil {
				tracker.Increment(1)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("replay: submit %q: %w", script.Name, err)
		}
	}
	wg.Wait()

	return results, nil
}

func (r *Runner) runScript(ctx context.Context, script *Script) Result {
	result := Result{Script: script.Name}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	opts := slices.Clone(r.engineOpts)
	if script.Seed != nil {
		opts = append(opts, recommend.WithSeed(*script.Seed))
	}
	opts = append(opts, recommend.WithMetrics(r.metrics))
	engine, err := recommend.NewEngine(r.corpus, opts...)
	if err != nil {
		result.Err = err
		return result
	}

	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}
		if step.Feedback != nil {
			engine.RecordFeedback(ctx, step.Feedback.Verse, step.Feedback.Relevant)
			continue
		}
		recs := engine.Recommend(ctx, step.Transcript)
		result.Steps = append(result.Steps, StepResult{
			Index:           i,
			Transcript:      step.Transcript,
			Recommendations: recs,
			Failures:        check(i, step.Expect, recs),
		})
	}
	result.Accuracy = engine.Accuracy()

	r.logger.Debug("replayed script", "script", script.Name, "status", result.status())
	return result
}

// check compares recommendations against an expectation.
func check(index int, want *Expectation, recs []core.Recommendation) []string {
	if want == nil {
		return nil
	}
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf("steps[%d]: ", index)+fmt.Sprintf(format, args...))
	}

	ids := make([]int, len(recs))
	for i, rec := range recs {
		ids[i] = rec.Verse.ID
	}

	if want.Top != 0 {
		if len(ids) == 0 {
			fail("top verse: want %d, got no results", want.Top)
		} else if ids[0] != want.Top {
			fail("top verse: want %d, got %d", want.Top, ids[0])
		}
	}
	for _, id := range want.Contains {
		if !slices.Contains(ids, id) {
			fail("verse %d missing from %v", id, ids)
		}
	}
	for _, id := range want.Excludes {
		if slices.Contains(ids, id) {
			fail("verse %d unexpectedly in %v", id, ids)
		}
	}
	if want.Theme != "" {
		if len(recs) == 0 || !slices.Contains(recs[0].MatchedThemes, string(want.Theme)) {
			fail("theme %s not detected", want.Theme)
		}
	}
	if want.Fallback != nil {
		got := len(recs) > 0 && recs[0].Fallback
		if got != *want.Fallback {
			fail("fallback: want %t, got %t", *want.Fallback, got)
		}
	}
	return failures
}

// Release waits for running scripts and releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool == nil {
		return
	}
	if err := r.pool.ReleaseTimeout(releaseTimeout); err != nil {
		r.logger.Warn("replay workers did not stop in time", "err", err)
	}
}
