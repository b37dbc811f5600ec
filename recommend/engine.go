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


package recommend

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/latif/classify"
	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/corpus"
	"github.com/poiesic/latif/observe"
	"github.com/poiesic/latif/session"
	"github.com/poiesic/latif/sindhi"
)

// MaxResults is the most verses a recommend call returns.
const MaxResults = 3

const (
	fallbackBase = 0.40
	fallbackStep = 0.05

	// minTokenRunes excludes particles from keyword and context overlap.
	minTokenRunes = 2
)

// Corrector rewrites a transcript before analysis.
type Corrector interface {
	Correct(transcript string) string
}

// Engine recommends verses for one session.
type Engine struct {
	mu sync.Mutex

	corpus    *corpus.Corpus
	analyzer  *classify.Analyzer
	corrector Corrector
	weights   Weights
	threshold float64
	rng       *rand.Rand
	metrics   *observe.Metrics
	logger    *slog.Logger

	contextCapacity int
	propagate       bool

	window   *session.Window
	feedback *session.Feedback
	usage    *session.Usage

	// accuracy bookkeeping
	scoreSum    float64
	scoreCount  int
	themeHitFor map[int]bool
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithWeights replaces the default scoring weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) error {
		if err := w.Validate(); err != nil {
			return err
		}
		e.weights = w
		return nil
	}
}

// WithFallbackThreshold sets the match evidence a verse must exceed for
// the scored path to be used. Default is 0.
func WithFallbackThreshold(threshold float64) Option {
	return func(e *Engine) error {
		e.threshold = max(threshold, 0)
		return nil
	}
}

// WithRand sets the random source used by the fallback path.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) error {
		if rng != nil {
			e.rng = rng
		}
		return nil
	}
}

// WithSeed seeds the fallback random source for reproducible sessions.
func WithSeed(seed uint64) Option {
	return func(e *Engine) error {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return nil
	}
}

// WithContextCapacity sets how many recent transcripts feed the context
// signal. Default is session.DefaultCapacity.
func WithContextCapacity(n int) Option {
	return func(e *Engine) error {
		e.contextCapacity = n
		return nil
	}
}

// WithPropagation controls whether positive feedback is extended to verses
// sharing theme and emotion. Enabled by default.
func WithPropagation(enabled bool) Option {
	return func(e *Engine) error {
		e.propagate = enabled
		return nil
	}
}

// WithAnalyzer replaces the default classifier.
func WithAnalyzer(a *classify.Analyzer) Option {
	return func(e *Engine) error {
		if a == nil {
			return ErrAnalyzerRequired
		}
		e.analyzer = a
		return nil
	}
}

// WithCorrector sets a transcript corrector applied before analysis.
func WithCorrector(c Corrector) Option {
	return func(e *Engine) error {
		e.corrector = c
		return nil
	}
}

// WithMetrics sets the metric instruments.
// Default is observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) error {
		if m != nil {
			e.metrics = m
		}
		return nil
	}
}

// NewEngine creates an engine over a validated corpus.
func NewEngine(c *corpus.Corpus, opts ...Option) (*Engine, error) {
	if c == nil {
		return nil, ErrCorpusRequired
	}

	e := &Engine{
		corpus:          c,
		analyzer:        classify.Default(),
		weights:         DefaultWeights(),
		rng:             rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:          slog.Default(),
		contextCapacity: session.DefaultCapacity,
		propagate:       true,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}

	e.window = session.NewWindow(e.contextCapacity)
	e.feedback = session.NewFeedback(c, e.propagate)
	e.usage = session.NewUsage()
	e.themeHitFor = make(map[int]bool)
	e.logger = e.logger.With("component", "recommend")

	return e, nil
}

// Corpus returns the corpus the engine reads from.
func (e *Engine) Corpus() *corpus.Corpus {
	return e.corpus
}

// Analyze classifies a transcript without touching session state.
func (e *Engine) Analyze(transcript string) core.SemanticAnalysis {
	return e.analyzer.Analyze(transcript)
}

// Recommend returns up to MaxResults verses for a transcript, best first.
// It never fails; an empty corpus yields an empty slice.
func (e *Engine) Recommend(ctx context.Context, transcript string) []core.Recommendation {
	return e.RecommendWithMonitor(ctx, transcript, nil)
}

// signals is the per-call input shared by every verse score.
type signals struct {
	themes           map[core.Theme]float64
	emotions         map[core.Emotion]float64
	transcriptTokens []string
	contextTokens    []string
}

type candidate struct {
	index     int
	breakdown core.ScoreBreakdown
	score     float64
}

// RecommendWithMonitor is like Recommend and reports each stage to monitor.
func (e *Engine) RecommendWithMonitor(ctx context.Context, transcript string, monitor Monitor) []core.Recommendation {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	started := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	monitor.Start(transcript)

	if e.corrector != nil {
		transcript = e.corrector.Correct(transcript)
	}
	e.window.Push(transcript)

	analysis := e.analyzer.Analyze(transcript)
	monitor.AfterAnalysis(analysis)

	results := []core.Recommendation{}
	path := observe.PathScored
	if e.corpus.Len() > 0 {
		sig := e.collectSignals(transcript, analysis)
		candidates, qualified := e.scoreAll(sig, monitor)
		if qualified {
			results = e.rank(candidates, analysis)
		} else {
			path = observe.PathFallback
			monitor.FallbackTriggered(analysis.Summary.Theme)
			results = e.fallback(analysis)
		}
	}

	for _, r := range results {
		e.usage.Increment(r.Verse.ID)
		e.scoreSum += r.RelevanceScore
		e.scoreCount++
		e.themeHitFor[r.Verse.ID] = slices.Contains(r.MatchedThemes, string(r.Verse.Theme))
	}

	e.metrics.RecordRecommendation(ctx, path, time.Since(started))
	e.logger.Debug("recommended verses",
		"path", path,
		"theme", analysis.Summary.Theme,
		"emotion", analysis.Summary.Emotion,
		"results", len(results))

	monitor.Finish(results)
	return results
}

func (e *Engine) collectSignals(transcript string, analysis core.SemanticAnalysis) signals {
	sig := signals{
		themes:           make(map[core.Theme]float64, len(analysis.Themes)),
		emotions:         make(map[core.Emotion]float64, len(analysis.Emotions)),
		transcriptTokens: sindhi.TokensLongerThan(sindhi.Normalize(transcript), minTokenRunes),
		contextTokens:    sindhi.TokensLongerThan(sindhi.Normalize(e.window.Joined()), minTokenRunes),
	}
	for _, t := range analysis.Themes {
		sig.themes[t.Theme] = t.Confidence
	}
	for _, em := range analysis.Emotions {
		sig.emotions[em.Emotion] = em.Intensity
	}
	return sig
}

// scoreAll scores every verse and reports whether any verse shows match
// evidence above the fallback threshold.
func (e *Engine) scoreAll(sig signals, monitor Monitor) ([]candidate, bool) {
	candidates := make([]candidate, 0, e.corpus.Len())
	qualified := false
	for i, entry := range e.corpus.All() {
		b := e.score(entry, sig)
		monitor.VerseScored(entry.Verse, b)
		if b.Evidence() > e.threshold {
			qualified = true
		}
		candidates = append(candidates, candidate{
			index:     i,
			breakdown: b,
			score:     clamp01(b.Total()),
		})
	}
	return candidates, qualified
}

func (e *Engine) score(entry corpus.Entry, sig signals) core.ScoreBreakdown {
	w := e.weights
	v := entry.Verse

	var b core.ScoreBreakdown
	if conf, ok := sig.themes[v.Theme]; ok {
		b.ThemeMatch = w.Theme * conf
	}
	if intensity, ok := sig.emotions[v.Emotion]; ok {
		b.EmotionMatch = w.Emotion * intensity / 2
	}
	b.KeywordMatch = w.Keyword * overlap(sig.transcriptTokens, entry.Normalized)
	b.ContextMatch = w.Context * overlap(sig.contextTokens, entry.Normalized)

	if relevant, ok := e.feedback.Verdict(v.ID); ok {
		if relevant {
			b.UserFeedback = w.Positive
		} else {
			b.UserFeedback = w.Negative
		}
	}
	b.Novelty = math.Max(0, w.Novelty-w.NoveltyDecay*float64(e.usage.Count(v.ID)))
	return b
}

// overlap returns the fraction of tokens found as substrings of text.
func overlap(tokens []string, text string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

func (e *Engine) rank(candidates []candidate, analysis core.SemanticAnalysis) []core.Recommendation {
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(b.score, a.score)
	})
	n := min(MaxResults, len(candidates))

	matched := matchedThemes(analysis)
	results := make([]core.Recommendation, 0, n)
	for _, c := range candidates[:n] {
		results = append(results, core.Recommendation{
			Verse:          e.corpus.At(c.index).Verse,
			RelevanceScore: c.score,
			MatchedThemes:  matched,
			EmotionMatch:   string(analysis.TopEmotion()),
			Breakdown:      c.breakdown,
		})
	}
	return results
}

// fallback samples verses at random, drawing from the detected theme first
// and topping up from the rest of the corpus.
func (e *Engine) fallback(analysis core.SemanticAnalysis) []core.Recommendation {
	theme := analysis.Summary.Theme
	preferred := e.corpus.IndicesByTheme(theme)
	inPreferred := make(map[int]bool, len(preferred))
	for _, i := range preferred {
		inPreferred[i] = true
	}
	rest := make([]int, 0, e.corpus.Len()-len(preferred))
	for i := 0; i < e.corpus.Len(); i++ {
		if !inPreferred[i] {
			rest = append(rest, i)
		}
	}
	e.shuffle(preferred)
	e.shuffle(rest)

	order := append(preferred, rest...)
	n := min(MaxResults, len(order))
	results := make([]core.Recommendation, 0, n)
	for rank, idx := range order[:n] {
		results = append(results, core.Recommendation{
			Verse:          e.corpus.At(idx).Verse,
			RelevanceScore: fallbackBase - fallbackStep*float64(rank),
			MatchedThemes:  []string{string(theme)},
			EmotionMatch:   string(analysis.Summary.Emotion),
			Fallback:       true,
		})
	}
	return results
}

func (e *Engine) shuffle(s []int) {
	e.rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

func matchedThemes(analysis core.SemanticAnalysis) []string {
	names := make([]string, 0, len(analysis.Themes))
	for _, t := range analysis.Themes {
		names = append(names, string(t.Theme))
	}
	return names
}

// RecordFeedback stores the user's verdict on a verse. It affects only
// later Recommend calls. Unknown verse ids are accepted.
func (e *Engine) RecordFeedback(ctx context.Context, verseID int, relevant bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.feedback.Record(verseID, relevant)
	e.metrics.RecordFeedback(ctx, relevant)
	e.logger.Debug("recorded feedback", "verse", verseID, "relevant", relevant)
}

// Accuracy summarizes the explicit feedback collected so far.
//
// PositiveRatio is the share of explicit verdicts that were positive.
// AverageScore is the mean relevance score of every returned verse.
// ThemeAccuracy is the share of rated, previously shown verses where the
// verdict agreed with whether the verse's theme had been detected.
func (e *Engine) Accuracy() core.AccuracyMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()

	var m core.AccuracyMetrics
	positive, rated, agreed := 0, 0, 0
	e.feedback.Explicit(func(id int, relevant bool) {
		m.TotalFeedback++
		if relevant {
			positive++
		}
		hit, shown := e.themeHitFor[id]
		if !shown {
			return
		}
		rated++
		if hit == relevant {
			agreed++
		}
	})
	if m.TotalFeedback > 0 {
		m.PositiveRatio = float64(positive) / float64(m.TotalFeedback)
	}
	if e.scoreCount > 0 {
		m.AverageScore = e.scoreSum / float64(e.scoreCount)
	}
	if rated > 0 {
		m.ThemeAccuracy = float64(agreed) / float64(rated)
	}
	return m
}

// Context returns the transcripts in the session window, oldest first.
func (e *Engine) Context() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window.Items()
}

// Reset clears the session window, feedback and usage counts.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.window.Reset()
	e.feedback.Reset()
	e.usage.Reset()
	e.scoreSum = 0
	e.scoreCount = 0
	clear(e.themeHitFor)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
