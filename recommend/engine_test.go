package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const divineTranscript = "الله واحد لا شريک"

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, rejected := corpus.Build([]core.Verse{
		{ID: 1, Text: "الله واحد لا شريک، هن جو نالو وٺي ڪري", Theme: core.ThemeDivineLove, Emotion: core.EmotionPeaceful, Sur: "Sur Kalyan"},
		{ID: 2, Text: "سڄڻ جي ياد ۾ دل اداس", Theme: core.ThemeHumanLove, Emotion: core.EmotionLonging, Sur: "Sur Sarang"},
		{ID: 3, Text: "رب جو ذڪر", Theme: core.ThemeDivineLove, Emotion: core.EmotionPeaceful, Sur: "Sur Kalyan"},
	})
	require.Empty(t, rejected)
	return c
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(testCorpus(t), append([]Option{WithSeed(1)}, opts...)...)
	require.NoError(t, err)
	return e
}

func ids(results []core.Recommendation) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Verse.ID
	}
	return out
}

func byID(results []core.Recommendation, id int) (core.Recommendation, bool) {
	for _, r := range results {
		if r.Verse.ID == id {
			return r, true
		}
	}
	return core.Recommendation{}, false
}

func TestNewEngine(t *testing.T) {
	t.Run("nil corpus", func(t *testing.T) {
		_, err := NewEngine(nil)
		assert.ErrorIs(t, err, ErrCorpusRequired)
	})

	t.Run("invalid weights", func(t *testing.T) {
		w := DefaultWeights()
		w.Theme = -1
		_, err := NewEngine(testCorpus(t), WithWeights(w))
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("nil analyzer", func(t *testing.T) {
		_, err := NewEngine(testCorpus(t), WithAnalyzer(nil))
		assert.ErrorIs(t, err, ErrAnalyzerRequired)
	})
}

func TestRecommend_ScoredPath(t *testing.T) {
	e := newTestEngine(t)
	results := e.Recommend(context.Background(), divineTranscript)

	require.Equal(t, []int{1, 3, 2}, ids(results))

	top := results[0]
	assert.False(t, top.Fallback)
	assert.Equal(t, []string{string(core.ThemeDivineLove)}, top.MatchedThemes)
	assert.Equal(t, string(core.EmotionNeutral), top.EmotionMatch)
	assert.InDelta(t, 0.30, top.Breakdown.ThemeMatch, 1e-9)
	assert.InDelta(t, 0.20, top.Breakdown.KeywordMatch, 1e-9)
	assert.InDelta(t, 0.15, top.Breakdown.ContextMatch, 1e-9)
	assert.InDelta(t, 0.05, top.Breakdown.Novelty, 1e-9)
	assert.InDelta(t, 0.70, top.RelevanceScore, 1e-9)

	assert.InDelta(t, 0.35, results[1].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.05, results[2].RelevanceScore, 1e-9)
}

func TestRecommend_NoveltyDecays(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first := e.Recommend(ctx, divineTranscript)
	second := e.Recommend(ctx, divineTranscript)

	assert.InDelta(t, 0.05, first[0].Breakdown.Novelty, 1e-9)
	assert.InDelta(t, 0.04, second[0].Breakdown.Novelty, 1e-9)
	assert.InDelta(t, 0.69, second[0].RelevanceScore, 1e-9)
}

func TestRecommend_Fallback(t *testing.T) {
	e := newTestEngine(t)
	results := e.Recommend(context.Background(), "")

	require.Len(t, results, 3)
	for i, r := range results {
		assert.True(t, r.Fallback)
		assert.InDelta(t, 0.40-0.05*float64(i), r.RelevanceScore, 1e-9)
		assert.Equal(t, []string{string(core.ThemeGeneral)}, r.MatchedThemes)
		assert.Equal(t, string(core.EmotionNeutral), r.EmotionMatch)
	}
	assert.ElementsMatch(t, []int{1, 2, 3}, ids(results))
}

func TestRecommend_FallbackPrefersDetectedTheme(t *testing.T) {
	c := testCorpus(t)
	// A threshold no verse can reach forces the fallback path.
	e, err := NewEngine(c, WithSeed(3), WithFallbackThreshold(10))
	require.NoError(t, err)

	results := e.Recommend(context.Background(), divineTranscript)
	require.Len(t, results, 3)
	assert.ElementsMatch(t, []int{1, 3}, ids(results[:2]))
	assert.Equal(t, 2, results[2].Verse.ID)
	assert.Equal(t, []string{string(core.ThemeDivineLove)}, results[0].MatchedThemes)
}

func TestRecommend_SeededFallbackIsDeterministic(t *testing.T) {
	c, _ := corpus.Build(corpus.Default().Verses)
	run := func() []int {
		e, err := NewEngine(c, WithSeed(42))
		require.NoError(t, err)
		return ids(e.Recommend(context.Background(), "hello"))
	}
	assert.Equal(t, run(), run())
}

func TestRecommend_EmptyCorpus(t *testing.T) {
	e, err := NewEngine(corpus.Empty())
	require.NoError(t, err)

	results := e.Recommend(context.Background(), divineTranscript)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRecommend_BoundedOutput(t *testing.T) {
	c, _ := corpus.Build(corpus.Default().Verses)
	e, err := NewEngine(c, WithSeed(5))
	require.NoError(t, err)

	for _, transcript := range []string{
		divineTranscript,
		"سڄڻ جي ياد ۾ دل اداس",
		"گل باغ بهار خوشي",
		"",
		"random words",
	} {
		results := e.Recommend(context.Background(), transcript)
		assert.LessOrEqual(t, len(results), MaxResults)
		assert.NotEmpty(t, results)
		for i, r := range results {
			assert.GreaterOrEqual(t, r.RelevanceScore, 0.0)
			assert.LessOrEqual(t, r.RelevanceScore, 1.0)
			if i > 0 {
				assert.GreaterOrEqual(t, results[i-1].RelevanceScore, r.RelevanceScore)
			}
		}
	}
}

func TestRecordFeedback_Monotonic(t *testing.T) {
	score := func(relevant *bool) float64 {
		e := newTestEngine(t)
		if relevant != nil {
			e.RecordFeedback(context.Background(), 1, *relevant)
		}
		r, ok := byID(e.Recommend(context.Background(), divineTranscript), 1)
		require.True(t, ok)
		return r.RelevanceScore
	}
	yes, no := true, false

	neutral := score(nil)
	assert.InDelta(t, neutral+0.10, score(&yes), 1e-9)
	assert.InDelta(t, neutral-0.20, score(&no), 1e-9)
}

func TestRecordFeedback_PropagatesToSiblings(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled", func(t *testing.T) {
		e := newTestEngine(t)
		e.RecordFeedback(ctx, 1, true)

		r, ok := byID(e.Recommend(ctx, "الله"), 3)
		require.True(t, ok)
		assert.InDelta(t, 0.10, r.Breakdown.UserFeedback, 1e-9)

		// an explicit verdict replaces the provisional one
		e.RecordFeedback(ctx, 3, false)
		r, ok = byID(e.Recommend(ctx, "الله"), 3)
		require.True(t, ok)
		assert.InDelta(t, -0.20, r.Breakdown.UserFeedback, 1e-9)
	})

	t.Run("disabled", func(t *testing.T) {
		e := newTestEngine(t, WithPropagation(false))
		e.RecordFeedback(ctx, 1, true)

		r, ok := byID(e.Recommend(ctx, "الله"), 3)
		require.True(t, ok)
		assert.Zero(t, r.Breakdown.UserFeedback)
	})

	t.Run("negative does not propagate", func(t *testing.T) {
		e := newTestEngine(t)
		e.RecordFeedback(ctx, 1, false)

		r, ok := byID(e.Recommend(ctx, "الله"), 3)
		require.True(t, ok)
		assert.Zero(t, r.Breakdown.UserFeedback)
	})
}

func TestAccuracy(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	assert.Equal(t, core.AccuracyMetrics{}, e.Accuracy())

	e.Recommend(ctx, divineTranscript)
	e.RecordFeedback(ctx, 1, true)
	e.RecordFeedback(ctx, 2, false)
	e.RecordFeedback(ctx, 99, true)

	m := e.Accuracy()
	assert.Equal(t, 3, m.TotalFeedback)
	assert.InDelta(t, 2.0/3.0, m.PositiveRatio, 1e-9)
	assert.InDelta(t, (0.70+0.35+0.05)/3, m.AverageScore, 1e-9)
	assert.InDelta(t, 1.0, m.ThemeAccuracy, 1e-9)

	// verse 3 was marked provisionally; rating it against its detected
	// theme lowers theme accuracy
	e.RecordFeedback(ctx, 3, false)
	m = e.Accuracy()
	assert.Equal(t, 4, m.TotalFeedback)
	assert.InDelta(t, 2.0/3.0, m.ThemeAccuracy, 1e-9)
}

func TestContextWindow(t *testing.T) {
	e := newTestEngine(t, WithContextCapacity(2))
	ctx := context.Background()
	for _, s := range []string{"a", "b", "c"} {
		e.Recommend(ctx, s)
	}
	assert.Equal(t, []string{"b", "c"}, e.Context())
}

func TestContextWindow_FeedsContextSignal(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.Recommend(ctx, divineTranscript)
	results := e.Recommend(ctx, "")

	require.NotEmpty(t, results)
	assert.False(t, results[0].Fallback)
	assert.Equal(t, 1, results[0].Verse.ID)
	assert.Greater(t, results[0].Breakdown.ContextMatch, 0.0)
	assert.Zero(t, results[0].Breakdown.KeywordMatch)
}

func TestReset(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.Recommend(ctx, divineTranscript)
	e.RecordFeedback(ctx, 1, true)
	e.Reset()

	assert.Empty(t, e.Context())
	assert.Equal(t, core.AccuracyMetrics{}, e.Accuracy())

	results := e.Recommend(ctx, divineTranscript)
	assert.InDelta(t, 0.70, results[0].RelevanceScore, 1e-9)
}

type fixedCorrector struct{ calls int }

func (c *fixedCorrector) Correct(string) string {
	c.calls++
	return divineTranscript
}

func TestRecommend_Corrector(t *testing.T) {
	corr := &fixedCorrector{}
	e := newTestEngine(t, WithCorrector(corr))

	results := e.Recommend(context.Background(), "garbled")
	assert.Equal(t, 1, corr.calls)
	require.NotEmpty(t, results)
	assert.Equal(t, 1, results[0].Verse.ID)
	assert.Equal(t, []string{divineTranscript}, e.Context())
}

type recordingMonitor struct {
	started  string
	scored   int
	fallback []core.Theme
	finished int
}

func (m *recordingMonitor) Start(transcript string)            { m.started = transcript }
func (m *recordingMonitor) AfterAnalysis(core.SemanticAnalysis) {}
func (m *recordingMonitor) VerseScored(core.Verse, core.ScoreBreakdown) {
	m.scored++
}
func (m *recordingMonitor) FallbackTriggered(theme core.Theme) {
	m.fallback = append(m.fallback, theme)
}
func (m *recordingMonitor) Finish(results []core.Recommendation) { m.finished = len(results) }

func TestRecommendWithMonitor(t *testing.T) {
	e := newTestEngine(t)
	mon := &recordingMonitor{}

	e.RecommendWithMonitor(context.Background(), divineTranscript, mon)
	assert.Equal(t, divineTranscript, mon.started)
	assert.Equal(t, 3, mon.scored)
	assert.Empty(t, mon.fallback)
	assert.Equal(t, 3, mon.finished)

	mon = &recordingMonitor{}
	e2 := newTestEngine(t)
	e2.RecommendWithMonitor(context.Background(), "", mon)
	assert.Equal(t, []core.Theme{core.ThemeGeneral}, mon.fallback)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				e.Recommend(ctx, divineTranscript)
				e.RecordFeedback(ctx, i%3+1, i%2 == 0)
				_ = e.Accuracy()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, e.Accuracy().TotalFeedback)
}
