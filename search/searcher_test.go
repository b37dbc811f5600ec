package search

import (
	"log/slog"
	"testing"

	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, rejected := corpus.Build([]core.Verse{
		{ID: 1, Text: "الله واحد لا شريک", Theme: core.ThemeDivineLove, Emotion: core.EmotionPeaceful, Sur: "Sur Kalyan", Translation: "God is One"},
		{ID: 2, Text: "سڄڻ جي ياد ۾ دل اداس", Theme: core.ThemeHumanLove, Emotion: core.EmotionLonging, Sur: "Sur Sarang", Translation: "The heart is sad"},
		{ID: 3, Text: "گل ۽ باغ", Theme: core.ThemeNature, Emotion: core.EmotionJoyful, Sur: "Sur Basant"},
		{ID: 4, Text: "رب جو ذڪر", Theme: core.ThemeDivineLove, Emotion: core.EmotionContemplative, Sur: "Sur Kalyan"},
	})
	require.Empty(t, rejected)
	return c
}

func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()
	s, err := NewSearcher(testCorpus(t))
	require.NoError(t, err)
	return s
}

func verseIDs(verses []core.Verse) []int {
	out := make([]int, len(verses))
	for i, v := range verses {
		out[i] = v.ID
	}
	return out
}

func TestNewSearcher(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewSearcher(testCorpus(t))
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		s, err := NewSearcher(testCorpus(t), WithLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, slog.Default(), s.logger)
	})

	t.Run("nil corpus", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrCorpusRequired, err)
	})
}

func TestSearch(t *testing.T) {
	s := newTestSearcher(t)

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "empty query returns corpus", query: "", want: []int{1, 2, 3, 4}},
		{name: "whitespace query returns corpus", query: "   ", want: []int{1, 2, 3, 4}},
		{name: "text substring", query: "اداس", want: []int{2}},
		{name: "text matches across variants", query: "شريك", want: []int{1}},
		{name: "diacritics ignored", query: "اللهُ", want: []int{1}},
		{name: "theme name case-insensitive", query: "divinelove", want: []int{1, 4}},
		{name: "sur", query: "KALYAN", want: []int{1, 4}},
		{name: "translation", query: "heart", want: []int{2}},
		{name: "no match", query: "missing", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verseIDs(s.Search(tt.query)))
		})
	}
}

func TestFind(t *testing.T) {
	s := newTestSearcher(t)

	assert.Equal(t, []int{1, 4}, verseIDs(s.Find(Filter{Theme: core.ThemeDivineLove})))
	assert.Equal(t, []int{4}, verseIDs(s.Find(Filter{Theme: core.ThemeDivineLove, Emotion: core.EmotionContemplative})))
	assert.Equal(t, []int{1}, verseIDs(s.Find(Filter{Query: "واحد", Theme: core.ThemeDivineLove})))
	assert.Empty(t, s.Find(Filter{Query: "اداس", Theme: core.ThemeNature}))
}

func TestThemesAndEmotions(t *testing.T) {
	s := newTestSearcher(t)

	assert.Equal(t, []core.Theme{core.ThemeDivineLove, core.ThemeHumanLove, core.ThemeNature}, s.Themes())
	assert.Equal(t, []core.Emotion{
		core.EmotionPeaceful, core.EmotionLonging, core.EmotionJoyful, core.EmotionContemplative,
	}, s.Emotions())

	empty, err := NewSearcher(corpus.Empty())
	require.NoError(t, err)
	assert.Empty(t, empty.Themes())
	assert.Empty(t, empty.Search(""))
}

func TestVerse(t *testing.T) {
	s := newTestSearcher(t)

	v, ok := s.Verse(3)
	require.True(t, ok)
	assert.Equal(t, "Sur Basant", v.Sur)

	_, ok = s.Verse(99)
	assert.False(t, ok)
}

type recordingMonitor struct {
	fields   map[int]string
	finished int
}

func (m *recordingMonitor) Start(Filter) {}
func (m *recordingMonitor) Matched(v core.Verse, field string) {
	m.fields[v.ID] = field
}
func (m *recordingMonitor) Finish(results []core.Verse) { m.finished = len(results) }

func TestFindWithMonitor(t *testing.T) {
	s := newTestSearcher(t)
	mon := &recordingMonitor{fields: map[int]string{}}

	s.FindWithMonitor(Filter{Query: "sur"}, mon)
	assert.Equal(t, 4, mon.finished)
	assert.Equal(t, FieldSur, mon.fields[1])

	mon = &recordingMonitor{fields: map[int]string{}}
	s.FindWithMonitor(Filter{Query: "الله"}, mon)
	assert.Equal(t, map[int]string{1: FieldText}, mon.fields)
}
