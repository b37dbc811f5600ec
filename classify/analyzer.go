package classify

import (
	"math"
	"sync"

	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/sindhi"
)

const (
	// saturation is the raw score that maps to full theme confidence.
	saturation = 5.0

	maxConfidence = 1.0
	maxIntensity  = 2.0
)

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithStopWordRemoval controls whether stop words are dropped before
// pattern matching. Enabled by default.
func WithStopWordRemoval(enabled bool) Option {
	return func(a *Analyzer) error {
		a.removeStopWords = enabled
		return nil
	}
}

// WithThemeTable replaces the built-in theme table.
func WithThemeTable(table Table[core.Theme]) Option {
	return func(a *Analyzer) error {
		m, err := Compile(table)
		if err != nil {
			return err
		}
		a.themes = m
		return nil
	}
}

// WithEmotionTable replaces the built-in emotion table.
func WithEmotionTable(table Table[core.Emotion]) Option {
	return func(a *Analyzer) error {
		m, err := Compile(table)
		if err != nil {
			return err
		}
		a.emotions = m
		return nil
	}
}

// WithIntensifiers replaces the built-in intensifier classes.
func WithIntensifiers(classes []Intensifier) Option {
	return func(a *Analyzer) error {
		a.intensifiers = compileIntensifiers(classes)
		return nil
	}
}

type intensifierSet struct {
	factor float64
	words  map[string]struct{}
}

func compileIntensifiers(classes []Intensifier) []intensifierSet {
	sets := make([]intensifierSet, 0, len(classes))
	for _, c := range classes {
		set := intensifierSet{factor: c.Factor, words: make(map[string]struct{}, len(c.Words))}
		for _, w := range c.Words {
			set.words[sindhi.Normalize(w)] = struct{}{}
		}
		sets = append(sets, set)
	}
	return sets
}

// Analyzer produces a semantic analysis of a transcript.
// An Analyzer is immutable after construction and safe for concurrent use.
type Analyzer struct {
	themes          *Matcher[core.Theme]
	emotions        *Matcher[core.Emotion]
	intensifiers    []intensifierSet
	removeStopWords bool
}

var (
	builtinThemes   = sync.OnceValue(func() *Matcher[core.Theme] { return MustCompile(ThemeTable) })
	builtinEmotions = sync.OnceValue(func() *Matcher[core.Emotion] { return MustCompile(EmotionTable) })
	defaultAnalyzer = sync.OnceValue(func() *Analyzer {
		a, err := NewAnalyzer()
		if err != nil {
			panic(err)
		}
		return a
	})
)

// Default returns a shared Analyzer built from the built-in tables.
func Default() *Analyzer {
	return defaultAnalyzer()
}

// NewAnalyzer creates an Analyzer. Without options it uses ThemeTable,
// EmotionTable and Intensifiers with stop-word removal enabled.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		themes:          builtinThemes(),
		emotions:        builtinEmotions(),
		intensifiers:    compileIntensifiers(Intensifiers),
		removeStopWords: true,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Vocabulary returns every normalized literal known to the theme and
// emotion tables.
func (a *Analyzer) Vocabulary() []string {
	words := a.themes.Vocabulary()
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	for _, w := range a.emotions.Vocabulary() {
		if _, ok := seen[w]; !ok {
			words = append(words, w)
		}
	}
	return words
}

// Analyze classifies text. Analyze never fails: text without any pattern
// hit yields empty theme and emotion lists and a General/Neutral summary.
func (a *Analyzer) Analyze(text string) core.SemanticAnalysis {
	normalized := sindhi.Normalize(text)
	clean := normalized
	if a.removeStopWords {
		clean = sindhi.RemoveStopWords(normalized)
	}

	themeMatches := a.themes.Match(clean)
	emotionMatches := a.emotions.Match(clean)
	modifier := a.intensityModifier(normalized)

	analysis := core.SemanticAnalysis{
		Themes:   make([]core.ThemeScore, 0, len(themeMatches)),
		Emotions: make([]core.EmotionScore, 0, len(emotionMatches)),
	}
	for _, m := range themeMatches {
		analysis.Themes = append(analysis.Themes, core.ThemeScore{
			Theme:      m.Label,
			Confidence: math.Min(m.Score/saturation, maxConfidence),
			Keywords:   m.Keywords,
		})
	}
	for _, m := range emotionMatches {
		analysis.Emotions = append(analysis.Emotions, core.EmotionScore{
			Emotion:   m.Label,
			Intensity: clamp(m.Score/saturation*modifier, 0, maxIntensity),
			Markers:   m.Keywords,
		})
	}

	words := sindhi.TokensLongerThan(normalized, 1)
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	wordCount := float64(max(len(words), 1))
	analysis.SemanticDensity = float64(len(unique)) / wordCount
	analysis.LinguisticComplexity = float64(len(analysis.Themes)+len(analysis.Emotions)) / wordCount

	analysis.Summary = summarize(clean, themeMatches, emotionMatches)
	return analysis
}

// summarize reduces the matches to the single best theme and emotion.
func summarize(clean string, themes []Match[core.Theme], emotions []Match[core.Emotion]) core.Summary {
	summary := core.Summary{
		Theme:    core.ThemeGeneral,
		Emotion:  core.EmotionNeutral,
		Keywords: []string{},
	}
	var themeScore, emotionScore float64
	if len(themes) > 0 {
		summary.Theme = themes[0].Label
		summary.Keywords = themes[0].Keywords
		themeScore = themes[0].Score
	}
	if len(emotions) > 0 {
		summary.Emotion = emotions[0].Label
		emotionScore = emotions[0].Score
	}
	tokens := max(len(sindhi.Tokens(clean)), 1)
	density := float64(len(summary.Keywords)) / float64(tokens)
	summary.Confidence = math.Min((themeScore+emotionScore)/saturation+density, maxConfidence)
	return summary
}

func (a *Analyzer) intensityModifier(normalized string) float64 {
	modifier := 1.0
	if len(a.intensifiers) == 0 {
		return modifier
	}
	tokens := sindhi.Tokens(normalized)
	for _, set := range a.intensifiers {
		for _, tok := range tokens {
			if _, ok := set.words[tok]; ok {
				modifier *= set.factor
				break
			}
		}
	}
	return modifier
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
