package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint identifies verse text independent of its numeric id.
type Fingerprint uint64

// FingerprintText hashes text with BLAKE2b into a 64-bit fingerprint.
// Callers normalize the text first so that spelling variants collide.
func FingerprintText(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Theme is the thematic category of a verse.
type Theme string

const (
	ThemeDivineLove   Theme = "DivineLove"
	ThemeHumanLove    Theme = "HumanLove"
	ThemeSeparation   Theme = "Separation"
	ThemeSpirituality Theme = "Spirituality"
	ThemeNature       Theme = "Nature"
	ThemeWisdom       Theme = "Wisdom"
	ThemeGeneral      Theme = "General"
)

var themes = []Theme{
	ThemeDivineLove,
	ThemeHumanLove,
	ThemeSeparation,
	ThemeSpirituality,
	ThemeNature,
	ThemeWisdom,
	ThemeGeneral,
}

// Themes returns every theme in declaration order.
func Themes() []Theme {
	return append([]Theme(nil), themes...)
}

// Emotion is the emotional tone of a verse or transcript.
type Emotion string

const (
	EmotionJoyful        Emotion = "Joyful"
	EmotionMelancholic   Emotion = "Melancholic"
	EmotionLonging       Emotion = "Longing"
	EmotionContemplative Emotion = "Contemplative"
	EmotionPeaceful      Emotion = "Peaceful"
	EmotionEcstatic      Emotion = "Ecstatic"
	EmotionBetrayed      Emotion = "Betrayed"
	EmotionNeutral       Emotion = "Neutral"
)

var emotions = []Emotion{
	EmotionJoyful,
	EmotionMelancholic,
	EmotionLonging,
	EmotionContemplative,
	EmotionPeaceful,
	EmotionEcstatic,
	EmotionBetrayed,
	EmotionNeutral,
}

// Emotions returns every emotion in declaration order.
func Emotions() []Emotion {
	return append([]Emotion(nil), emotions...)
}

// Verse is a single poetic unit of the corpus.
type Verse struct {
	ID          int     `json:"id" yaml:"id"`
	Text        string  `json:"text" yaml:"text"`
	Theme       Theme   `json:"theme" yaml:"theme"`
	Emotion     Emotion `json:"emotion" yaml:"emotion"`
	Sur         string  `json:"sur" yaml:"sur"`
	Translation string  `json:"translation,omitempty" yaml:"translation,omitempty"`
	Source      string  `json:"source,omitempty" yaml:"source,omitempty"`
	Verified    bool    `json:"verified" yaml:"verified"`
}

// ThemeScore is one detected theme with its confidence in [0,1].
type ThemeScore struct {
	Theme      Theme    `json:"theme"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

// EmotionScore is one detected emotion with its intensity in [0,2].
type EmotionScore struct {
	Emotion   Emotion  `json:"emotion"`
	Intensity float64  `json:"intensity"`
	Markers   []string `json:"markers"`
}

// Summary is the single best theme and emotion view of a transcript.
type Summary struct {
	Theme      Theme    `json:"theme"`
	Emotion    Emotion  `json:"emotion"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

// SemanticAnalysis is the classifier output for one transcript.
// Themes and Emotions are sorted by descending score.
type SemanticAnalysis struct {
	Themes               []ThemeScore   `json:"themes"`
	Emotions             []EmotionScore `json:"emotions"`
	SemanticDensity      float64        `json:"semanticDensity"`
	LinguisticComplexity float64        `json:"linguisticComplexity"`
	Summary              Summary        `json:"summary"`
}

// TopTheme returns the highest scoring theme, or General when none was detected.
func (a *SemanticAnalysis) TopTheme() Theme {
	if len(a.Themes) == 0 {
		return ThemeGeneral
	}
	return a.Themes[0].Theme
}

// TopEmotion returns the highest scoring emotion, or Neutral when none was detected.
func (a *SemanticAnalysis) TopEmotion() Emotion {
	if len(a.Emotions) == 0 {
		return EmotionNeutral
	}
	return a.Emotions[0].Emotion
}

// ScoreBreakdown holds the weighted contribution of each scoring signal.
type ScoreBreakdown struct {
	ThemeMatch   float64 `json:"themeMatch"`
	EmotionMatch float64 `json:"emotionMatch"`
	KeywordMatch float64 `json:"keywordMatch"`
	ContextMatch float64 `json:"contextMatch"`
	UserFeedback float64 `json:"userFeedback"`
	Novelty      float64 `json:"novelty"`
}

// Evidence is the part of the score that comes from matching the transcript
// and session context, excluding feedback and novelty adjustments.
func (b ScoreBreakdown) Evidence() float64 {
	return b.ThemeMatch + b.EmotionMatch + b.KeywordMatch + b.ContextMatch
}

// Total sums every signal without clamping.
func (b ScoreBreakdown) Total() float64 {
	return b.Evidence() + b.UserFeedback + b.Novelty
}

// Recommendation is one ranked verse returned to the caller.
type Recommendation struct {
	Verse          Verse          `json:"verse"`
	RelevanceScore float64        `json:"relevanceScore"`
	MatchedThemes  []string       `json:"matchedThemes"`
	EmotionMatch   string         `json:"emotionMatch"`
	Breakdown      ScoreBreakdown `json:"scoreBreakdown"`
	Fallback       bool           `json:"fallback"`
}

// AccuracyMetrics summarizes feedback collected during a session.
type AccuracyMetrics struct {
	TotalFeedback int     `json:"totalFeedback"`
	PositiveRatio float64 `json:"positiveRatio"`
	AverageScore  float64 `json:"averageScore"`
	ThemeAccuracy float64 `json:"themeAccuracy"`
}

// Collection describes the verse collection held in a store.
type Collection struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VerseCount  int       `json:"verseCount"`
	ImportedAt  time.Time `json:"importedAt"`
}
