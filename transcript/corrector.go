// Package transcript repairs speech-recognition output before it is
// classified.
//
// Recognizers for Sindhi frequently confuse letters that sound alike (ظ, ض
// and ز, or ح and ه), which breaks exact pattern matching. The Corrector
// aligns each unknown transcript word to the closest word of a known
// vocabulary using Jaro-Winkler similarity, and leaves it untouched when
// nothing is close enough.
package transcript

import (
	"log/slog"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/poiesic/latif/sindhi"
)

const (
	defaultThreshold = 0.90
	defaultMinLength = 3
)

// Option is a functional option for configuring a [Corrector].
type Option func(*Corrector)

// WithThreshold sets the minimum Jaro-Winkler score for a replacement.
// Default: 0.90.
func WithThreshold(threshold float64) Option {
	return func(c *Corrector) {
		c.threshold = threshold
	}
}

// WithMinLength sets the minimum rune length of words considered for
// correction, on both the transcript and the vocabulary side. Default: 3.
func WithMinLength(n int) Option {
	return func(c *Corrector) {
		c.minLength = n
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Corrector) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// Correction records one replaced word.
type Correction struct {
	Original   string
	Corrected  string
	Confidence float64
}

// Corrector aligns transcript words to a vocabulary. It is read-only after
// construction and safe for concurrent use.
type Corrector struct {
	vocabulary []string
	known      map[string]struct{}
	threshold  float64
	minLength  int
	logger     *slog.Logger
}

// New returns a Corrector for the given vocabulary. Vocabulary words are
// normalized; duplicates and words shorter than the minimum length are
// ignored.
func New(vocabulary []string, opts ...Option) *Corrector {
	c := &Corrector{
		threshold: defaultThreshold,
		minLength: defaultMinLength,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.known = make(map[string]struct{}, len(vocabulary))
	for _, w := range vocabulary {
		w = sindhi.Normalize(w)
		if sindhi.RuneLen(w) < c.minLength {
			continue
		}
		if _, dup := c.known[w]; dup {
			continue
		}
		c.known[w] = struct{}{}
		c.vocabulary = append(c.vocabulary, w)
	}
	return c
}

// Correct returns the normalized text with unknown words replaced by their
// closest vocabulary word.
func (c *Corrector) Correct(text string) string {
	corrected, _ := c.CorrectWithDetails(text)
	return corrected
}

// CorrectWithDetails is like Correct and also reports each replacement.
func (c *Corrector) CorrectWithDetails(text string) (string, []Correction) {
	words := strings.Fields(sindhi.Normalize(text))
	var corrections []Correction
	for i, w := range words {
		fixed, score, ok := c.match(w)
		if !ok {
			continue
		}
		corrections = append(corrections, Correction{Original: w, Corrected: fixed, Confidence: score})
		words[i] = fixed
	}
	if len(corrections) > 0 {
		c.logger.Debug("corrected transcript", "corrections", len(corrections))
	}
	return strings.Join(words, " "), corrections
}

func (c *Corrector) match(word string) (string, float64, bool) {
	if len(c.vocabulary) == 0 || sindhi.RuneLen(word) < c.minLength || sindhi.IsStopWord(word) {
		return word, 0, false
	}
	if _, ok := c.known[word]; ok {
		return word, 0, false
	}
	for _, v := range c.vocabulary {
		if strings.Contains(word, v) {
			return word, 0, false
		}
	}

	best, bestScore := "", 0.0
	for _, v := range c.vocabulary {
		if s := matchr.JaroWinkler(word, v, false); s > bestScore {
			best, bestScore = v, s
		}
	}
	if bestScore < c.threshold {
		return word, 0, false
	}
	return best, bestScore, true
}
