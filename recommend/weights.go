package recommend

import (
	"errors"
	"fmt"
)

// Weights scales each scoring signal.
type Weights struct {
	Theme        float64 // multiplied by theme confidence in [0,1]
	Emotion      float64 // multiplied by emotion intensity in [0,2], halved
	Keyword      float64 // multiplied by the transcript keyword hit ratio
	Context      float64 // multiplied by the session context hit ratio
	Positive     float64 // added for verses marked relevant
	Negative     float64 // added for verses marked irrelevant; zero or negative
	Novelty      float64 // bonus for verses never shown
	NoveltyDecay float64 // novelty lost per previous appearance
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Theme:        0.30,
		Emotion:      0.25,
		Keyword:      0.20,
		Context:      0.15,
		Positive:     0.10,
		Negative:     -0.20,
		Novelty:      0.05,
		NoveltyDecay: 0.01,
	}
}

// Validate checks that every weight has the expected sign.
func (w Weights) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, v))
		}
	}
	check("theme", w.Theme)
	check("emotion", w.Emotion)
	check("keyword", w.Keyword)
	check("context", w.Context)
	check("positive", w.Positive)
	check("novelty", w.Novelty)
	check("novelty_decay", w.NoveltyDecay)
	if w.Negative > 0 {
		errs = append(errs, fmt.Errorf("negative must not be positive, got %v", w.Negative))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidWeights, errors.Join(errs...))
	}
	return nil
}
