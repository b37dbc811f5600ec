package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/poiesic/latif/core"
	"gopkg.in/yaml.v3"
)

// Script is one scripted session.
//
// Example:
//
//	name: divine love
//	seed: 7
//	steps:
//	  - transcript: "الله واحد لا شريک"
//	    expect:
//	      top: 1
//	      theme: DivineLove
//	  - feedback: {verse: 1, relevant: true}
type Script struct {
	Name  string  `yaml:"name"`
	Seed  *uint64 `yaml:"seed,omitempty"`
	Steps []Step  `yaml:"steps"`
}

// Step is either a transcript or a feedback event.
type Step struct {
	Transcript string        `yaml:"transcript,omitempty"`
	Feedback   *FeedbackStep `yaml:"feedback,omitempty"`
	Expect     *Expectation  `yaml:"expect,omitempty"`
}

// FeedbackStep records a verdict on a verse.
type FeedbackStep struct {
	Verse    int  `yaml:"verse"`
	Relevant bool `yaml:"relevant"`
}

// Expectation constrains the result of a transcript step. Zero fields are
// not checked.
type Expectation struct {
	Top      int        `yaml:"top,omitempty"`
	Contains []int      `yaml:"contains,omitempty"`
	Excludes []int      `yaml:"excludes,omitempty"`
	Theme    core.Theme `yaml:"theme,omitempty"`
	Fallback *bool      `yaml:"fallback,omitempty"`
}

// Validate checks the structure of the script.
func (s *Script) Validate() error {
	var errs []error
	if len(s.Steps) == 0 {
		errs = append(errs, errors.New("no steps"))
	}
	for i, step := range s.Steps {
		hasTranscript := step.Transcript != ""
		hasFeedback := step.Feedback != nil
		switch {
		case hasTranscript == hasFeedback:
			errs = append(errs, fmt.Errorf("steps[%d]: exactly one of transcript or feedback is required", i))
		case hasFeedback && step.Expect != nil:
			errs = append(errs, fmt.Errorf("steps[%d]: expect is only valid on transcript steps", i))
		}
		if step.Expect != nil && step.Expect.Theme != "" {
			if err := core.ValidateTheme(step.Expect.Theme); err != nil {
				errs = append(errs, fmt.Errorf("steps[%d].expect.theme: %w", i, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidScript, s.Name, errors.Join(errs...))
	}
	return nil
}

// ParseScript decodes and validates a script. Unknown keys are rejected.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads a script file. A script without a name is named after
// its file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open script %q: %w", path, err)
	}
	defer f.Close()

	s, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("replay: %q: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return s, nil
}

// LoadScripts reads the given paths. Directories contribute every .yaml
// and .yml file they contain, in name order.
func LoadScripts(paths ...string) ([]*Script, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
		var found []string
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				found = append(found, filepath.Join(p, e.Name()))
			}
		}
		slices.Sort(found)
		files = append(files, found...)
	}

	scripts := make([]*Script, 0, len(files))
	for _, f := range files {
		s, err := LoadScript(f)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}
