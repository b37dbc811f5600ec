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


package core

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateVerse validates a Verse according to domain rules.
//
// Validation rules:
//   - ID must be positive
//   - Text must not be empty or whitespace
//   - Theme and Emotion must belong to their closed sets
//
// NOT validated:
//   - Sur, Translation and Source (free text, may be empty)
func ValidateVerse(verse *Verse) error {
	if verse == nil {
		return fmt.Errorf("%w: verse is nil", ErrInvalidVerse)
	}

	if verse.ID <= 0 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidVerse, ErrInvalidVerseID, verse.ID)
	}

	if strings.TrimSpace(verse.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyText)
	}

	if err := ValidateTheme(verse.Theme); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, err)
	}

	if err := ValidateEmotion(verse.Emotion); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, err)
	}

	return nil
}

// ValidateTheme validates that a Theme is one of the known themes.
func ValidateTheme(theme Theme) error {
	if !slices.Contains(themes, theme) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, string(theme))
	}
	return nil
}

// ValidateEmotion validates that an Emotion is one of the known emotions.
func ValidateEmotion(emotion Emotion) error {
	if !slices.Contains(emotions, emotion) {
		return fmt.Errorf("%w: %q", ErrUnknownEmotion, string(emotion))
	}
	return nil
}

// ParseTheme converts a theme name to a Theme. Matching ignores case.
func ParseTheme(name string) (Theme, error) {
	for _, t := range themes {
		if strings.EqualFold(string(t), strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// ParseEmotion converts an emotion name to an Emotion. Matching ignores case.
func ParseEmotion(name string) (Emotion, error) {
	for _, e := range emotions {
		if strings.EqualFold(string(e), strings.TrimSpace(name)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEmotion, name)
}
