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

import "errors"

// Domain validation errors
var (
	// ErrInvalidVerse indicates a Verse failed validation.
	ErrInvalidVerse = errors.New("invalid verse")

	// ErrInvalidVerseID indicates a verse id is zero or negative.
	ErrInvalidVerseID = errors.New("verse id must be positive")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("verse text cannot be empty")

	// ErrUnknownTheme indicates a theme name outside the closed set.
	ErrUnknownTheme = errors.New("unknown theme")

	// ErrUnknownEmotion indicates an emotion name outside the closed set.
	ErrUnknownEmotion = errors.New("unknown emotion")
)
