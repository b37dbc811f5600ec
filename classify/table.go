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


package classify

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/poiesic/latif/sindhi"
)

// wildcard joins pattern pieces that must appear in order.
const wildcard = ".*"

// Entry is one row of a pattern table.
type Entry[L ~string] struct {
	Label    L
	Patterns []string
	Weight   float64
}

// Table is an ordered pattern table. Declaration order breaks score ties.
type Table[L ~string] []Entry[L]

// Match is the score of one label against a text.
type Match[L ~string] struct {
	Label    L
	Score    float64
	Keywords []string
}

type compiledEntry[L ~string] struct {
	label    L
	weight   float64
	patterns []*regexp.Regexp
	literals []string
}

// Matcher scores normalized text against a compiled table.
// A Matcher is immutable and safe for concurrent use.
type Matcher[L ~string] struct {
	entries []compiledEntry[L]
}

// Compile validates and compiles a table.
func Compile[L ~string](table Table[L]) (*Matcher[L], error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	m := &Matcher[L]{entries: make([]compiledEntry[L], 0, len(table))}
	for _, entry := range table {
		if entry.Weight <= 0 {
			return nil, fmt.Errorf("%w: %s has weight %v", ErrInvalidWeight, entry.Label, entry.Weight)
		}
		ce := compiledEntry[L]{label: entry.Label, weight: entry.Weight}
		for _, p := range entry.Patterns {
			re, literals, err := compilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", entry.Label, err)
			}
			ce.patterns = append(ce.patterns, re)
			ce.literals = append(ce.literals, literals...)
		}
		m.entries = append(m.entries, ce)
	}
	return m, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level tables.
func MustCompile[L ~string](table Table[L]) *Matcher[L] {
	m, err := Compile(table)
	if err != nil {
		panic(err)
	}
	return m
}

func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	pieces := strings.Split(pattern, wildcard)
	literals := make([]string, 0, len(pieces))
	quoted := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		normalized := sindhi.Normalize(piece)
		if normalized == "" {
			return nil, nil, fmt.Errorf("%w: %q", ErrEmptyPattern, pattern)
		}
		literals = append(literals, normalized)
		quoted = append(quoted, regexp.QuoteMeta(normalized))
	}
	re, err := regexp.Compile(strings.Join(quoted, wildcard))
	if err != nil {
		return nil, nil, err
	}
	return re, literals, nil
}

// Match scores normalized text against every entry. Each non-overlapping
// occurrence of a pattern adds the entry weight. Only labels with a positive
// score are returned, ordered by descending score; ties keep table order.
func (m *Matcher[L]) Match(normalized string) []Match[L] {
	if normalized == "" {
		return nil
	}
	var matches []Match[L]
	for _, entry := range m.entries {
		var score float64
		var keywords []string
		for _, re := range entry.patterns {
			found := re.FindAllString(normalized, -1)
			if len(found) == 0 {
				continue
			}
			score += float64(len(found)) * entry.weight
			keywords = append(keywords, found...)
		}
		if score > 0 {
			matches = append(matches, Match[L]{Label: entry.label, Score: score, Keywords: keywords})
		}
	}
	slices.SortStableFunc(matches, func(a, b Match[L]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return matches
}

// Vocabulary returns the distinct normalized literals of every pattern, in
// table order.
func (m *Matcher[L]) Vocabulary() []string {
	seen := make(map[string]struct{})
	var words []string
	for _, entry := range m.entries {
		for _, literal := range entry.literals {
			if _, ok := seen[literal]; ok {
				continue
			}
			seen[literal] = struct{}{}
			words = append(words, literal)
		}
	}
	return words
}

// Labels returns the table labels in declaration order.
func (m *Matcher[L]) Labels() []L {
	labels := make([]L, 0, len(m.entries))
	for _, entry := range m.entries {
		labels = append(labels, entry.label)
	}
	return labels
}
