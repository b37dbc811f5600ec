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


package corpus

import (
	"fmt"
	"iter"

	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/sindhi"
)

// Entry is a validated verse with its precomputed normalized text.
type Entry struct {
	Verse       core.Verse
	Normalized  string
	Fingerprint core.Fingerprint
}

// Rejection describes a record that Build skipped.
type Rejection struct {
	Index int // position in the input slice
	ID    int
	Err   error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("record %d (id %d): %v", r.Index, r.ID, r.Err)
}

func (r Rejection) Unwrap() error {
	return r.Err
}

type siblingKey struct {
	theme   core.Theme
	emotion core.Emotion
}

// Corpus is an immutable, validated collection of verses in a fixed order.
// It is safe for concurrent use.
type Corpus struct {
	entries  []Entry
	byID     map[int]int
	siblings map[siblingKey][]int
}

// Build validates verses once and returns a Corpus of the valid ones in
// input order. Invalid records and repeated ids are skipped and reported.
func Build(verses []core.Verse) (*Corpus, []Rejection) {
	c := &Corpus{
		entries:  make([]Entry, 0, len(verses)),
		byID:     make(map[int]int, len(verses)),
		siblings: make(map[siblingKey][]int),
	}
	var rejected []Rejection
	for i, v := range verses {
		if err := core.ValidateVerse(&v); err != nil {
			rejected = append(rejected, Rejection{Index: i, ID: v.ID, Err: err})
			continue
		}
		if _, dup := c.byID[v.ID]; dup {
			rejected = append(rejected, Rejection{Index: i, ID: v.ID, Err: ErrDuplicateID})
			continue
		}
		normalized := sindhi.Normalize(v.Text)
		c.byID[v.ID] = len(c.entries)
		c.entries = append(c.entries, Entry{
			Verse:       v,
			Normalized:  normalized,
			Fingerprint: core.FingerprintText(normalized),
		})
		key := siblingKey{theme: v.Theme, emotion: v.Emotion}
		c.siblings[key] = append(c.siblings[key], v.ID)
	}
	return c, rejected
}

// Empty returns a corpus with no verses.
func Empty() *Corpus {
	c, _ := Build(nil)
	return c
}

// Len returns the number of verses.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// All iterates over the entries in corpus order.
func (c *Corpus) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range c.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// At returns the entry at position i.
func (c *Corpus) At(i int) Entry {
	return c.entries[i]
}

// Verse looks up a verse by id.
func (c *Corpus) Verse(id int) (core.Verse, bool) {
	i, ok := c.byID[id]
	if !ok {
		return core.Verse{}, false
	}
	return c.entries[i].Verse, true
}

// Verses returns a copy of every verse in corpus order.
func (c *Corpus) Verses() []core.Verse {
	out := make([]core.Verse, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Verse
	}
	return out
}

// Siblings returns the ids of the other verses sharing id's theme and
// emotion, in corpus order. Unknown ids have no siblings.
func (c *Corpus) Siblings(id int) []int {
	v, ok := c.Verse(id)
	if !ok {
		return nil
	}
	group := c.siblings[siblingKey{theme: v.Theme, emotion: v.Emotion}]
	out := make([]int, 0, len(group))
	for _, other := range group {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

// IndicesByTheme returns the positions of verses with the given theme.
func (c *Corpus) IndicesByTheme(theme core.Theme) []int {
	var out []int
	for i, e := range c.entries {
		if e.Verse.Theme == theme {
			out = append(out, i)
		}
	}
	return out
}
