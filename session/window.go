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


package session

import "strings"

// DefaultCapacity is the number of transcripts a Window keeps.
const DefaultCapacity = 5

// Window is a FIFO of the most recent transcripts, bounded by its capacity.
type Window struct {
	items    []string
	capacity int
}

// NewWindow creates a Window. A capacity below one uses DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Window{items: make([]string, 0, capacity), capacity: capacity}
}

// Push appends a transcript, evicting the oldest when full.
func (w *Window) Push(transcript string) {
	if len(w.items) == w.capacity {
		copy(w.items, w.items[1:])
		w.items = w.items[:len(w.items)-1]
	}
	w.items = append(w.items, transcript)
}

// Items returns the transcripts, oldest first.
func (w *Window) Items() []string {
	return append([]string(nil), w.items...)
}

// Joined returns the transcripts joined by single spaces, oldest first.
func (w *Window) Joined() string {
	return strings.Join(w.items, " ")
}

// Len returns the number of transcripts held.
func (w *Window) Len() int {
	return len(w.items)
}

// Capacity returns the maximum number of transcripts held.
func (w *Window) Capacity() int {
	return w.capacity
}

// Reset empties the window.
func (w *Window) Reset() {
	w.items = w.items[:0]
}
