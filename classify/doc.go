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


// Package classify detects themes and emotions in Sindhi transcripts.
//
// Detection is table driven. A Table is an ordered list of entries, each a
// label, its patterns and a weight. The same Matcher scores any table, so
// theme and emotion detection differ only in the table they are given.
// Patterns are literals, optionally joined with ".*" to require an ordered
// co-occurrence; literals are normalized with the sindhi package when the
// table is compiled.
//
// The Analyzer combines a theme table, an emotion table and a set of
// intensifier words into a core.SemanticAnalysis.
package classify
