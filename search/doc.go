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


// Package search provides filtering over a verse corpus for the library view.
//
// Matching is substring based and unranked: a query matches a verse when its
// normalized form occurs in the normalized verse text, or when its lower-cased
// form occurs in the theme name, sur or translation. Results keep corpus
// order. An empty query matches every verse.
package search
