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


package recommend

import "errors"

var (
	// ErrCorpusRequired is returned when no corpus is provided.
	ErrCorpusRequired = errors.New("corpus required")

	// ErrInvalidWeights is returned when scoring weights are out of range.
	ErrInvalidWeights = errors.New("invalid scoring weights")

	// ErrAnalyzerRequired is returned when a nil analyzer is supplied.
	ErrAnalyzerRequired = errors.New("analyzer required")
)
