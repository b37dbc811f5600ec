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


// Package replay runs scripted sessions against the recommendation engine
// for offline evaluation.
//
// A script is a YAML list of steps. Each step either speaks a transcript,
// optionally with expectations on the result, or records feedback. Every
// script runs in its own engine session; scripts run concurrently on a
// bounded worker pool.
package replay
