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


// Package server exposes recommendation sessions and the verse library over
// HTTP for the browser UI.
//
// Every session owns its own recommend.Engine, so feedback given in one
// browser tab never affects another. Sessions live in memory and are lost
// when the server stops.
//
// Routes:
//
//	POST   /api/sessions
//	DELETE /api/sessions/:id
//	POST   /api/sessions/:id/recommendations   {"transcript": "..."}
//	POST   /api/sessions/:id/feedback          {"verseId": 1, "isRelevant": true}
//	GET    /api/sessions/:id/accuracy
//	GET    /api/verses?q=&theme=&emotion=
//	GET    /api/verses/:id
//	GET    /api/themes
//	GET    /api/emotions
//	GET    /metrics
//
// Every JSON response is wrapped in a ReturnType envelope.
package server
