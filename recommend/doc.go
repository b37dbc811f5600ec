// Package recommend ranks corpus verses against a spoken transcript.
//
// An Engine owns one session: a window of recent transcripts, feedback
// verdicts and usage counts. Each Recommend call analyzes the transcript,
// scores every verse as a weighted sum of theme, emotion, keyword, context,
// feedback and novelty signals, and returns at most three verses. When no
// verse shows any match evidence the engine falls back to a random sample
// biased toward the detected theme.
//
// Engine methods are serialized by a mutex; a single Engine may be shared
// by goroutines, and independent sessions use independent Engines.
package recommend
