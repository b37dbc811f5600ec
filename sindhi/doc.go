// Package sindhi normalizes Sindhi and Urdu text for matching.
//
// Normalize folds the spelling variants that speech recognizers and
// keyboards produce for the same word (Arabic versus Persian yeh and kaf,
// heh variants, hamza carriers), strips vowel marks and collapses
// whitespace. It is total, deterministic and idempotent, so normalized
// pattern literals can be matched against normalized transcripts and verse
// text with plain substring search.
package sindhi
