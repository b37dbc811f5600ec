// Package corpus builds the immutable verse collection the recommendation
// engine and search read from.
//
// Records are validated once, in Build; malformed records and repeated ids
// are skipped and reported rather than failing the whole load. Collections
// are read from YAML files, and a small sample collection is embedded for
// first runs.
package corpus
