package badger

import (
	"encoding/binary"

	"github.com/poiesic/latif/core"
)

// Key prefixes for different data types
const (
	versePrefix            = "verse:"
	verseFingerprintPrefix = "versefp:"
	collectionKey          = "collection:meta"
)

// makeVerseKey generates a key for a verse by id.
// Format: prefix:id, with the id in BigEndian order so that keys sort by id.
func makeVerseKey(id int) []byte {
	buf := make([]byte, len(versePrefix)+8)
	offset := copy(buf, versePrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeFingerprintKey generates a key for the normalized-text index.
// Format: prefix:fingerprint
func makeFingerprintKey(fp core.Fingerprint) []byte {
	buf := make([]byte, len(verseFingerprintPrefix)+8)
	offset := copy(buf, verseFingerprintPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fp))
	return buf
}
