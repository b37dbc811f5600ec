package sindhi

import "strings"

// stopWordList holds function words that carry no thematic signal.
var stopWordList = []string{
	"آهي", "آهن", "جو", "جي", "کي", "۾", "تي", "سان", "اي", "هن", "اهو", "اها",
}

// stopWords is keyed by the normalized form of each entry in stopWordList.
var stopWords = func() map[string]struct{} {
	m := make(map[string]struct{}, len(stopWordList))
	for _, w := range stopWordList {
		m[Normalize(w)] = struct{}{}
	}
	return m
}()

// IsStopWord reports whether a normalized token is a stop word.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// RemoveStopWords drops stop words and single-rune tokens from normalized text.
func RemoveStopWords(normalized string) string {
	words := strings.Fields(normalized)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if RuneLen(w) <= 1 || IsStopWord(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
