package sindhi

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// variants maps spelling variants onto their canonical letter.
// Every target is itself absent from the key set, so folding is a fixed point.
var variants = map[rune]rune{
	'ي': 'ی', // Arabic yeh -> Farsi yeh
	'ى': 'ی', // alef maksura -> Farsi yeh
	'ك': 'ک', // Arabic kaf -> keheh
	'ہ': 'ه', // heh goal -> heh
	'ە': 'ه', // ae -> heh
	'ة': 'ت', // teh marbuta -> teh
	'ۃ': 'ت', // teh marbuta goal -> teh
	'ئ': 'ی', // yeh with hamza -> Farsi yeh
	'ؤ': 'و', // waw with hamza -> waw
	'أ': 'ا', // alef with hamza above -> alef
	'إ': 'ا', // alef with hamza below -> alef
	'ٱ': 'ا', // alef wasla -> alef
	'ۂ': 'ه', // heh goal with hamza -> heh
	'ۀ': 'ه', // heh with yeh above -> heh
	'ۓ': 'ے', // yeh barree with hamza -> yeh barree
}

// isMark reports whether r is an Arabic combining mark removed during
// normalization: harakat, tanween, shadda, sukun, hamza above/below,
// superscript alef, the tatweel extender and zero-width format characters.
func isMark(r rune) bool {
	switch {
	case r >= '\u064b' && r <= '\u065f':
		return true
	case r == '\u0670', r == '\u0640':
		return true
	case r >= '\u200b' && r <= '\u200d', r == '\ufeff':
		return true
	}
	return false
}

func fold(r rune) rune {
	if v, ok := variants[r]; ok {
		return v
	}
	// Arabic-Indic and extended Arabic-Indic digits
	if r >= '\u0660' && r <= '\u0669' {
		return '0' + (r - '\u0660')
	}
	if r >= '\u06f0' && r <= '\u06f9' {
		return '0' + (r - '\u06f0')
	}
	return r
}

func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Map(fold),
		runes.Remove(runes.Predicate(isMark)),
		norm.NFC,
	)
}

// Normalize canonicalizes text for matching. The result never contains
// leading, trailing or repeated whitespace and Normalize(Normalize(s)) ==
// Normalize(s) for every s.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	folded, _, err := transform.String(newFolder(), lowered)
	if err != nil {
		folded = lowered
	}
	return strings.Join(strings.Fields(folded), " ")
}

// Tokens splits already normalized text into words, trimming punctuation at
// word boundaries and dropping tokens left empty.
func Tokens(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		cleaned := strings.TrimFunc(f, isBoundaryPunct)
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// TokensLongerThan returns the tokens of normalized text whose rune length
// exceeds n.
func TokensLongerThan(normalized string, n int) []string {
	all := Tokens(normalized)
	out := all[:0]
	for _, tok := range all {
		if RuneLen(tok) > n {
			out = append(out, tok)
		}
	}
	return out
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return len([]rune(s))
}

func isBoundaryPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
