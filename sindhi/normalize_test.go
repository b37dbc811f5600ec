package sindhi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "collapses whitespace", input: "  عشق   \t الله  ", want: "عشق الله"},
		{name: "arabic yeh", input: "ي", want: "ی"},
		{name: "alef maksura", input: "ى", want: "ی"},
		{name: "arabic kaf", input: "كتاب", want: "کتاب"},
		{name: "heh goal", input: "ہ", want: "ه"},
		{name: "teh marbuta", input: "ة", want: "ت"},
		{name: "yeh with hamza", input: "ئ", want: "ی"},
		{name: "waw with hamza", input: "ؤ", want: "و"},
		{name: "decomposed yeh with hamza", input: "\u064a\u0654", want: "ی"},
		{name: "keeps alef madda", input: "آس", want: "آس"},
		{name: "composes decomposed alef madda", input: "\u0627\u0653س", want: "آس"},
		{name: "stray hamza mark", input: "ر\u0654", want: "ر"},
		{name: "strips harakat", input: "سَلامُ", want: "سلام"},
		{name: "strips shadda and superscript alef", input: "اللّٰه", want: "الله"},
		{name: "strips tatweel", input: "عــشق", want: "عشق"},
		{name: "folds latin case", input: "Sur KALYAN", want: "sur kalyan"},
		{name: "extended digits", input: "۱۲۳", want: "123"},
		{name: "arabic-indic digits", input: "٤٥", want: "45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"الله واحد لا شريک، هن جو نالو وٺي ڪري",
		"كي ى ہ ة ئ ؤ ۂ",
		"سَجَنُ   جِي  ياد ۾ دل اُداس",
		"Mixed ڪافي TEXT with é and ﬁ ligature",
		"\u200bعشق\u200d",
		"",
		"   ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_VariantsCollide(t *testing.T) {
	assert.Equal(t, Normalize("پيار"), Normalize("پیار"))
	assert.Equal(t, Normalize("ڪريم"), Normalize("ڪریم"))
}

func TestTokens(t *testing.T) {
	got := Tokens(Normalize("شريک، هن جو نالو!"))
	assert.Equal(t, []string{Normalize("شريک"), "هن", "جو", "نالو"}, got)
	assert.Empty(t, Tokens(""))
	assert.Empty(t, Tokens("، ."))
}

func TestTokensLongerThan(t *testing.T) {
	got := TokensLongerThan(Normalize("دل جو درد ۾ آهي"), 2)
	assert.Equal(t, []string{"درد", Normalize("آهي")}, got)
}

func TestRemoveStopWords(t *testing.T) {
	got := RemoveStopWords(Normalize("سڄڻ جي ياد ۾ آهي"))
	assert.Equal(t, Normalize("سڄڻ ياد"), got)
	assert.Equal(t, "", RemoveStopWords(""))
	assert.True(t, IsStopWord(Normalize("آهي")))
	assert.False(t, IsStopWord(Normalize("عشق")))
}
