package classify

import "github.com/poiesic/latif/core"

// ThemeTable is the built-in theme pattern table.
var ThemeTable = Table[core.Theme]{
	{
		Label: core.ThemeDivineLove,
		Patterns: []string{
			"الله", "محبوب", "فنا", "خدا", "رب", "عشق.*الله", "روحاني", "رحمت",
			"عبادت.*خدا", "ذڪر", "واحد", "لا.*شريک", "پرماتما", "ايشور",
		},
		Weight: 2.0,
	},
	{
		Label: core.ThemeHumanLove,
		Patterns: []string{
			"سڄڻ", "يار", "محبت", "دل.*يار", "عاشق", "معشوق", "پيار",
			"محبوب.*انسان", "دل.*محبت", "عشق.*انسان", "مينه", "پريم",
		},
		Weight: 2.0,
	},
	{
		Label: core.ThemeSeparation,
		Patterns: []string{
			"جدائي", "فراق", "دوري", "بچھڙو", "انتظار", "ياد", "تڏ", "غم.*فراق",
			"دل.*ياد", "تنهائي", "اڪيلو", "وچھوڙو", "ويراگ", "درد", "پيڙ",
		},
		Weight: 2.0,
	},
	{
		Label: core.ThemeSpirituality,
		Patterns: []string{
			"روح", "عبادت", "ايمان", "نماز", "قرآن", "دين", "تقوي", "سجدو",
			"دعا", "توبه", "استغفار", "حج", "زڪات", "آتما",
		},
		Weight: 1.8,
	},
	{
		Label: core.ThemeNature,
		Patterns: []string{
			"گل", "باغ", "دريا", "چاند", "سج", "هوا", "برسات", "بهار", "تارا",
			"سمنڊ", "جهيل", "ٻيلو", "پهاڙ", "وڻ", "قدرت", "فطرت", "ڪائنات",
		},
		Weight: 1.5,
	},
	{
		Label: core.ThemeWisdom,
		Patterns: []string{
			"عقل", "دانش", "سمجھ", "علم", "حکمت", "سبق", "نصيحت", "تجربو",
			"صبر", "حلم", "تحمل", "سچ", "راستو", "گيان",
		},
		Weight: 1.7,
	},
}

// EmotionTable is the built-in emotion pattern table.
var EmotionTable = Table[core.Emotion]{
	{
		Label: core.EmotionJoyful,
		Patterns: []string{
			"خوش", "مسرور", "سُک", "خوشي", "مزو", "راحت", "جوش", "خوشحال",
			"مسرت", "شادي", "جشن", "کلڻ",
		},
		Weight: 2.0,
	},
	{
		Label: core.EmotionMelancholic,
		Patterns: []string{
			"غم", "دک", "سوڳ", "افسوس", "رنج", "پريشاني", "اداس", "مايوس",
			"نراش", "ڏک", "تڪليف",
		},
		Weight: 2.0,
	},
	{
		Label: core.EmotionBetrayed,
		Patterns: []string{
			"دغا", "ڌوڪو", "بيوفا", "خيانت", "فريب", "جھوٽ", "ٺڳي", "مڪر",
			"چال", "ناانصافي",
		},
		Weight: 2.5,
	},
	{
		Label: core.EmotionLonging,
		Patterns: []string{
			"انتظار", "ياد", "تڏ", "اميد", "آس", "تمنا", "خواهش", "ارمان",
			"حسرت", "طلب", "چاهت",
		},
		Weight: 2.0,
	},
	{
		Label: core.EmotionContemplative,
		Patterns: []string{
			"سوچ", "فکر", "غور", "تدبر", "مراقبو", "ذکر", "صبر", "تأمل",
			"خيال", "چنتن", "مطالعو",
		},
		Weight: 1.8,
	},
	{
		Label: core.EmotionPeaceful,
		Patterns: []string{
			"سکون", "امن", "آرام", "صبر", "سلامتي", "چين", "اطمينان", "راحت",
			"خاموشي", "سادگي",
		},
		Weight: 1.5,
	},
	{
		Label: core.EmotionEcstatic,
		Patterns: []string{
			"جوش", "جذبو", "ديوانگي", "مستي", "بيخودي", "وجد", "حال", "کيف",
			"سرور", "انتهاء",
		},
		Weight: 2.2,
	},
}

// Intensifier is a class of words that scales emotion intensity.
type Intensifier struct {
	Name   string
	Factor float64
	Words  []string
}

// Intensifiers are applied in order; each class present multiplies the
// intensity of every detected emotion once.
var Intensifiers = []Intensifier{
	{Name: "high", Factor: 1.5, Words: []string{"تمام", "ڏاڍو", "انتهائي", "بيحد", "لامحدود"}},
	{Name: "medium", Factor: 1.2, Words: []string{"ڪافي", "ڪجهه", "ٿورو", "گهڻو"}},
	{Name: "low", Factor: 0.8, Words: []string{"ٿورڙو", "ٿوري", "ڪم", "گهٽ"}},
}
