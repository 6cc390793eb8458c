// Package lang guesses the language of a text sample from Unicode script
// ranges. It is deliberately small: the pipeline only needs a coarse code to
// pick caption tracks and to annotate results, not full language
// identification.
package lang

import (
	"strings"
	"unicode"
)

// sampleLimit caps how many leading runes Detect inspects. Titles and
// transcripts reveal their script almost immediately, and a bounded scan
// keeps the function cheap on megabyte inputs.
const sampleLimit = 200

// vietnameseDiacritics lists the lowercase Latin letters whose diacritics
// only occur in Vietnamese orthography. Plain Latin text never contains
// them, so one hit is decisive.
const vietnameseDiacritics = "ăâđêôơưạảấầẩẫậắằẳẵặẹẻẽếềểễệỉịọỏốồổỗộớờởỡợụủứừửữựỳỵỷỹ"

// scriptChecks is ordered: scripts that overlap must have the more specific
// test first. Japanese prose mixes Han ideographs with kana, so kana is
// tested before Han; otherwise Japanese would be reported as Chinese.
var scriptChecks = []struct {
	code string
	is   func(rune) bool
}{
	{"th", func(r rune) bool { return unicode.Is(unicode.Thai, r) }},
	{"ja", func(r rune) bool { return unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) }},
	{"ko", func(r rune) bool { return unicode.Is(unicode.Hangul, r) }},
	{"zh", func(r rune) bool { return unicode.Is(unicode.Han, r) }},
	{"ru", func(r rune) bool { return unicode.Is(unicode.Cyrillic, r) }},
	{"vi", func(r rune) bool { return strings.ContainsRune(vietnameseDiacritics, unicode.ToLower(r)) }},
	{"ar", func(r rune) bool { return unicode.Is(unicode.Arabic, r) }},
	{"hi", func(r rune) bool { return unicode.Is(unicode.Devanagari, r) }},
}

// Detect returns a two-letter language code for the dominant script in the
// leading portion of sample, or fallback when the sample is empty or no
// non-Latin script appears. It never fails.
func Detect(sample, fallback string) string {
	if sample == "" {
		return fallback
	}
	runes := []rune(sample)
	if len(runes) > sampleLimit {
		runes = runes[:sampleLimit]
	}
	for _, sc := range scriptChecks {
		for _, r := range runes {
			if sc.is(r) {
				return sc.code
			}
		}
	}
	return fallback
}
