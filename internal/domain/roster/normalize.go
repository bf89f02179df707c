package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	minIdentifierLength = 5
	identifierPadding   = "user0"
)

// transliterations covers letters that do not decompose into a base letter
// plus combining marks.
var transliterations = map[rune]string{
	'ł': "l", 'Ł': "L",
	'đ': "d", 'Đ': "D",
	'ø': "o", 'Ø': "O",
	'ß': "ss",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'þ': "th", 'Þ': "TH",
	'ð': "d", 'Ð': "D",
	'ı': "i",

	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'ґ': "g", 'д': "d", 'е': "e", 'є': "ye",
	'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i", 'і': "i", 'ї': "yi", 'й': "y", 'к': "k",
	'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// NormalizeIdentifierBase derives an ASCII alphanumeric login candidate from a
// person's names. The result is never shorter than five characters.
func NormalizeIdentifierBase(firstName, lastName string) string {
	ascii := transliterate(firstName + lastName)

	var b strings.Builder
	b.Grow(len(ascii) + len(identifierPadding))
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		}
	}

	if b.Len() < minIdentifierLength {
		b.WriteString(identifierPadding)
	}
	return b.String()
}

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if sub, ok := transliterations[r]; ok {
			b.WriteString(sub)
			continue
		}
		if lower := unicode.ToLower(r); lower != r {
			if sub, ok := transliterations[lower]; ok {
				b.WriteString(strings.ToUpper(sub))
				continue
			}
		}
		b.WriteRune(r)
	}

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripMarks, b.String())
	if err != nil {
		return b.String()
	}
	return out
}

// capitalizeName upper-cases the first letter and lower-cases the rest.
func capitalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	rs := []rune(strings.ToLower(s))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// titleName upper-cases the first letter of every word, so double-barrelled
// surnames keep both capitals.
func titleName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return cases.Title(language.Und).String(s)
}
