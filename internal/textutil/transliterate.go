package textutil

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNotTransliterable is returned when a value still contains non-ASCII
// characters after diacritics and known ligatures are folded.
var ErrNotTransliterable = errors.New("value cannot be transliterated to ascii")

// ligatureReplacer folds letters that do not decompose under NFD.
var ligatureReplacer = strings.NewReplacer(
	"ß", "ss",
	"Æ", "AE", "æ", "ae",
	"Ø", "O", "ø", "o",
	"Œ", "OE", "œ", "oe",
	"Ł", "L", "ł", "l",
	"Đ", "D", "đ", "d",
	"Ð", "D", "ð", "d",
	"Þ", "Th", "þ", "th",
	"ı", "i",
	"‘", "'", "’", "'",
	"“", "\"", "”", "\"",
	"–", "-", "—", "-",
	"\u00a0", " ",
)

// Transliterate folds s to plain ASCII by stripping combining marks and
// replacing common ligatures. When characters remain that have no ASCII form
// (for example Cyrillic or CJK), the partially folded value is returned with
// ErrNotTransliterable.
func Transliterate(s string) (string, error) {
	if isASCII(s) {
		return s, nil
	}
	folded := ligatureReplacer.Replace(s)
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, folded)
	if err != nil {
		return s, err
	}
	if !isASCII(out) {
		return out, ErrNotTransliterable
	}
	return out, nil
}

// NormalizeLabel transliterates s and strips literal periods so abbreviations
// like "St." become directory-name friendly. The original value is returned
// alongside ErrNotTransliterable when folding is incomplete.
func NormalizeLabel(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	stripped := strings.ReplaceAll(s, ".", "")
	out, err := Transliterate(stripped)
	if err != nil {
		return stripped, err
	}
	return strings.TrimSpace(out), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
