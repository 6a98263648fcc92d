package token

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTerm returns the canonical term form of a single word: NFC, upper case.
func NormalizeTerm(word string) string {
	return cases.Upper(language.Und).String(norm.NFC.String(word))
}

// SplitWords splits a phrase the same way the tokenizer does: letter runs,
// digit runs and single other characters. Whitespace separates but is dropped.
func SplitWords(phrase string) []string {
	var out []string
	var cur strings.Builder
	curClass := 0

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
		curClass = 0
	}

	for _, r := range norm.NFC.String(phrase) {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsLetter(r) || (unicode.Is(unicode.Mn, r) && curClass == 1):
			if curClass != 1 {
				flush()
				curClass = 1
			}
			cur.WriteRune(r)
		case r >= '0' && r <= '9':
			if curClass != 2 {
				flush()
				curClass = 2
			}
			cur.WriteRune(r)
		default:
			flush()
			out = append(out, string(r))
		}
	}
	flush()
	return out
}

// PhraseKey normalizes a phrase into the space-joined term sequence used for lookups.
func PhraseKey(phrase string) string {
	ws := SplitWords(phrase)
	for i, w := range ws {
		ws[i] = NormalizeTerm(w)
	}
	return strings.Join(ws, " ")
}
