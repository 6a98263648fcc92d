package ingest

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Tokenizer turns raw text into a token stream: letter runs, digit runs and
// single punctuation characters, with whitespace recorded on the following token.
type Tokenizer struct {
	numberWords map[string]int64
}

var englishNumbers = map[string]int64{
	"ZERO": 0, "ONE": 1, "TWO": 2, "THREE": 3, "FOUR": 4, "FIVE": 5, "SIX": 6,
	"SEVEN": 7, "EIGHT": 8, "NINE": 9, "TEN": 10, "ELEVEN": 11, "TWELVE": 12,
	"THIRTEEN": 13, "FOURTEEN": 14, "FIFTEEN": 15, "SIXTEEN": 16, "SEVENTEEN": 17,
	"EIGHTEEN": 18, "NINETEEN": 19, "TWENTY": 20, "THIRTY": 30, "FORTY": 40,
	"FIFTY": 50, "SIXTY": 60, "SEVENTY": 70, "EIGHTY": 80, "NINETY": 90,
	"HUNDRED": 100, "THOUSAND": 1000,
}

// NewTokenizer creates a tokenizer that spells English number words as numbers.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{numberWords: englishNumbers}
}

// SetNumberWords replaces the word-to-number table; nil disables word numbers.
func (t *Tokenizer) SetNumberWords(words map[string]int64) {
	t.numberWords = make(map[string]int64, len(words))
	for w, v := range words {
		t.numberWords[token.NormalizeTerm(w)] = v
	}
}

const (
	classNone = iota
	classLetter
	classDigit
)

// Tokenize splits text into a fresh stream.
func (t *Tokenizer) Tokenize(text string) *token.Stream {
	s := token.NewStream(text)

	ws := 0
	newline := false
	start := -1
	class := classNone

	emit := func(end int) {
		if start < 0 {
			return
		}
		s.Append(t.makeToken(text, start, end, class, ws, newline))
		ws = 0
		newline = false
		start = -1
		class = classNone
	}

	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			emit(i)
			ws++
			if r == '\n' || r == '\r' {
				newline = true
			}
		case unicode.IsLetter(r) || (unicode.Is(unicode.Mn, r) && class == classLetter):
			if class != classLetter {
				emit(i)
				start = i
				class = classLetter
			}
		case r >= '0' && r <= '9':
			if class != classDigit {
				emit(i)
				start = i
				class = classDigit
			}
		default:
			emit(i)
			start = i
			class = classNone
			emit(i + utf8.RuneLen(r))
		}
	}
	emit(len(text))

	return s
}

func (t *Tokenizer) makeToken(text string, begin, end, class, ws int, newline bool) token.Token {
	word := text[begin:end]
	tok := token.Token{
		Kind:              token.KindText,
		Begin:             begin,
		End:               end,
		Term:              token.NormalizeTerm(word),
		WhitespacesBefore: ws,
		NewlineBefore:     newline,
	}

	switch class {
	case classDigit:
		tok.Kind = token.KindNumber
		tok.Chars = token.CharDigit
		tok.Spelling = token.SpellingDigit
		tok.Value = strings.TrimLeft(word, "0")
		if tok.Value == "" {
			tok.Value = "0"
		}
		if n, err := strconv.ParseInt(word, 10, 64); err == nil {
			tok.Int = n
			tok.HasInt = true
		}
	case classLetter:
		tok.Chars = letterChars(word)
		if v, ok := t.numberWords[tok.Term]; ok {
			tok.Kind = token.KindNumber
			tok.Spelling = token.SpellingWords
			tok.Value = strconv.FormatInt(v, 10)
			tok.Int = v
			tok.HasInt = true
		}
	default:
		tok.Chars = punctChars(word)
	}
	return tok
}

func letterChars(word string) token.Chars {
	c := token.CharLetter
	latin, cyr := true, true
	upper, lower := 0, 0
	first := true
	firstUpper := false
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.Is(unicode.Latin, r) {
			latin = false
		}
		if !unicode.Is(unicode.Cyrillic, r) {
			cyr = false
		}
		if unicode.IsUpper(r) {
			upper++
		} else if unicode.IsLower(r) {
			lower++
		}
		if first {
			firstUpper = unicode.IsUpper(r)
			first = false
		}
	}
	if latin {
		c |= token.CharLatin
	}
	if cyr {
		c |= token.CharCyrillic
	}
	switch {
	case lower == 0 && upper > 0:
		c |= token.CharAllUpper
	case upper == 0 && lower > 0:
		c |= token.CharAllLower
	case firstUpper && upper == 1:
		c |= token.CharCapitalUpper
	}
	return c
}

func punctChars(ch string) token.Chars {
	var c token.Chars
	switch ch {
	case "(", "[", "{", "«", "“":
		c |= token.CharBracketOpen
	case ")", "]", "}", "»", "”":
		c |= token.CharBracketClose
	case "-", "‐", "‑", "‒", "–", "—", "−":
		c |= token.CharHyphen
	}
	switch ch {
	case "\"", "'", "«", "»", "“", "”", "„":
		c |= token.CharQuote
	}
	return c
}
