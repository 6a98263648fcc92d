package measure

import (
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// number is a parsed numeric value and the tokens it spans.
type number struct {
	value string
	begin token.ID
	end   token.ID
}

// adjacent reports whether id directly follows its predecessor with no whitespace.
func adjacent(s *token.Stream, id token.ID) bool {
	t := s.Get(id)
	return t != nil && !t.IsWhitespaceBefore()
}

// parseNumber reads an integer, a decimal written as "d.d" or "d,d", or a
// comma-grouped integer such as "1,250,000". A minus sign glued to the digits
// is accepted when neg is set.
func parseNumber(s *token.Stream, id token.ID, neg bool) (number, bool) {
	n := number{begin: id}
	sign := ""
	if neg && s.IsHyphen(id) && s.IsNumber(s.Next(id)) && adjacent(s, s.Next(id)) {
		sign = "-"
		id = s.Next(id)
	}
	t := s.Get(id)
	if t == nil || t.Kind != token.KindNumber {
		return number{}, false
	}
	if sep := s.Prev(n.begin); s.IsCharOf(sep, ".,") && adjacent(s, n.begin) && adjacent(s, sep) && s.IsNumber(s.Prev(sep)) {
		// tail of a longer number
		return number{}, false
	}
	n.end = id

	if t.Spelling == token.SpellingWords {
		n.value = sign + t.Value
		return n, true
	}

	intPart := s.Text(id)
	frac := ""
	for {
		sep := s.Next(n.end)
		digits := s.Next(sep)
		if !s.IsCharOf(sep, ".,") || !adjacent(s, sep) || !adjacent(s, digits) {
			break
		}
		d := s.Get(digits)
		if d == nil || d.Kind != token.KindNumber || d.Spelling != token.SpellingDigit {
			break
		}
		txt := s.Text(digits)
		if frac == "" && s.IsChar(sep, ',') && len(txt) == 3 && !strings.HasPrefix(intPart, "0") {
			intPart += txt
			n.end = digits
			continue
		}
		if frac != "" {
			break
		}
		if s.IsChar(s.Next(digits), '.') && s.IsNumber(s.Next(s.Next(digits))) && adjacent(s, s.Next(digits)) {
			// dotted sequences like versions or addresses are not numbers
			return number{}, false
		}
		frac = txt
		n.end = digits
		break
	}

	n.value = sign + canonical(intPart, frac)
	return n, true
}

// canonical strips leading zeros of the integer part and trailing zeros of the
// fraction.
func canonical(intPart, frac string) string {
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return intPart
	}
	return intPart + "." + frac
}
