package uri

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// span is a recognized piece of text and the tokens it covers.
type span struct {
	begin, end token.ID
	value      string
}

const (
	uriChars   = ".;:-_=+&%#@/\\?[]()!~"
	pathChars  = ".-_+%"
	queryChars = ".-_+%=&"
)

// pageExtensions let a path continue across a single space.
var pageExtensions = map[string]bool{
	"HTM": true, "HTML": true, "SHTML": true, "ASP": true, "ASPX": true, "JSP": true, "PHP": true,
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// attachDomain reads a host name: letter and digit runs joined by ".", "-" or
// "_". With check set, the host must be an IPv4 literal, localhost, or end in a
// known top-level domain. With spaces set, a space after "." or "-" is
// tolerated when a known top-level domain follows.
func (p *Parser) attachDomain(s *token.Stream, t0 token.ID, check, spaces bool) *span {
	var sb strings.Builder
	t1 := t0
	ipCount := 0
	isIP := true

loop:
	for t := t0; t != token.NoID; t = s.Next(t) {
		tok := s.Get(t)
		if t != t0 && tok.IsWhitespaceBefore() {
			if tok.NewlineBefore || !spaces || !p.tldAhead(s, t) {
				break
			}
		}
		switch tok.Kind {
		case token.KindNumber:
			if tok.Spelling != token.SpellingDigit || !tok.HasInt {
				break loop
			}
			sb.WriteString(s.Text(t))
			t1 = t
			if tok.Int >= 0 && tok.Int < 256 {
				ipCount++
			} else {
				isIP = false
			}
		case token.KindText:
			src := s.Text(t)
			if ch := firstRune(src); !unicode.IsLetter(ch) {
				if !strings.ContainsRune(".-_", ch) {
					break loop
				}
				if ch != '.' {
					isIP = false
				}
			} else {
				isIP = false
			}
			sb.WriteString(strings.ToLower(src))
			t1 = t
		default:
			break loop
		}
	}

	txt := sb.String()
	if txt == "" {
		return nil
	}
	if ipCount != 4 {
		isIP = false
	}
	points := 0
	for i := 0; i < len(txt); i++ {
		if txt[i] != '.' {
			continue
		}
		if i == 0 {
			return nil
		}
		if i == len(txt)-1 {
			txt = txt[:i]
			t1 = s.Prev(t1)
			break
		}
		if txt[i-1] == '.' || txt[i+1] == '.' {
			return nil
		}
		points++
	}
	if points == 0 && txt != "localhost" {
		return nil
	}
	if check {
		ok := isIP || txt == "localhost"
		if !ok && s.IsChar(s.Prev(t1), '.') && p.domains.Has(s.Text(t1)) {
			ok = true
		}
		if !ok {
			return nil
		}
	}
	return &span{begin: t0, end: t1, value: txt}
}

// tldAhead looks past a space inside a host name for a known top-level domain.
func (p *Parser) tldAhead(s *token.Stream, t token.ID) bool {
	for tt := t; tt != token.NoID; tt = s.Next(tt) {
		if s.IsChar(tt, '.') || s.IsHyphen(tt) {
			continue
		}
		tok := s.Get(tt)
		if tok.IsWhitespaceBefore() {
			if tok.NewlineBefore {
				return false
			}
			if prev := s.Prev(tt); !s.IsChar(prev, '.') && !s.IsHyphen(prev) {
				return false
			}
		}
		if tok.Kind != token.KindText {
			return false
		}
		if p.domains.Has(s.Text(tt)) {
			return true
		}
		if !tok.Chars.IsLatin() || !tok.Chars.IsLetter() {
			return false
		}
	}
	return false
}

// attachContent reads an optional host followed by path characters from chars,
// keeping () and [] balanced. A single space is crossed only after a host and
// only when a page extension or a slash follows.
func (p *Parser) attachContent(s *token.Stream, t0 token.ID, chars string, spaces bool) *span {
	dom := p.attachDomain(s, t0, true, spaces)
	if dom != nil && len(dom.value) < 3 {
		return nil
	}
	var sb strings.Builder
	t1 := t0
	var open rune
	t := t0
	if dom != nil {
		t = s.Next(dom.end)
	}

loop:
	for ; t != token.NoID; t = s.Next(t) {
		tok := s.Get(t)
		if t != t0 && tok.IsWhitespaceBefore() {
			if tok.NewlineBefore || !spaces || dom == nil {
				break
			}
			prev := s.Prev(t)
			switch {
			case s.IsHyphen(prev):
			case s.IsCharOf(prev, ",;"):
				break loop
			case s.IsChar(prev, '.') && tok.Chars.IsLetter() && utf8.RuneCountInString(s.Text(t)) == 2:
			default:
				if !pathAhead(s, t, chars) {
					break loop
				}
			}
		}
		switch tok.Kind {
		case token.KindNumber:
			sb.WriteString(s.Text(t))
			t1 = t
			continue
		case token.KindText:
		default:
			break loop
		}
		src := s.Text(t)
		if ch := firstRune(src); !unicode.IsLetter(ch) {
			if !strings.ContainsRune(chars, ch) {
				break
			}
			switch ch {
			case '(', '[':
				open = ch
			case ')':
				if open != '(' {
					break loop
				}
				open = 0
			case ']':
				if open != '[' {
					break loop
				}
				open = 0
			}
		}
		sb.WriteString(src)
		t1 = t
	}

	txt := sb.String()
	if txt == "" || strings.IndexFunc(txt, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
		return dom
	}
	if strings.HasSuffix(txt, ".") || strings.HasSuffix(txt, "/") {
		txt = txt[:len(txt)-1]
		t1 = s.Prev(t1)
	}
	if dom != nil {
		txt = dom.value + txt
	}
	if strings.HasPrefix(txt, `\\`) {
		txt = "//" + txt[2:]
	}
	if strings.EqualFold(strings.TrimPrefix(txt, "//"), "www") {
		return nil
	}
	return &span{begin: t0, end: t1, value: txt}
}

// pathAhead reports whether the word after a space still reads as a path.
func pathAhead(s *token.Stream, t token.ID, chars string) bool {
	tt := t
	if s.IsCharOf(t, `\/`) {
		tt = s.Next(t)
	}
	for first := tt; tt != token.NoID; tt = s.Next(tt) {
		tok := s.Get(tt)
		if tt != first && tok.IsWhitespaceBefore() {
			return false
		}
		if tok.Kind == token.KindNumber {
			continue
		}
		if tok.Kind != token.KindText {
			return false
		}
		if pageExtensions[tok.Term] {
			return true
		}
		if !tok.Chars.IsLetter() {
			if s.IsCharOf(tt, `\/`) {
				return true
			}
			if !strings.ContainsRune(chars, firstRune(s.Text(tt))) {
				return false
			}
		} else if !tok.Chars.IsLatin() {
			return false
		}
	}
	return false
}

// attachURIContent is attachContent over the full URI alphabet with trailing
// punctuation trimmed and backslashes turned into slashes.
func (p *Parser) attachURIContent(s *token.Stream, t0 token.ID, spaces bool) *span {
	res := p.attachContent(s, t0, uriChars, spaces)
	if res == nil {
		return nil
	}
	if s.IsCharOf(res.end, ".;-:") && len(res.value) > 3 {
		res.end = s.Prev(res.end)
		res.value = res.value[:len(res.value)-1]
	}
	res.value = strings.TrimSuffix(res.value, "/")
	res.value = strings.TrimSuffix(res.value, `\`)
	if strings.IndexByte(res.value, '\\') > 0 {
		res.value = strings.ReplaceAll(res.value, `\`, "/")
	}
	return res
}

// attachURL reads a bare host with an optional port, path, query and fragment.
func (p *Parser) attachURL(s *token.Stream, t0 token.ID) *span {
	srv := p.attachDomain(s, t0, true, false)
	if srv == nil {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(srv.value)
	t1 := srv.end
	if colon := s.Next(t1); s.IsChar(colon, ':') && s.IsNumber(s.Next(colon)) {
		t1 = s.Next(colon)
		sb.WriteString(":" + s.Text(t1))
	}
	for t := s.Next(t1); t != token.NoID; t = s.Next(t) {
		if s.Get(t).IsWhitespaceBefore() || !s.IsChar(t, '/') {
			break
		}
		if s.IsWhitespaceAfter(t) {
			t1 = t
			break
		}
		dat := p.attachContent(s, s.Next(t), pathChars, false)
		if dat == nil {
			t1 = t
			break
		}
		t1 = dat.end
		t = t1
		sb.WriteString("/" + dat.value)
	}
	for _, part := range []struct {
		mark  rune
		chars string
	}{{'?', queryChars}, {'#', pathChars}} {
		mark := s.Next(t1)
		if !s.IsChar(mark, part.mark) || s.IsWhitespaceAfter(mark) || s.IsWhitespaceAfter(t1) {
			continue
		}
		if dat := p.attachContent(s, s.Next(mark), part.chars, false); dat != nil {
			t1 = dat.end
			sb.WriteString(string(part.mark) + dat.value)
		}
	}
	txt := sb.String()
	if strings.IndexFunc(txt, unicode.IsLetter) < 0 && !isIPv4(srv.value) {
		return nil
	}
	return &span{begin: t0, end: t1, value: txt}
}

func isIPv4(v string) bool {
	parts := strings.Split(v, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return false
		}
	}
	return true
}

// attachMailUser collects the local part of an address backwards from t1.
func attachMailUser(s *token.Stream, t1 token.ID) *span {
	if t1 == token.NoID {
		return nil
	}
	var parts []string
	t0 := t1
	for t := t1; t != token.NoID; t = s.Prev(t) {
		if s.IsWhitespaceAfter(t) {
			break
		}
		tok := s.Get(t)
		if tok.Kind == token.KindNumber {
			parts = append(parts, s.Text(t))
			t0 = t
			continue
		}
		if tok.Kind != token.KindText {
			break
		}
		src := s.Text(t)
		if ch := firstRune(src); !unicode.IsLetter(ch) && !strings.ContainsRune(".-_", ch) {
			break
		}
		parts = append(parts, src)
		t0 = t
	}
	if len(parts) == 0 {
		return nil
	}
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
	}
	return &span{begin: t0, end: t1, value: strings.ToLower(sb.String())}
}

// attachISBN reads digit groups joined by hyphens, optionally closed by an X
// check digit. At least 7 digits are required.
func attachISBN(s *token.Stream, t0 token.ID) *span {
	var sb strings.Builder
	t1 := t0
	digits := 0
	for t := t0; t != token.NoID; t = s.Next(t) {
		tok := s.Get(t)
		if t != t0 && tok.NewlineBefore && !s.IsHyphen(s.Prev(t)) {
			break
		}
		if tok.Kind == token.KindNumber {
			if tok.Spelling != token.SpellingDigit {
				break
			}
			d := s.Text(t)
			sb.WriteString(d)
			digits += len(d)
			t1 = t
			if digits > 13 {
				break
			}
			continue
		}
		if tok.Kind != token.KindText {
			break
		}
		if s.IsHyphen(t) {
			sb.WriteByte('-')
			t1 = t
			continue
		}
		if tok.Term != "X" {
			break
		}
		sb.WriteByte('X')
		t1 = t
		break
	}
	if countDigits(sb.String()) < 7 {
		return nil
	}
	return &span{begin: t0, end: t1, value: sb.String()}
}

// attachClassCode reads a classification index such as "681.3.06" or
// "32.973(2)": digits and punctuation up to a comma, a line break or a
// separate word.
func attachClassCode(s *token.Stream, t0 token.ID) *span {
	var sb strings.Builder
	t1 := t0
	digits := 0
	for t := t0; t != token.NoID; t = s.Next(t) {
		tok := s.Get(t)
		if t != t0 && tok.NewlineBefore {
			break
		}
		if tok.Kind == token.KindNumber {
			if tok.Spelling != token.SpellingDigit {
				break
			}
			d := s.Text(t)
			sb.WriteString(d)
			digits += len(d)
			t1 = t
			continue
		}
		if tok.Kind != token.KindText || s.IsChar(t, ',') {
			break
		}
		if s.IsChar(t, '(') && !s.IsNumber(s.Next(t)) {
			break
		}
		if tok.Chars.IsLetter() && tok.IsWhitespaceBefore() {
			break
		}
		sb.WriteString(s.Text(t))
		t1 = t
	}
	txt := sb.String()
	if len(txt) < 3 || digits < 2 {
		return nil
	}
	if strings.HasSuffix(txt, ".") {
		txt = txt[:len(txt)-1]
		t1 = s.Prev(t1)
	}
	return &span{begin: t0, end: t1, value: txt}
}

// attachStandard reads a standard number: digit groups joined by one of sep,
// as in "9001:2015".
func attachStandard(s *token.Stream, t0 token.ID, sep string) *span {
	t := t0
	for t != token.NoID && (s.IsCharOf(t, `:/\`) || s.IsHyphen(t) || s.IsValue(t, "IEC")) {
		t = s.Next(t)
	}
	if !s.IsNumber(t) {
		return nil
	}
	var sb strings.Builder
	t1 := t
	var delim rune
	for ; t != token.NoID; t = s.Next(t) {
		tok := s.Get(t)
		if t != t1 && tok.IsWhitespaceBefore() {
			break
		}
		if tok.Kind == token.KindNumber {
			if delim != 0 {
				sb.WriteRune(delim)
			}
			delim = 0
			t1 = t
			sb.WriteString(s.Text(t))
			continue
		}
		if tok.Kind != token.KindText || !s.IsCharOf(t, sep) {
			break
		}
		delim = firstRune(s.Text(t))
	}
	if sb.Len() == 0 {
		return nil
	}
	return &span{begin: t0, end: t1, value: sb.String()}
}

// attachHandle reads a messenger or bank handle of at least 5 characters.
func (p *Parser) attachHandle(s *token.Stream, t0 token.ID) *span {
	if tok := s.Get(t0); tok == nil || tok.Chars.IsCyrillic() {
		return nil
	}
	res := p.attachContent(s, t0, "._", false)
	if res == nil || len(res.value) < 5 {
		return nil
	}
	return res
}

// attachDigits reads a hyphenated digit identifier whose length lies in [min, max].
func attachDigits(s *token.Stream, t0 token.ID, min, max int) *span {
	if !s.IsNumber(t0) {
		return nil
	}
	res := attachISBN(s, t0)
	if res == nil {
		return nil
	}
	res.value = strings.ReplaceAll(res.value, "-", "")
	if countDigits(res.value) != len(res.value) || len(res.value) < min || len(res.value) > max {
		return nil
	}
	return res
}

// attachCadastral reads four ":"-joined numbers such as "77:01:0004012:1234".
// A preceding registry keyword is absorbed into the span.
func attachCadastral(s *token.Stream, t token.ID) *span {
	first := s.Get(t)
	if first == nil || first.Kind != token.KindNumber || first.LengthChar() > 2 {
		return nil
	}
	if !first.IsWhitespaceBefore() && s.Prev(t) != token.NoID && !s.IsChar(s.Prev(t), ',') {
		return nil
	}
	res := &span{begin: t, end: t}
	var vals []string
	for ; t != token.NoID; t = s.Next(t) {
		tok := s.Get(t)
		if tok.Kind != token.KindNumber || tok.Spelling != token.SpellingDigit {
			break
		}
		vals = append(vals, s.Text(t))
		res.end = t
		colon := s.Next(t)
		if s.IsChar(colon, ':') && s.IsNumber(s.Next(colon)) && !s.IsWhitespaceAfter(t) && !s.IsWhitespaceAfter(colon) {
			t = colon
			continue
		}
		break
	}
	if len(vals) != 4 {
		return nil
	}
	res.value = strings.Join(vals, ":")
	for tt := s.Prev(res.begin); tt != token.NoID; tt = s.Prev(tt) {
		if s.IsHyphen(tt) || s.IsCharOf(tt, ":.") {
			continue
		}
		if !s.IsText(tt) {
			break
		}
		term := s.Term(tt)
		if term == "CN" || strings.HasPrefix(term, "CADASTR") {
			res.begin = tt
			continue
		}
		break
	}
	return res
}

func countDigits(v string) int {
	n := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
