// Package uri recognizes URLs, bare domain names, email addresses and
// identifier schemes such as ISBN or ISO numbers, and turns them into Uri
// referents holding a scheme and a value.
package uri

import (
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/analyzer"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Name is the analyzer name of the uri parser.
const Name = "uri"

// Parser implements analyzer.Parser for URIs.
type Parser struct {
	domains *Domains
	schemes *Schemes
}

// NewParser creates a parser over a domain table and a scheme table.
func NewParser(domains *Domains, schemes *Schemes) *Parser {
	return &Parser{domains: domains, schemes: schemes}
}

// Name implements analyzer.Parser.
func (p *Parser) Name() string { return Name }

// Domains returns the top-level domain table.
func (p *Parser) Domains() *Domains { return p.domains }

func newURI(scheme, value string) *referent.Referent {
	r := referent.New(referent.TypeUri)
	r.AddSlot(referent.SlotValue, referent.String(value), false)
	r.AddSlot(referent.SlotScheme, referent.String(scheme), true)
	return r
}

func single(begin, end token.ID, r *referent.Referent) (analyzer.Match, bool) {
	var m analyzer.Match
	m.Add(begin, end, r)
	return m, true
}

// TryParse implements analyzer.Parser.
func (p *Parser) TryParse(k *analyzer.Kit, id token.ID) (analyzer.Match, bool) {
	s := k.Stream
	t := s.Get(id)
	if t == nil || t.Kind == token.KindComposite {
		return analyzer.Match{}, false
	}
	if t.Chars.IsLetter() {
		if m, ok := p.trySchemes(s, id); ok {
			return m, true
		}
	}
	if s.IsChar(id, '@') {
		return p.tryEmail(s, id)
	}
	if m, ok := p.tryBareURL(s, id); ok {
		return m, true
	}
	if m, ok := p.trySiteContent(s, id); ok {
		return m, true
	}
	if t.Kind == token.KindNumber && t.LengthChar() < 3 && s.IsChar(s.Next(id), ':') &&
		!s.IsWhitespaceAfter(id) && !s.IsWhitespaceAfter(s.Next(id)) && s.IsNumber(s.Next(s.Next(id))) {
		if c := attachCadastral(s, id); c != nil {
			return single(c.begin, c.end, newURI("cadastral", c.value))
		}
	}
	return analyzer.Match{}, false
}

// trySchemes dispatches on a scheme word starting at id.
func (p *Parser) trySchemes(s *token.Stream, id token.ID) (analyzer.Match, bool) {
	m, ok := p.schemes.dict.TryParse(s, id)
	if !ok {
		return analyzer.Match{}, false
	}
	sc := m.Termin.Tag
	tt := m.End
	// "ISBN (ISBN)" style repeats
	if open := s.Next(tt); s.IsChar(open, '(') {
		if again, ok := p.schemes.dict.TryParse(s, s.Next(open)); ok && again.Termin.Tag == sc && s.IsChar(s.Next(again.End), ')') {
			tt = s.Next(again.End)
		}
	}

	switch sc.Kind {
	case KindGeneric:
		colon := s.Next(tt)
		if !s.IsCharOf(colon, ":|") || s.Get(colon).IsWhitespaceBefore() || s.WhitespacesAfter(colon) > 2 {
			return analyzer.Match{}, false
		}
		t1 := s.Next(colon)
		for s.IsCharOf(t1, `/\`) {
			t1 = s.Next(t1)
		}
		if t1 == token.NoID || s.Get(t1).WhitespacesBefore > 2 {
			return analyzer.Match{}, false
		}
		ut := p.attachURIContent(s, t1, false)
		if ut == nil {
			return analyzer.Match{}, false
		}
		return p.linkMatch(s, id, ut.end, newURI(strings.ToLower(sc.Name), ut.value))

	case KindWeb:
		colon := s.Next(tt)
		if !s.IsChar(colon, ':') {
			return analyzer.Match{}, false
		}
		t1 := s.Next(colon)
		for s.IsCharOf(t1, `/\`) {
			t1 = s.Next(t1)
		}
		if s.IsValue(t1, "WWW") && s.IsChar(s.Next(t1), '.') {
			t1 = s.Next(s.Next(t1))
		}
		if t1 == token.NoID || s.Get(t1).NewlineBefore {
			return analyzer.Match{}, false
		}
		ut := p.attachURIContent(s, t1, true)
		if ut == nil || len(ut.value) < 4 {
			return analyzer.Match{}, false
		}
		return p.linkMatch(s, id, ut.end, newURI(strings.ToLower(sc.Name), ut.value))

	case KindWWW:
		dot := s.Next(tt)
		if !s.IsChar(dot, '.') || s.Get(dot).IsWhitespaceBefore() {
			return analyzer.Match{}, false
		}
		ut := p.attachURIContent(s, s.Next(dot), true)
		if ut == nil {
			return analyzer.Match{}, false
		}
		return p.linkMatch(s, id, ut.end, newURI("http", ut.value))

	case KindCode, KindStandard:
		t0 := s.Next(tt)
		if s.IsChar(t0, ':') {
			t0 = s.Next(t0)
		}
		var ut *span
		switch {
		case sc.Kind == KindStandard:
			ut = attachStandard(s, t0, ":")
		case strings.EqualFold(sc.Name, "ISBN"):
			ut = attachISBN(s, t0)
		default:
			ut = attachClassCode(s, t0)
		}
		if ut == nil {
			return analyzer.Match{}, false
		}
		r := newURI(sc.Name, ut.value)
		end := ut.end
		if sc.Kind == KindStandard {
			if detail, closing := bracketDetail(s, end); closing != token.NoID {
				r.AddSlot(referent.SlotDetail, referent.String(detail), true)
				end = closing
			}
		}
		return single(id, end, r)

	case KindHandle:
		t0 := s.Next(tt)
		for s.IsCharOf(t0, ":|") || s.IsHyphen(t0) {
			t0 = s.Next(t0)
		}
		if t0 == token.NoID {
			return analyzer.Match{}, false
		}
		ut := p.attachHandle(s, t0)
		if ut == nil {
			return analyzer.Match{}, false
		}
		return single(id, ut.end, newURI(strings.ToLower(sc.Name), strings.ToLower(ut.value)))

	case KindNumber:
		t0 := s.Next(tt)
		if s.IsChar(t0, ':') || s.IsHyphen(t0) {
			t0 = s.Next(t0)
		}
		ut := attachDigits(s, t0, sc.Min, sc.Max)
		if ut == nil {
			return analyzer.Match{}, false
		}
		return single(id, ut.end, newURI(sc.Name, ut.value))

	case KindCadastral:
		t0 := s.Next(tt)
		for s.IsCharOf(t0, ":|") || s.IsHyphen(t0) {
			t0 = s.Next(t0)
		}
		c := attachCadastral(s, t0)
		if c == nil {
			return analyzer.Match{}, false
		}
		return single(id, c.end, newURI("cadastral", c.value))
	}
	return analyzer.Match{}, false
}

// linkMatch widens a link span over a preceding site keyword and a trailing slash.
func (p *Parser) linkMatch(s *token.Stream, begin, end token.ID, r *referent.Referent) (analyzer.Match, bool) {
	if kw := siteBefore(s, s.Prev(begin)); kw != token.NoID {
		begin = kw
	}
	if s.IsCharOf(s.Next(end), `/\`) {
		end = s.Next(end)
	}
	return single(begin, end, r)
}

// tryEmail builds an address around the "@" at id. The domain is not checked
// against the top-level domain table. An email, e-mail or mailto keyword just
// before the address is absorbed into the span.
func (p *Parser) tryEmail(s *token.Stream, id token.ID) (analyzer.Match, bool) {
	user := attachMailUser(s, s.Prev(id))
	if user == nil {
		return analyzer.Match{}, false
	}
	dom := p.attachDomain(s, s.Next(id), false, true)
	if dom == nil {
		return analyzer.Match{}, false
	}
	r := newURI("mailto", strings.ToLower(user.value+"@"+dom.value))
	return single(mailKeyword(s, user.begin), dom.end, r)
}

func mailKeyword(s *token.Stream, begin token.ID) token.ID {
	t0 := s.Prev(begin)
	if s.IsChar(t0, ':') {
		t0 = s.Prev(t0)
	}
	br := false
	for t := t0; t != token.NoID; t = s.Prev(t) {
		tok := s.Get(t)
		if tok.Kind != token.KindText {
			break
		}
		if t != t0 && s.WhitespacesAfter(t) > 1 {
			break
		}
		switch {
		case s.IsChar(t, ')'):
			br = true
			continue
		case s.IsChar(t, '('):
			if !br {
				return begin
			}
			br = false
			continue
		case s.IsValue(t, "EMAIL") || s.IsValue(t, "MAILTO"):
			return t
		case s.IsValue(t, "MAIL"):
			if h := s.Prev(t); s.IsHyphen(h) && s.IsValue(s.Prev(h), "E") {
				return s.Prev(h)
			}
			return t
		}
		if !tok.Chars.IsAllLower() {
			break
		}
	}
	return begin
}

// tryBareURL matches a host name standing on its own, such as "example.com" or
// "example.com/docs?q=1". The host must follow whitespace, "," or "(".
func (p *Parser) tryBareURL(s *token.Stream, id token.ID) (analyzer.Match, bool) {
	t := s.Get(id)
	if t.Chars.IsCyrillic() {
		return analyzer.Match{}, false
	}
	if prev := s.Prev(id); prev != token.NoID && !t.IsWhitespaceBefore() && !s.IsCharOf(prev, ",(") {
		return analyzer.Match{}, false
	}
	u := p.attachURL(s, id)
	if u == nil {
		return analyzer.Match{}, false
	}
	if next := s.Next(u.end); next != token.NoID && !s.IsWhitespaceAfter(u.end) && s.IsChar(next, '@') {
		return analyzer.Match{}, false
	}
	if s.IsCharOf(s.Next(u.end), `\/`) {
		if u2 := p.attachURIContent(s, id, false); u2 != nil {
			u = u2
		}
	}
	begin := u.begin
	if kw := siteBefore(s, s.Prev(begin)); kw != token.NoID {
		begin = kw
	}
	return single(begin, u.end, newURI("http", u.value))
}

// trySiteContent accepts a dotted address right after a site keyword even when
// its top-level domain is unknown, as in "website: shop.example".
func (p *Parser) trySiteContent(s *token.Stream, id token.ID) (analyzer.Match, bool) {
	t := s.Get(id)
	if t.Kind != token.KindText || s.IsWhitespaceAfter(id) || t.LengthChar() <= 2 {
		return analyzer.Match{}, false
	}
	kw := siteBefore(s, s.Prev(id))
	if kw == token.NoID {
		return analyzer.Match{}, false
	}
	ut := p.attachURIContent(s, id, true)
	if ut == nil || strings.IndexByte(ut.value, '.') <= 0 || strings.IndexByte(ut.value, '@') > 0 {
		return analyzer.Match{}, false
	}
	end := ut.end
	if s.IsCharOf(s.Next(end), `/\`) {
		end = s.Next(end)
	}
	return single(kw, end, newURI("http", ut.value))
}

// siteBefore returns the first token of a "website", "web site", "site", "web"
// or "www" keyword ending at t, optionally followed by ":".
func siteBefore(s *token.Stream, t token.ID) token.ID {
	if s.IsChar(t, ':') {
		t = s.Prev(t)
	}
	if t == token.NoID {
		return token.NoID
	}
	if s.IsValue(t, "WEBSITE") || s.IsValue(t, "WEB") || s.IsValue(t, "WWW") {
		return t
	}
	if !s.IsValue(t, "SITE") {
		return token.NoID
	}
	t0 := t
	t = s.Prev(t)
	if s.IsHyphen(t) {
		t = s.Prev(t)
	}
	if s.IsValue(t, "WEB") {
		t0 = t
	}
	return t0
}

// bracketDetail reads a parenthesized note right after a standard number, as in
// "ISO 9001 (quality management)".
func bracketDetail(s *token.Stream, end token.ID) (string, token.ID) {
	open := s.Next(end)
	if !s.IsChar(open, '(') || s.WhitespacesAfter(end) > 2 {
		return "", token.NoID
	}
	for t, n := s.Next(open), 0; t != token.NoID && n < 100; t, n = s.Next(t), n+1 {
		if s.Get(t).NewlineBefore {
			break
		}
		if s.IsChar(t, ')') {
			if t == s.Next(open) {
				break
			}
			return s.SourceText(s.Next(open), s.Prev(t)), t
		}
	}
	return "", token.NoID
}
