package named

import (
	"unicode/utf8"

	"github.com/cognicore/nerkit/pkg/nerkit/analyzer"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// item is one building block of a named-entity run: a type word, a name, or a
// cross-reference to another entity.
type item struct {
	begin, end token.ID

	kind    string
	typ     string
	name    string
	defType string

	wellKnown bool
	inBracket bool

	// known is the ontology referent a well-known name was resolved from.
	known *referent.Referent

	ref      *referent.Referent
	refKind  string
	embedded bool
}

func (it *item) isName() bool { return it.name != "" }

var closingQuote = map[string]rune{
	"(": ')', "[": ']', "{": '}', "«": '»', "“": '”', "„": '“', "\"": '"',
}

// parseItem reads the item starting at id. Candidates are tried in priority
// order: an already extracted entity, an ontology entity, a type word, a
// well-known name, a bracketed name, a capitalized word. A well-known name
// that runs past a type word starting at the same token wins over it.
func (p *Parser) parseItem(k *analyzer.Kit, id token.ID) *item {
	s := k.Stream
	t := s.Get(id)
	if t == nil {
		return nil
	}
	if t.Kind == token.KindComposite {
		r := t.Referent
		if r == nil || r.Type() != referent.TypeNamedEntity {
			return nil
		}
		kind, _ := r.StringValue(referent.SlotKind)
		return &item{begin: id, end: id, ref: r, refKind: kind, embedded: true}
	}
	if t.Kind != token.KindText {
		return nil
	}

	if t.Chars.IsLetter() && !t.Chars.IsAllLower() {
		if e, end, ok := k.Ontology.MatchEntity(s, id); ok {
			switch {
			case e.Kind == KindPerson || e.Kind == KindGeo:
				return &item{begin: id, end: end, ref: e.Referent.Clone(), refKind: e.Kind}
			case kinds[e.Kind]:
				name, _ := e.Referent.StringValue(referent.SlotName)
				if name == "" {
					name = e.Term
				}
				def, _ := e.Referent.StringValue(referent.SlotType)
				return &item{begin: id, end: end, kind: e.Kind, name: name, defType: def, wellKnown: true, known: e.Referent}
			}
		}
	}

	n, nameOK := p.terms.names.TryParse(s, id)
	if m, ok := p.terms.types.TryParse(s, id); ok && t.Chars.IsLetter() && (!nameOK || !longer(s, n.End, m.End)) {
		it := &item{begin: id, end: m.End, kind: m.Termin.Tag, typ: m.Termin.Canonical}
		if nameOK && n.End == m.End && !t.Chars.IsAllLower() && n.Termin.Tag.Kind == it.kind {
			it.name = n.Termin.Tag.Name
			it.wellKnown = true
		}
		return it
	}

	if nameOK && t.Chars.IsLetter() {
		if t.Chars.IsAllLower() {
			return nil
		}
		def := n.Termin.Tag
		return &item{
			begin:     id,
			end:       n.End,
			kind:      def.Kind,
			name:      def.Name,
			defType:   def.Type,
			wellKnown: !def.Weak && bounded(s, id, n.End),
		}
	}

	if _, ok := closingQuote[s.Text(id)]; ok {
		return p.parseBracket(k, id)
	}

	if !t.Chars.IsLetter() || t.Chars.IsAllLower() || p.terms.stopwords[t.Term] {
		return nil
	}
	if utf8.RuneCountInString(s.Text(id)) <= 2 {
		return nil
	}
	it := &item{begin: id, end: id, name: s.Text(id)}
	for {
		h := s.Next(it.end)
		w := s.Next(h)
		if !s.IsHyphen(h) || s.Get(h).IsWhitespaceBefore() || s.Get(w) == nil || s.Get(w).IsWhitespaceBefore() {
			break
		}
		if !s.IsText(w) || !s.Get(w).Chars.IsLetter() {
			break
		}
		it.name += "-" + s.Text(w)
		it.end = w
	}
	return it
}

// parseBracket reads a quoted or bracketed name such as «Titanic» or (Sample).
func (p *Parser) parseBracket(k *analyzer.Kit, id token.ID) *item {
	s := k.Stream
	closing, ok := closingQuote[s.Text(id)]
	if !ok {
		return nil
	}
	first := s.Next(id)
	ft := s.Get(first)
	if ft == nil || ft.NewlineBefore || ft.Kind != token.KindText || !ft.Chars.IsLetter() || ft.Chars.IsAllLower() {
		return nil
	}
	end := token.NoID
	for cur, n := first, 0; cur != token.NoID && n < maxBracketTokens; cur, n = s.Next(cur), n+1 {
		ct := s.Get(cur)
		if cur != first && ct.NewlineBefore {
			return nil
		}
		if s.IsChar(cur, closing) {
			end = cur
			break
		}
	}
	if end == token.NoID || end == first {
		return nil
	}
	if utf8.RuneCountInString(s.SourceText(id, end)) <= 3 {
		return nil
	}
	last := s.Prev(end)

	it := &item{begin: id, end: end, name: s.SourceText(first, last), inBracket: true}
	if n, ok := p.terms.names.TryParse(s, first); ok && n.End == last {
		def := n.Termin.Tag
		it.name = def.Name
		it.kind = def.Kind
		it.defType = def.Type
		it.wellKnown = !def.Weak
		return it
	}
	if m, ok := p.terms.types.TryParse(s, first); ok && m.End == last {
		return nil
	}
	return it
}

// longer reports whether a ends after b.
func longer(s *token.Stream, a, b token.ID) bool {
	return s.Get(a).End > s.Get(b).End
}

// bounded reports whether a name stands apart from its neighbours: whitespace
// or the text edge before it, and whitespace, the text edge or closing
// punctuation after it.
func bounded(s *token.Stream, begin, end token.ID) bool {
	if s.Prev(begin) != token.NoID && !s.Get(begin).IsWhitespaceBefore() {
		return false
	}
	next := s.Next(end)
	if next == token.NoID || s.Get(next).IsWhitespaceBefore() {
		return true
	}
	return s.IsCharOf(next, ",.;:!?") && s.IsWhitespaceAfter(next)
}
