// Package named recognizes named entities of a closed set of kinds (planets,
// locations, monuments, buildings, works of art and awards) from runs of type
// words, proper names and references to previously extracted entities.
package named

import (
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/analyzer"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Name is the analyzer name of the named-entity parser.
const Name = "named"

const (
	maxRunItems      = 8
	maxBracketTokens = 20
	maxRunGap        = 2
)

// Parser implements analyzer.Parser for named entities.
type Parser struct {
	terms *Terms
}

// NewParser creates a parser over a term dictionary.
func NewParser(terms *Terms) *Parser {
	return &Parser{terms: terms}
}

// Name implements analyzer.Parser.
func (p *Parser) Name() string { return Name }

// Terms returns the dictionary the parser matches against.
func (p *Parser) Terms() *Terms { return p.terms }

// TryParse implements analyzer.Parser.
func (p *Parser) TryParse(k *analyzer.Kit, id token.ID) (analyzer.Match, bool) {
	if m, ok := p.tryAlias(k, id); ok {
		return m, true
	}
	items := p.parseRun(k, id)
	if len(items) == 0 {
		return analyzer.Match{}, false
	}
	return p.build(items)
}

// parseRun collects consecutive items starting at id. A line break or a wide
// gap ends the run. A lowercase connector word may introduce a reference.
func (p *Parser) parseRun(k *analyzer.Kit, id token.ID) []*item {
	s := k.Stream
	first := p.parseItem(k, id)
	if first == nil {
		return nil
	}
	items := []*item{first}
	for len(items) < maxRunItems {
		next := s.Next(items[len(items)-1].end)
		if !joinable(s, next) {
			break
		}
		it := p.parseItem(k, next)
		if it == nil {
			nt := s.Get(next)
			if nt.Kind != token.KindText || !nt.Chars.IsAllLower() || !p.terms.connectors[nt.Term] {
				break
			}
			if after := s.Next(next); joinable(s, after) {
				if r := p.parseItem(k, after); r != nil && r.ref != nil {
					it = r
				}
			}
		}
		if it == nil {
			break
		}
		items = append(items, it)
	}
	return items
}

func joinable(s *token.Stream, id token.ID) bool {
	t := s.Get(id)
	return t != nil && !t.NewlineBefore && t.WhitespacesBefore <= maxRunGap
}

// entity accumulates the parts of a run that agree with each other.
type entity struct {
	kind      string
	types     []string
	names     []string
	defType   string
	wellKnown bool
	known     *referent.Referent
	ref       *item
}

// accept folds it into e, or reports that it belongs to a different entity.
func (e *entity) accept(it *item, prev *item) bool {
	if it.ref != nil {
		if e.ref != nil {
			return false
		}
		if e.kind != "" && !compatible(e.kind, it.refKind) {
			return false
		}
		e.ref = it
		return true
	}
	if it.kind != "" && e.kind != "" && it.kind != e.kind {
		return false
	}
	if it.isName() {
		if len(e.names) > 0 {
			if it.inBracket || it.wellKnown != e.wellKnown {
				return false
			}
			if prev == nil || !prev.isName() || prev.typ != "" {
				return false
			}
		}
	}

	if it.kind != "" {
		e.kind = it.kind
	}
	if it.typ != "" && !contains(e.types, it.typ) {
		e.types = append(e.types, it.typ)
	}
	if it.isName() {
		e.names = append(e.names, it.name)
		e.wellKnown = it.wellKnown
		if e.defType == "" {
			e.defType = it.defType
		}
		if it.known != nil && e.known == nil {
			e.known = it.known
		}
	}
	return true
}

// valid applies the acceptance gate: a type with a name or a reference, a
// well-known name, or a name next to a reference.
func (e *entity) valid() bool {
	if e.ref != nil && e.kind == "" && len(e.names) > 0 && (e.ref.refKind == KindGeo || e.ref.refKind == KindLocation) {
		e.kind = KindLocation
	}
	if e.kind == "" {
		return false
	}
	if e.ref != nil && !compatible(e.kind, e.ref.refKind) {
		return false
	}
	hasName := len(e.names) > 0
	switch {
	case len(e.types) > 0:
		return hasName || e.ref != nil
	case hasName && e.wellKnown:
		return true
	case hasName && e.ref != nil:
		return true
	}
	return false
}

func (e *entity) referent() *referent.Referent {
	r := referent.New(referent.TypeNamedEntity)
	if len(e.names) > 0 {
		r.AddSlot(referent.SlotName, referent.String(strings.Join(e.names, " ")), false)
	}
	for _, t := range e.types {
		r.AddSlot(referent.SlotType, referent.String(t), false)
	}
	if len(e.types) == 0 && e.defType != "" {
		r.AddSlot(referent.SlotType, referent.String(e.defType), false)
	}
	r.AddSlot(referent.SlotKind, referent.String(e.kind), true)
	if e.known != nil {
		for _, sl := range e.known.Slots() {
			switch sl.Name {
			case referent.SlotName, referent.SlotKind, referent.SlotRef:
				continue
			}
			r.AddSlot(sl.Name, sl.Value, referent.IsSingleton(sl.Name))
		}
	}
	if e.ref != nil {
		r.AddSlot(referent.SlotRef, referent.Nested(e.ref.ref), false)
	}
	return r
}

// build cuts the run at the first item that disagrees with the ones before it
// and emits the entity when it passes the gate. A reference not yet in the
// stream is emitted first as an entity of its own.
func (p *Parser) build(items []*item) (analyzer.Match, bool) {
	var e entity
	used := 0
	for i, it := range items {
		var prev *item
		if i > 0 {
			prev = items[i-1]
		}
		if !e.accept(it, prev) {
			break
		}
		used = i + 1
	}
	items = items[:used]
	if len(items) == 0 || !e.valid() {
		return analyzer.Match{}, false
	}

	var m analyzer.Match
	if e.ref != nil && !e.ref.embedded {
		m.Add(e.ref.begin, e.ref.end, e.ref.ref)
	}
	m.Add(items[0].begin, items[len(items)-1].end, e.referent())
	return m, true
}

// tryAlias handles a bracketed name right after an extracted entity, as in
// "Example Region (Sample)". The alias copies every slot of the entity except
// its name and reference. Without such an entity of a matching kind the
// bracketed text is looked up in the ontology.
func (p *Parser) tryAlias(k *analyzer.Kit, id token.ID) (analyzer.Match, bool) {
	s := k.Stream
	if _, ok := closingQuote[s.Text(id)]; !ok {
		return analyzer.Match{}, false
	}
	it := p.parseBracket(k, id)
	if it == nil {
		return analyzer.Match{}, false
	}

	var m analyzer.Match
	parent := s.Referent(s.Prev(id))
	if parent != nil && (parent.Type() != referent.TypeNamedEntity || !joinable(s, id)) {
		parent = nil
	}
	if parent != nil && it.kind != "" {
		if kind, _ := parent.StringValue(referent.SlotKind); kind != it.kind {
			parent = nil
		}
	}
	if parent != nil {
		alias := referent.New(referent.TypeNamedEntity)
		for _, sl := range parent.Slots() {
			if sl.Name == referent.SlotName || sl.Name == referent.SlotRef {
				continue
			}
			alias.AddSlot(sl.Name, sl.Value, referent.IsSingleton(sl.Name))
		}
		alias.AddSlot(referent.SlotName, referent.String(it.name), false)
		m.Add(id, it.end, alias)
		return m, true
	}

	for _, e := range k.Ontology.Lookup(it.name) {
		if kinds[e.Kind] {
			m.Add(id, it.end, e.Referent.Clone())
			return m, true
		}
	}
	return analyzer.Match{}, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
