// Package measure recognizes numeric values and ranges followed by unit
// expressions and turns them into Measure and Unit referents.
package measure

import (
	"github.com/cognicore/nerkit/pkg/nerkit/analyzer"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/termin"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Name is the analyzer name of the measure parser.
const Name = "measure"

// maxChain bounds the number of units in one expression.
const maxChain = 3

// Parser implements analyzer.Parser for measures.
type Parser struct {
	table    *Table
	prefixes *termin.Collection[string]
}

var prefixWords = map[string][]string{
	"~":  {"about", "approximately", "approx", "around", "roughly", "nearly"},
	"<":  {"less than", "fewer than", "under", "below"},
	">":  {"more than", "greater than", "over", "above"},
	"<=": {"up to", "at most", "no more than"},
	">=": {"at least", "no less than", "not less than"},
}

// NewParser creates a parser over a unit table.
func NewParser(table *Table) *Parser {
	p := &Parser{table: table, prefixes: termin.New[string](false)}
	for _, tmpl := range []string{"~", "<", ">", "<=", ">="} {
		words := prefixWords[tmpl]
		p.prefixes.Add(&termin.Termin[string]{Canonical: words[0], Variants: words[1:], Tag: tmpl})
	}
	return p
}

// Name implements analyzer.Parser.
func (p *Parser) Name() string { return Name }

// Table returns the unit table the parser resolves against.
func (p *Parser) Table() *Table { return p.table }

// TryParse implements analyzer.Parser.
func (p *Parser) TryParse(k *analyzer.Kit, id token.ID) (analyzer.Match, bool) {
	t := k.Stream.Get(id)
	if t == nil || t.Kind == token.KindComposite {
		return analyzer.Match{}, false
	}
	if m, ok := p.tryMinimal(k, id); ok {
		return m, true
	}
	if m, ok := p.tryPrefixUnit(k, id); ok {
		return m, true
	}
	return p.tryFull(k, id)
}

// tryMinimal matches a bracketed unit label such as "(kg)" or "[m/s]" and emits
// only the units.
func (p *Parser) tryMinimal(k *analyzer.Kit, id token.ID) (analyzer.Match, bool) {
	s := k.Stream
	var closing rune
	switch {
	case s.IsChar(id, '('):
		closing = ')'
	case s.IsChar(id, '['):
		closing = ']'
	default:
		return analyzer.Match{}, false
	}
	chain, end, ok := p.parseChain(k, s.Next(id))
	if !ok || !s.IsChar(s.Next(end), closing) {
		return analyzer.Match{}, false
	}
	if len(chain) == 1 {
		u := chain[0]
		if u.doubtful {
			return analyzer.Match{}, false
		}
		if u.begin == u.end && s.Get(u.begin).LengthChar() == 1 && s.Get(u.begin).Chars.IsLetter() {
			return analyzer.Match{}, false
		}
	}
	var m analyzer.Match
	for _, u := range chain {
		m.Add(u.begin, u.end, u.ref)
	}
	return m, true
}

// tryPrefixUnit matches units written before their value: "$25", "IP 65".
func (p *Parser) tryPrefixUnit(k *analyzer.Kit, id token.ID) (analyzer.Match, bool) {
	s := k.Stream
	um, ok := p.table.Match(s, id)
	if !ok || !um.Unit.Prefix {
		return analyzer.Match{}, false
	}
	u, uend := um.Unit, um.End
	start := s.Next(uend)
	if t := s.Get(start); t == nil || t.NewlineBefore || t.WhitespacesBefore > 1 {
		return analyzer.Match{}, false
	}
	values, tmpl, end, ok := p.parseValues(s, start, "")
	if !ok {
		return analyzer.Match{}, false
	}

	item := unitItem{ref: u.Referent(1), kind: u.Kind, pow: 1, begin: id, end: uend}
	var m analyzer.Match
	m.Add(item.begin, item.end, item.ref)
	m.Add(id, end, buildMeasure(values, tmpl, []unitItem{item}))
	return m, true
}

// tryFull matches [prefix] number [range | ±] unit-chain.
func (p *Parser) tryFull(k *analyzer.Kit, id token.ID) (analyzer.Match, bool) {
	s := k.Stream
	cur := id
	prefix := ""
	if tmpl, end, ok := p.parsePrefix(s, cur); ok {
		prefix = tmpl
		cur = s.Next(end)
	}

	values, tmpl, end, ok := p.parseValues(s, cur, prefix)
	if !ok {
		return analyzer.Match{}, false
	}

	next := s.Next(end)
	if t := s.Get(next); t == nil || t.NewlineBefore {
		return analyzer.Match{}, false
	}
	chain, chainEnd, ok := p.parseChain(k, next)
	if !ok {
		return analyzer.Match{}, false
	}

	var m analyzer.Match
	for _, u := range chain {
		m.Add(u.begin, u.end, u.ref)
	}
	m.Add(id, chainEnd, buildMeasure(values, tmpl, chain))
	return m, true
}

// parsePrefix reads an approximation or comparison marker.
func (p *Parser) parsePrefix(s *token.Stream, id token.ID) (string, token.ID, bool) {
	switch {
	case s.IsCharOf(id, "~≈"):
		return "~", id, true
	case s.IsChar(id, '≤'):
		return "<=", id, true
	case s.IsChar(id, '≥'):
		return ">=", id, true
	case s.IsCharOf(id, "<>"):
		tmpl := s.Text(id)
		if eq := s.Next(id); s.IsChar(eq, '=') && adjacent(s, eq) {
			return tmpl + "=", eq, true
		}
		return tmpl, id, true
	}
	if m, ok := p.prefixes.TryParse(s, id); ok {
		return m.Termin.Tag, m.End, true
	}
	return "", token.NoID, false
}

// parseValues reads one number, a range or a plus-minus pair and returns the
// values with their display template.
func (p *Parser) parseValues(s *token.Stream, id token.ID, prefix string) ([]string, string, token.ID, bool) {
	n1, ok := parseNumber(s, id, true)
	if !ok {
		return nil, "", token.NoID, false
	}
	values := []string{n1.value}

	if delim, ok := rangeDelimiter(s, s.Next(n1.end)); ok {
		if n2, ok := parseNumber(s, s.Next(delim), false); ok {
			return append(values, n2.value), prefix + "1-2", n2.end, true
		}
	}
	if pm, ok := plusMinus(s, s.Next(n1.end)); ok {
		if n2, ok := parseNumber(s, s.Next(pm), false); ok {
			end := n2.end
			tmpl := "[1 ±2]"
			if pct := s.Next(end); s.IsChar(pct, '%') && adjacent(s, pct) {
				tmpl = "[1 ±2%]"
				end = pct
			}
			return append(values, n2.value), prefix + tmpl, end, true
		}
	}
	return values, prefix + "1", n1.end, true
}

// rangeDelimiter recognizes "-", dashes, "to", ".." and "…".
func rangeDelimiter(s *token.Stream, id token.ID) (token.ID, bool) {
	switch {
	case s.IsHyphen(id), s.IsChar(id, '…'), s.IsValue(id, "TO"):
		return id, true
	case s.IsChar(id, '.'):
		if dot := s.Next(id); s.IsChar(dot, '.') && adjacent(s, dot) {
			return dot, true
		}
	}
	return token.NoID, false
}

// plusMinus recognizes "±", "+/-" and "+-".
func plusMinus(s *token.Stream, id token.ID) (token.ID, bool) {
	if s.IsChar(id, '±') {
		return id, true
	}
	if !s.IsChar(id, '+') {
		return token.NoID, false
	}
	next := s.Next(id)
	if s.IsHyphen(next) && adjacent(s, next) {
		return next, true
	}
	if s.IsChar(next, '/') && adjacent(s, next) {
		if minus := s.Next(next); s.IsHyphen(minus) && adjacent(s, minus) {
			return minus, true
		}
	}
	return token.NoID, false
}

func buildMeasure(values []string, tmpl string, chain []unitItem) *referent.Referent {
	m := referent.New(referent.TypeMeasure)
	for _, v := range values {
		m.AppendSlot(referent.SlotValue, referent.String(v))
	}
	m.AddSlot(referent.SlotTemplate, referent.String(tmpl), true)
	for _, u := range chain {
		m.AppendSlot(referent.SlotUnit, referent.Nested(u.ref))
	}
	if kind := calcKind(chain); kind != "" {
		m.AddSlot(referent.SlotKind, referent.String(kind), true)
	}
	return m
}

// calcKind derives the measured quantity from the unit chain.
func calcKind(chain []unitItem) string {
	if len(chain) == 0 {
		return ""
	}
	u0 := chain[0]
	switch len(chain) {
	case 1:
		switch {
		case u0.pow == 1:
			return u0.kind
		case u0.pow == 2 && u0.kind == "length":
			return "area"
		case u0.pow == 3 && u0.kind == "length":
			return "volume"
		}
	case 2:
		u1 := chain[1]
		if u0.kind == "length" && u0.pow == 1 && u1.kind == "time" && u1.pow == -1 {
			return "speed"
		}
	}
	return ""
}
