package measure

import (
	"strconv"

	"github.com/cognicore/nerkit/pkg/nerkit/analyzer"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// unitItem is one unit of a chain with its resolved power.
type unitItem struct {
	ref      *referent.Referent
	kind     string
	pow      int
	doubtful bool
	begin    token.ID
	end      token.ID
}

// parseChain reads units joined by "*", "·", "×", "/" or "per". Every unit
// after a division operator gets a negative power. The chain stops at two
// consecutive units of the same kind.
func (p *Parser) parseChain(k *analyzer.Kit, id token.ID) ([]unitItem, token.ID, bool) {
	s := k.Stream
	var chain []unitItem
	neg := false
	end := token.NoID

	for cur := id; cur != token.NoID; {
		item, ok := p.parseUnit(k, cur)
		if !ok {
			break
		}
		if neg {
			item.pow = -item.pow
			item.ref = p.withPow(item)
		}
		if n := len(chain); n > 0 && item.kind != "" && chain[n-1].kind == item.kind {
			break
		}
		chain = append(chain, item)
		end = item.end
		if len(chain) == maxChain {
			break
		}

		op := s.Next(end)
		switch {
		case s.IsCharOf(op, "*·×"):
		case s.IsCharOf(op, "/\\"), s.IsValue(op, "PER"):
			neg = true
		default:
			op = token.NoID
		}
		if op == token.NoID {
			break
		}
		cur = s.Next(op)
	}

	if len(chain) == 0 {
		return nil, token.NoID, false
	}
	return chain, end, true
}

// parseUnit reads [sq|square|cu|cubic] unit [power suffix].
func (p *Parser) parseUnit(k *analyzer.Kit, id token.ID) (unitItem, bool) {
	s := k.Stream
	t := s.Get(id)
	if t == nil || t.Kind == token.KindComposite {
		return unitItem{}, false
	}

	item := unitItem{begin: id, pow: 1}
	switch {
	case s.IsValue(id, "SQ"), s.IsValue(id, "SQUARE"):
		item.pow = 2
	case s.IsValue(id, "CU"), s.IsValue(id, "CUBIC"):
		item.pow = 3
	}
	if item.pow != 1 {
		id = s.Next(id)
		if s.IsChar(id, '.') && adjacent(s, id) {
			id = s.Next(id)
		}
	}

	var def *Unit
	if e, end, ok := k.Ontology.MatchUnit(s, id); ok {
		item.ref = e.Referent.Clone()
		item.kind, _ = item.ref.StringValue(referent.SlotKind)
		item.end = end
	} else if um, ok := p.table.Match(s, id); ok {
		if um.Doubtful() && !isolated(s, um.End) {
			return unitItem{}, false
		}
		def = um.Unit
		item.kind = um.Unit.Kind
		item.doubtful = um.Doubtful()
		item.end = um.End
	} else {
		return unitItem{}, false
	}

	if pow, end, ok := powerSuffix(s, item.end); ok {
		item.pow = pow
		item.end = end
	}

	if def != nil {
		item.ref = def.Referent(item.pow)
	} else if item.pow != 1 {
		item.ref = p.withPow(item)
	}
	return item, true
}

// withPow sets the POW slot of the item's referent to the item's power.
func (p *Parser) withPow(item unitItem) *referent.Referent {
	if item.pow == 1 {
		return item.ref
	}
	item.ref.AddSlot(referent.SlotPow, referent.String(strconv.Itoa(item.pow)), true)
	return item.ref
}

// isolated reports whether the token after end is punctuation, a line break or
// the end of text. Doubtful units like "in" or "d" need this.
func isolated(s *token.Stream, end token.ID) bool {
	n := s.Get(s.Next(end))
	if n == nil || n.NewlineBefore {
		return true
	}
	return n.Kind == token.KindText && !n.Chars.IsLetter()
}

// powerSuffix reads "²", "³", an attached "2"/"3", "<n>", "<-n>" or "^n"
// directly after a unit.
func powerSuffix(s *token.Stream, end token.ID) (int, token.ID, bool) {
	id := s.Next(end)
	if !adjacent(s, id) {
		return 0, token.NoID, false
	}
	switch {
	case s.IsChar(id, '²'):
		return 2, id, true
	case s.IsChar(id, '³'):
		return 3, id, true
	case s.IsNumber(id) && (s.Text(id) == "2" || s.Text(id) == "3"):
		if n := s.Next(id); adjacent(s, n) && (s.IsNumber(n) || s.Get(n).Chars.IsLetter()) {
			return 0, token.NoID, false
		}
		return int(s.Get(id).Int), id, true
	case s.IsChar(id, '<'):
		pow, last, ok := signedInt(s, s.Next(id))
		if ok && s.IsChar(s.Next(last), '>') && adjacent(s, s.Next(last)) {
			return pow, s.Next(last), true
		}
	case s.IsChar(id, '^'):
		if pow, last, ok := signedInt(s, s.Next(id)); ok {
			return pow, last, true
		}
	}
	return 0, token.NoID, false
}

func signedInt(s *token.Stream, id token.ID) (int, token.ID, bool) {
	if !adjacent(s, id) {
		return 0, token.NoID, false
	}
	sign := 1
	if s.IsHyphen(id) {
		sign = -1
		id = s.Next(id)
		if !adjacent(s, id) {
			return 0, token.NoID, false
		}
	}
	t := s.Get(id)
	if t == nil || t.Kind != token.KindNumber || t.Spelling != token.SpellingDigit || !t.HasInt || t.Int > 9 || t.Int == 0 {
		return 0, token.NoID, false
	}
	return sign * int(t.Int), id, true
}
