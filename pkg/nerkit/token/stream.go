package token

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/nerkit/pkg/nerkit/referent"
)

// Stream is a doubly linked token sequence stored in an arena.
// It is not safe for concurrent use.
type Stream struct {
	source  string
	tokens  []*Token
	first   ID
	last    ID
	live    int
	tracked []*Span
}

// NewStream creates an empty stream over source.
func NewStream(source string) *Stream {
	return &Stream{source: source, first: NoID, last: NoID}
}

// Source returns the text the token offsets refer to.
func (s *Stream) Source() string { return s.source }

// Append links a copy of t after the current last token and returns its ID.
func (s *Stream) Append(t Token) ID {
	id := ID(len(s.tokens))
	tok := t
	tok.prev = s.last
	tok.next = NoID
	tok.stale = false
	tok.replaced = NoID
	s.tokens = append(s.tokens, &tok)
	if s.last != NoID {
		s.tokens[s.last].next = id
	} else {
		s.first = id
	}
	s.last = id
	s.live++
	return id
}

// First returns the first live token or NoID.
func (s *Stream) First() ID { return s.first }

// Last returns the last live token or NoID.
func (s *Stream) Last() ID { return s.last }

// Len returns the number of live tokens.
func (s *Stream) Len() int { return s.live }

// Get returns the token for id, or nil for NoID and out-of-range IDs.
func (s *Stream) Get(id ID) *Token {
	if id < 0 || int(id) >= len(s.tokens) {
		return nil
	}
	return s.tokens[id]
}

// Next returns the ID following id.
func (s *Stream) Next(id ID) ID {
	if t := s.Get(id); t != nil {
		return t.next
	}
	return NoID
}

// Prev returns the ID preceding id.
func (s *Stream) Prev(id ID) ID {
	if t := s.Get(id); t != nil {
		return t.prev
	}
	return NoID
}

// Resolve follows embed replacements until it reaches a live token.
func (s *Stream) Resolve(id ID) ID {
	for id != NoID {
		t := s.tokens[id]
		if !t.stale {
			return id
		}
		id = t.replaced
	}
	return NoID
}

// Track registers a pending span so later embeds keep it pointing at live tokens.
func (s *Stream) Track(sp *Span) {
	s.tracked = append(s.tracked, sp)
}

// Untrack removes a span registered with Track.
func (s *Stream) Untrack(sp *Span) {
	for i, t := range s.tracked {
		if t == sp {
			s.tracked = append(s.tracked[:i], s.tracked[i+1:]...)
			return
		}
	}
}

// Embed replaces the live span [begin, end] with one composite token carrying r.
// Swallowed tokens become stale and every tracked span touching them is
// retargeted to the new token. Embedding stale tokens or an unordered span panics.
func (s *Stream) Embed(begin, end ID, r *referent.Referent) ID {
	b, e := s.mustLive(begin), s.mustLive(end)

	count := 0
	for id := begin; ; id = s.tokens[id].next {
		if id == NoID {
			panic(fmt.Sprintf("token: embed end %d not reachable from begin %d", end, begin))
		}
		count++
		if id == end {
			break
		}
	}

	nid := ID(len(s.tokens))
	ct := &Token{
		Kind:              KindComposite,
		Begin:             b.Begin,
		End:               e.End,
		Chars:             b.Chars,
		WhitespacesBefore: b.WhitespacesBefore,
		NewlineBefore:     b.NewlineBefore,
		Referent:          r,
		Inner:             Span{Begin: begin, End: end},
		prev:              b.prev,
		next:              e.next,
		replaced:          NoID,
	}
	s.tokens = append(s.tokens, ct)

	if ct.prev != NoID {
		s.tokens[ct.prev].next = nid
	} else {
		s.first = nid
	}
	if ct.next != NoID {
		s.tokens[ct.next].prev = nid
	} else {
		s.last = nid
	}

	for id := begin; ; {
		t := s.tokens[id]
		t.stale = true
		t.replaced = nid
		if id == end {
			break
		}
		id = t.next
	}
	s.live += 1 - count

	for _, sp := range s.tracked {
		sp.Begin = s.Resolve(sp.Begin)
		sp.End = s.Resolve(sp.End)
	}
	return nid
}

func (s *Stream) mustLive(id ID) *Token {
	t := s.Get(id)
	if t == nil {
		panic(fmt.Sprintf("token: unknown token %d", id))
	}
	if t.stale {
		panic(fmt.Sprintf("token: token %d already embedded", id))
	}
	return t
}

// Validate walks the live chain and checks link consistency.
func (s *Stream) Validate() error {
	prev := NoID
	n := 0
	for id := s.first; id != NoID; id = s.tokens[id].next {
		t := s.tokens[id]
		if t.stale {
			return fmt.Errorf("token %d is stale but reachable", id)
		}
		if t.prev != prev {
			return fmt.Errorf("token %d: prev is %d, want %d", id, t.prev, prev)
		}
		prev = id
		n++
		if n > len(s.tokens) {
			return fmt.Errorf("cycle detected at token %d", id)
		}
	}
	if prev != s.last {
		return fmt.Errorf("last is %d, chain ends at %d", s.last, prev)
	}
	if n != s.live {
		return fmt.Errorf("live count %d, walked %d", s.live, n)
	}
	return nil
}

// Text returns the source text of a single token.
func (s *Stream) Text(id ID) string {
	return s.SourceText(id, id)
}

// SourceText returns the source text from begin's start to end's end.
func (s *Stream) SourceText(begin, end ID) string {
	b, e := s.Get(begin), s.Get(end)
	if b == nil || e == nil || b.Begin > e.End {
		return ""
	}
	return s.source[b.Begin:e.End]
}

// Term returns the normalized term of a text token.
func (s *Stream) Term(id ID) string {
	if t := s.Get(id); t != nil {
		return t.Term
	}
	return ""
}

// IsValue reports whether id is a text token with the given term.
func (s *Stream) IsValue(id ID, term string) bool {
	t := s.Get(id)
	return t != nil && t.Kind == KindText && t.Term == term
}

// IsChar reports whether id is a one-character token equal to ch.
func (s *Stream) IsChar(id ID, ch rune) bool {
	t := s.Get(id)
	if t == nil || t.Kind != KindText || t.Chars.IsLetter() {
		return false
	}
	return s.source[t.Begin:t.End] == string(ch)
}

// IsCharOf reports whether id is a one-character token contained in chars.
func (s *Stream) IsCharOf(id ID, chars string) bool {
	t := s.Get(id)
	if t == nil || t.Kind != KindText || t.Chars.IsLetter() {
		return false
	}
	txt := s.source[t.Begin:t.End]
	r, size := utf8.DecodeRuneInString(txt)
	if size == 0 || size != len(txt) {
		return false
	}
	return strings.ContainsRune(chars, r)
}

// IsHyphen reports whether id is a dash-like token.
func (s *Stream) IsHyphen(id ID) bool {
	t := s.Get(id)
	return t != nil && t.Kind == KindText && t.Chars.Has(CharHyphen)
}

// IsWhitespaceAfter reports whether whitespace or the end of text follows id.
func (s *Stream) IsWhitespaceAfter(id ID) bool {
	n := s.Get(s.Next(id))
	if n == nil {
		return true
	}
	return n.IsWhitespaceBefore()
}

// WhitespacesAfter returns the whitespace count between id and its successor.
func (s *Stream) WhitespacesAfter(id ID) int {
	n := s.Get(s.Next(id))
	if n == nil {
		return 0
	}
	return n.WhitespacesBefore
}

// IsNewlineAfter reports whether a line break follows id.
func (s *Stream) IsNewlineAfter(id ID) bool {
	n := s.Get(s.Next(id))
	return n != nil && n.NewlineBefore
}

// Referent returns the referent of a composite token.
func (s *Stream) Referent(id ID) *referent.Referent {
	t := s.Get(id)
	if t == nil || t.Kind != KindComposite {
		return nil
	}
	return t.Referent
}

// IsNumber reports whether id is a number token.
func (s *Stream) IsNumber(id ID) bool {
	t := s.Get(id)
	return t != nil && t.Kind == KindNumber
}

// IsText reports whether id is a text token.
func (s *Stream) IsText(id ID) bool {
	t := s.Get(id)
	return t != nil && t.Kind == KindText
}
