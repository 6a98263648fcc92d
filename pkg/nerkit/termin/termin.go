// Package termin recognizes dictionary phrases directly on a token stream using
// greedy longest match.
package termin

import (
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Termin is a dictionary entry: a canonical phrase, its variants and a payload.
type Termin[T any] struct {
	Canonical string
	Variants  []string
	Acronym   string
	Tag       T
}

// Match is a recognized termin and the tokens it spans.
type Match[T any] struct {
	Termin *Termin[T]
	Begin  token.ID
	End    token.ID
}

// Collection maps phrase keys to termins.
type Collection[T any] struct {
	dict          map[string][]*Termin[T]
	maxLen        int
	caseSensitive bool
}

// New creates an empty collection. A case-sensitive collection keys on the raw
// source text of tokens instead of their normalized terms.
func New[T any](caseSensitive bool) *Collection[T] {
	return &Collection[T]{
		dict:          make(map[string][]*Termin[T]),
		maxLen:        1,
		caseSensitive: caseSensitive,
	}
}

// Add registers a termin under its canonical form, variants and acronym.
func (c *Collection[T]) Add(t *Termin[T]) {
	c.addKey(t.Canonical, t)
	for _, v := range t.Variants {
		c.addKey(v, t)
	}
	if t.Acronym != "" {
		c.addKey(t.Acronym, t)
	}
}

func (c *Collection[T]) addKey(phrase string, t *Termin[T]) {
	words := token.SplitWords(phrase)
	if len(words) == 0 {
		return
	}
	if !c.caseSensitive {
		for i, w := range words {
			words[i] = token.NormalizeTerm(w)
		}
	}
	key := strings.Join(words, " ")
	for _, existing := range c.dict[key] {
		if existing == t {
			return
		}
	}
	c.dict[key] = append(c.dict[key], t)
	if len(words) > c.maxLen {
		c.maxLen = len(words)
	}
}

// Len returns the number of distinct keys.
func (c *Collection[T]) Len() int { return len(c.dict) }

// Lookup returns termins registered under an exact phrase.
func (c *Collection[T]) Lookup(phrase string) []*Termin[T] {
	words := token.SplitWords(phrase)
	if !c.caseSensitive {
		for i, w := range words {
			words[i] = token.NormalizeTerm(w)
		}
	}
	return c.dict[strings.Join(words, " ")]
}

func (c *Collection[T]) word(s *token.Stream, id token.ID) (string, bool) {
	t := s.Get(id)
	if t == nil || t.Kind == token.KindComposite {
		return "", false
	}
	if c.caseSensitive {
		return s.Text(id), true
	}
	return t.Term, true
}

// TryParse returns the longest match starting at id.
func (c *Collection[T]) TryParse(s *token.Stream, id token.ID) (Match[T], bool) {
	all := c.TryParseAll(s, id)
	if len(all) == 0 {
		return Match[T]{}, false
	}
	return all[0], true
}

// TryParseAll returns every termin sharing the longest key that matches at id.
func (c *Collection[T]) TryParseAll(s *token.Stream, id token.ID) []Match[T] {
	var words []string
	var ids []token.ID
	for cur := id; cur != token.NoID && len(words) < c.maxLen; cur = s.Next(cur) {
		if cur != id && s.Get(cur).NewlineBefore {
			break
		}
		w, ok := c.word(s, cur)
		if !ok {
			break
		}
		words = append(words, w)
		ids = append(ids, cur)
	}

	for n := len(words); n >= 1; n-- {
		found := c.dict[strings.Join(words[:n], " ")]
		if len(found) == 0 {
			continue
		}
		out := make([]Match[T], 0, len(found))
		for _, t := range found {
			out = append(out, Match[T]{Termin: t, Begin: id, End: ids[n-1]})
		}
		return out
	}
	return nil
}
