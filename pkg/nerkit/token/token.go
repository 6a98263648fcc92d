// Package token holds the mutable token stream the sub-parsers match against.
//
// Tokens live in an arena and are addressed by ID. Links between neighbours are
// IDs too, so replacing a span with a composite token is a constant number of
// link fixups and never invalidates IDs held elsewhere.
package token

import (
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
)

// ID addresses a token inside a Stream.
type ID int32

// NoID marks a missing link.
const NoID ID = -1

// Kind is the token variant.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindNumber
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindComposite:
		return "composite"
	}
	return "unknown"
}

// Chars is a set of lexical classification flags.
type Chars uint16

const (
	CharLetter Chars = 1 << iota
	CharDigit
	CharLatin
	CharCyrillic
	CharAllUpper
	CharAllLower
	CharCapitalUpper
	CharBracketOpen
	CharBracketClose
	CharHyphen
	CharQuote
)

// Has reports whether all flags in f are set.
func (c Chars) Has(f Chars) bool { return c&f == f }

func (c Chars) IsLetter() bool       { return c.Has(CharLetter) }
func (c Chars) IsLatin() bool        { return c.Has(CharLatin) }
func (c Chars) IsCyrillic() bool     { return c.Has(CharCyrillic) }
func (c Chars) IsAllUpper() bool     { return c.Has(CharAllUpper) }
func (c Chars) IsAllLower() bool     { return c.Has(CharAllLower) }
func (c Chars) IsCapitalUpper() bool { return c.Has(CharCapitalUpper) }

// Spelling describes how a number was written.
type Spelling uint8

const (
	SpellingDigit Spelling = iota + 1
	SpellingWords
)

// Span is a pair of token IDs, inclusive on both ends. Tracked spans are
// rewritten by Embed when their ends get swallowed.
type Span struct {
	Begin ID
	End   ID
}

// Token is one element of the stream.
type Token struct {
	Kind Kind

	// Begin and End are byte offsets into the source, End exclusive.
	Begin int
	End   int

	// Term is the normalized upper-case form; empty for composites.
	Term  string
	Chars Chars

	WhitespacesBefore int
	NewlineBefore     bool

	// Number payload.
	Value    string
	Int      int64
	HasInt   bool
	Spelling Spelling

	// Composite payload.
	Referent *referent.Referent
	Inner    Span

	prev     ID
	next     ID
	stale    bool
	replaced ID
}

// Prev returns the previous token's ID.
func (t *Token) Prev() ID { return t.prev }

// Next returns the next token's ID.
func (t *Token) Next() ID { return t.next }

// IsStale reports whether the token has been swallowed by an embed.
func (t *Token) IsStale() bool { return t.stale }

// LengthChar is the source length of the token in bytes.
func (t *Token) LengthChar() int { return t.End - t.Begin }

// IsWhitespaceBefore reports whether any whitespace precedes the token.
func (t *Token) IsWhitespaceBefore() bool { return t.WhitespacesBefore > 0 || t.NewlineBefore }
