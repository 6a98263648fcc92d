package termin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit/ingest"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

func nth(s *token.Stream, n int) token.ID {
	id := s.First()
	for i := 0; i < n; i++ {
		id = s.Next(id)
	}
	return id
}

func TestLongestMatch(t *testing.T) {
	c := New[string](false)
	c.Add(&Termin[string]{Canonical: "square", Tag: "short"})
	c.Add(&Termin[string]{Canonical: "square meter", Variants: []string{"square metre"}, Tag: "long"})

	s := ingest.NewTokenizer().Tokenize("ten Square Metres or square meter")
	_, ok := c.TryParse(s, nth(s, 0))
	assert.False(t, ok)

	m, ok := c.TryParse(s, nth(s, 1))
	require.True(t, ok)
	assert.Equal(t, "short", m.Termin.Tag)
	assert.Equal(t, m.Begin, m.End)

	m, ok = c.TryParse(s, nth(s, 4))
	require.True(t, ok)
	assert.Equal(t, "long", m.Termin.Tag)
	assert.Equal(t, nth(s, 5), m.End)
}

func TestCaseSensitive(t *testing.T) {
	c := New[int](true)
	c.Add(&Termin[int]{Canonical: "m", Tag: 1})
	c.Add(&Termin[int]{Canonical: "M", Tag: 2})

	s := ingest.NewTokenizer().Tokenize("M m")
	m, ok := c.TryParse(s, nth(s, 0))
	require.True(t, ok)
	assert.Equal(t, 2, m.Termin.Tag)
	m, ok = c.TryParse(s, nth(s, 1))
	require.True(t, ok)
	assert.Equal(t, 1, m.Termin.Tag)
}

func TestTryParseAllReturnsAmbiguous(t *testing.T) {
	c := New[string](false)
	c.Add(&Termin[string]{Canonical: "mercury", Tag: "planet"})
	c.Add(&Termin[string]{Canonical: "mercury", Tag: "element"})

	s := ingest.NewTokenizer().Tokenize("Mercury")
	all := c.TryParseAll(s, s.First())
	require.Len(t, all, 2)
	assert.Equal(t, "planet", all[0].Termin.Tag)
	assert.Equal(t, "element", all[1].Termin.Tag)
}

func TestMatchStopsAtNewline(t *testing.T) {
	c := New[string](false)
	c.Add(&Termin[string]{Canonical: "new york"})

	s := ingest.NewTokenizer().Tokenize("new\nyork")
	_, ok := c.TryParse(s, s.First())
	assert.False(t, ok)
}

func TestAcronymAndLookup(t *testing.T) {
	c := New[string](false)
	tm := &Termin[string]{Canonical: "United Nations", Acronym: "UN"}
	c.Add(tm)
	c.Add(tm)

	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.Lookup("united   nations"), 1)
	assert.Len(t, c.Lookup("un"), 1)
	assert.Empty(t, c.Lookup("nations"))
}
