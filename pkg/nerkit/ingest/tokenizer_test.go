package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

func texts(s *token.Stream) []string {
	var out []string
	for id := s.First(); id != token.NoID; id = s.Next(id) {
		out = append(out, s.Text(id))
	}
	return out
}

func TestTokenizeSplitsRuns(t *testing.T) {
	s := NewTokenizer().Tokenize("Speed: 10-20 km/h, e.g. 3.5kg")
	assert.Equal(t, []string{
		"Speed", ":", "10", "-", "20", "km", "/", "h", ",", "e", ".", "g", ".", "3", ".", "5", "kg",
	}, texts(s))
	require.NoError(t, s.Validate())
}

func TestTokenizeWhitespace(t *testing.T) {
	s := NewTokenizer().Tokenize("a  b\nc")
	ids := []token.ID{s.First()}
	ids = append(ids, s.Next(ids[0]))
	ids = append(ids, s.Next(ids[1]))

	assert.Equal(t, 0, s.Get(ids[0]).WhitespacesBefore)
	assert.Equal(t, 2, s.Get(ids[1]).WhitespacesBefore)
	assert.False(t, s.Get(ids[1]).NewlineBefore)
	assert.True(t, s.Get(ids[2]).NewlineBefore)
	assert.True(t, s.IsNewlineAfter(ids[1]))
}

func TestTokenizeOffsets(t *testing.T) {
	text := "Привет, мир 42"
	s := NewTokenizer().Tokenize(text)
	for id := s.First(); id != token.NoID; id = s.Next(id) {
		tok := s.Get(id)
		assert.Equal(t, text[tok.Begin:tok.End], s.Text(id))
	}
	assert.Equal(t, "ПРИВЕТ", s.Term(s.First()))
	assert.True(t, s.Get(s.First()).Chars.IsCyrillic())
}

func TestTokenizeNumbers(t *testing.T) {
	s := NewTokenizer().Tokenize("007 twelve")
	n := s.Get(s.First())
	assert.Equal(t, token.KindNumber, n.Kind)
	assert.Equal(t, "7", n.Value)
	assert.Equal(t, int64(7), n.Int)
	assert.Equal(t, token.SpellingDigit, n.Spelling)

	w := s.Get(s.Next(s.First()))
	assert.Equal(t, token.KindNumber, w.Kind)
	assert.Equal(t, int64(12), w.Int)
	assert.Equal(t, token.SpellingWords, w.Spelling)
}

func TestTokenizeNumberWordsDisabled(t *testing.T) {
	tk := NewTokenizer()
	tk.SetNumberWords(nil)
	s := tk.Tokenize("twelve")
	assert.Equal(t, token.KindText, s.Get(s.First()).Kind)
}

func TestTokenizeHugeNumber(t *testing.T) {
	s := NewTokenizer().Tokenize("123456789012345678901234567890")
	n := s.Get(s.First())
	assert.Equal(t, token.KindNumber, n.Kind)
	assert.False(t, n.HasInt)
	assert.Equal(t, "123456789012345678901234567890", n.Value)
}

func TestCharsFlags(t *testing.T) {
	s := NewTokenizer().Tokenize("Paris NASA small ( » – iPhone")
	var flags []token.Chars
	for id := s.First(); id != token.NoID; id = s.Next(id) {
		flags = append(flags, s.Get(id).Chars)
	}
	require.Len(t, flags, 7)
	assert.True(t, flags[0].IsCapitalUpper())
	assert.True(t, flags[0].IsLatin())
	assert.True(t, flags[1].IsAllUpper())
	assert.True(t, flags[2].IsAllLower())
	assert.True(t, flags[3].Has(token.CharBracketOpen))
	assert.True(t, flags[4].Has(token.CharBracketClose|token.CharQuote))
	assert.True(t, flags[5].Has(token.CharHyphen))
	assert.False(t, flags[6].IsCapitalUpper())
	assert.False(t, flags[6].IsAllLower())
}

func TestExtractHTML(t *testing.T) {
	doc := `<html><head><title>ignored</title><style>p{}</style></head>
<body><p>Visit <a href="x">example.com</a> today.</p><script>var a=1;</script><div>Weight   10 kg</div></body></html>`
	text, err := ExtractHTML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Visit example.com today.\nWeight 10 kg", text)
}
