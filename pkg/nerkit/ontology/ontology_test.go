package ontology

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/nerkit/pkg/nerkit/ingest"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
)

func sample(t *testing.T) *Ontology {
	t.Helper()
	o, err := New([]Record{
		{Term: "Statue of Liberty", Kind: "monument", Slots: []SlotOverride{{Name: "type", Value: "statue"}}},
		{Term: "Statue", Kind: "person"},
		{Term: "furlong", Kind: KindUnit, Slots: []SlotOverride{{Name: "KIND", Value: "length"}, {Name: "FULLNAME", Value: "furlong"}}},
		{Term: "Example.org", Kind: KindUri, Slots: []SlotOverride{{Name: "SCHEME", Value: "http"}}},
	})
	require.NoError(t, err)
	return o
}

func TestNewBuildsReferents(t *testing.T) {
	o := sample(t)
	assert.Equal(t, 4, o.Len())

	e := o.Lookup("statue  of LIBERTY")
	require.Len(t, e, 1)
	r := e[0].Referent
	assert.Equal(t, referent.TypeNamedEntity, r.Type())
	kind, _ := r.StringValue(referent.SlotKind)
	assert.Equal(t, "monument", kind)
	name, _ := r.StringValue(referent.SlotName)
	assert.Equal(t, "Statue of Liberty", name)
	typ, _ := r.StringValue(referent.SlotType)
	assert.Equal(t, "statue", typ)

	u := o.Units()
	require.Len(t, u, 1)
	assert.Equal(t, referent.TypeUnit, u[0].Referent.Type())

	uri := o.Lookup("example.org")
	require.Len(t, uri, 1)
	v, _ := uri[0].Referent.StringValue(referent.SlotValue)
	assert.Equal(t, "example.org", v)

	assert.Len(t, o.Entities(), 2)
}

func TestNewRejectsMalformed(t *testing.T) {
	_, err := New([]Record{{Term: " ", Kind: "planet"}})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))

	_, err = New([]Record{{Term: "Vulcan", Kind: "starship"}})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestMatchLongest(t *testing.T) {
	o := sample(t)
	s := ingest.NewTokenizer().Tokenize("the Statue of Liberty stands")
	id := s.Next(s.First())

	e, end, ok := o.Match(s, id)
	require.True(t, ok)
	assert.Equal(t, "monument", e.Kind)
	assert.Equal(t, "Statue of Liberty", s.SourceText(id, end))

	_, _, ok = o.MatchUnit(s, id)
	assert.False(t, ok)

	e, end, ok = o.MatchEntity(s, id)
	require.True(t, ok)
	assert.Equal(t, "monument", e.Kind)
	assert.NotEqual(t, id, end)
}

func TestNilOntology(t *testing.T) {
	var o *Ontology
	assert.Equal(t, 0, o.Len())
	assert.Nil(t, o.Lookup("x"))
	s := ingest.NewTokenizer().Tokenize("x")
	_, _, ok := o.Match(s, s.First())
	assert.False(t, ok)
	assert.Nil(t, o.Units())
}

func TestParseYAML(t *testing.T) {
	feed := `
records:
  - term: Mount Everest
    kind: location
    slots:
      - name: TYPE
        value: mountain
  - term: knot
    kind: unit
`
	recs, err := ParseYAML(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "mountain", recs[0].Slots[0].Value)

	_, err = ParseYAML(strings.NewReader("records:\n  - term: x\n    color: red\n"))
	assert.Error(t, err)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records:\n  - term: Mars\n    kind: planet\n"), 0o644))

	recs, err := FileSource{Path: path}.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Mars", recs[0].Term)

	_, err = LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
