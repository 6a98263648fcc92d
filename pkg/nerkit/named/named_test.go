package named

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/cognicore/nerkit/pkg/nerkit/analyzer"
	"github.com/cognicore/nerkit/pkg/nerkit/ingest"
	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
)

func run(t *testing.T, text string, onto *ontology.Ontology) *analyzer.Kit {
	t.Helper()
	terms, err := DefaultTerms()
	require.NoError(t, err)
	k := analyzer.NewKit(ingest.NewTokenizer().Tokenize(text), onto, nil)
	analyzer.Run(k, NewParser(terms))
	require.NoError(t, k.Stream.Validate())
	return k
}

func entities(k *analyzer.Kit, kind string) []*referent.Referent {
	var out []*referent.Referent
	for _, r := range k.Data.OfType(referent.TypeNamedEntity) {
		if v, _ := r.StringValue(referent.SlotKind); v == kind {
			out = append(out, r)
		}
	}
	return out
}

func short(rs []*referent.Referent) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.DisplayString(true, language.English))
	}
	return out
}

func newOntology(t *testing.T, records ...ontology.Record) *ontology.Ontology {
	t.Helper()
	o, err := ontology.New(records)
	require.NoError(t, err)
	return o
}

func TestDefaultTerms(t *testing.T) {
	terms, err := DefaultTerms()
	require.NoError(t, err)
	types, names := terms.Len()
	assert.Greater(t, types, 50)
	assert.Greater(t, names, 50)
}

func TestParseTermsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "stopwords: [the]\n"},
		{"bad yaml", "types: [\n"},
		{"unknown type kind", "types:\n  - {kind: vehicle, words: [car]}\n"},
		{"unknown name kind", "names:\n  - {name: Foo, kind: vehicle}\n"},
		{"empty name", "names:\n  - {name: '', kind: planet}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTerms([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
		})
	}
}

func TestTypeAndWellKnownName(t *testing.T) {
	k := run(t, "We sailed down the river Volga last summer.", nil)
	locs := entities(k, KindLocation)
	require.Len(t, locs, 1)
	assert.Equal(t, "river Volga", locs[0].DisplayString(true, language.English))
	assert.Equal(t, "river Volga [location]", locs[0].String())
}

func TestWellKnownNamesStandAlone(t *testing.T) {
	k := run(t, "Mars and Venus are planets.", nil)
	assert.Equal(t, []string{"planet Mars", "planet Venus"}, short(entities(k, KindPlanet)))
}

func TestAcronym(t *testing.T) {
	k := run(t, "Astronauts returned from the ISS yesterday.", nil)
	b := entities(k, KindBuilding)
	require.Len(t, b, 1)
	name, _ := b[0].StringValue(referent.SlotName)
	assert.Equal(t, "International Space Station", name)
}

func TestRepeatedMentionsMerge(t *testing.T) {
	k := run(t, "Mars is red. Mars is cold.", nil)
	planets := entities(k, KindPlanet)
	require.Len(t, planets, 1)
	assert.Len(t, planets[0].Occurrences(), 2)
}

func TestWeakNameNeedsType(t *testing.T) {
	k := run(t, "Oscar went home.", nil)
	assert.Empty(t, entities(k, KindAward))

	k = run(t, "She won the Oscar award twice.", nil)
	assert.Equal(t, []string{"award Oscar"}, short(entities(k, KindAward)))
}

func TestQuotedTitle(t *testing.T) {
	k := run(t, "the film «Titanic» was released", nil)
	assert.Equal(t, []string{"film Titanic"}, short(entities(k, KindArt)))
}

func TestHyphenatedName(t *testing.T) {
	k := run(t, "They climbed Mount Saint-Michel.", nil)
	assert.Equal(t, []string{"mount Saint-Michel"}, short(entities(k, KindLocation)))
}

func TestRejectedRuns(t *testing.T) {
	for _, text := range []string{
		"the river flows",
		"Some Random Words here",
		"The planet is far",
		"earth and moon",
	} {
		k := run(t, text, nil)
		assert.Zero(t, k.Data.Len(), text)
	}
}

func TestAliasCopiesSlots(t *testing.T) {
	k := run(t, "Example Region (Sample)", nil)
	locs := entities(k, KindLocation)
	require.Len(t, locs, 2)
	assert.Equal(t, []string{"region Example", "region Sample"}, short(locs))

	alias := locs[1]
	typ, _ := alias.StringValue(referent.SlotType)
	assert.Equal(t, "region", typ)
	assert.Equal(t, []string{"Sample"}, alias.StringValues(referent.SlotName))
}

func TestAliasDropsReference(t *testing.T) {
	onto := newOntology(t, ontology.Record{Term: "Irkutsk", Kind: KindGeo})
	k := run(t, "Lake Sample near Irkutsk (Other)", onto)

	geo := entities(k, KindGeo)
	require.Len(t, geo, 1)

	locs := entities(k, KindLocation)
	require.Len(t, locs, 2)
	refs := locs[0].NestedValues(referent.SlotRef)
	require.Len(t, refs, 1)
	assert.Same(t, geo[0], refs[0])
	assert.Equal(t, "lake Sample [location]; Irkutsk", locs[0].String())

	assert.Equal(t, "lake Other", locs[1].DisplayString(true, language.English))
	assert.Empty(t, locs[1].NestedValues(referent.SlotRef))
}

func TestAliasOfOtherKindUsesOntology(t *testing.T) {
	onto := newOntology(t, ontology.Record{
		Term:  "Mars",
		Kind:  KindPlanet,
		Slots: []ontology.SlotOverride{{Name: "TYPE", Value: "red planet"}},
	})
	k := run(t, "Example Region (Mars)", onto)

	assert.Equal(t, []string{"region Example"}, short(entities(k, KindLocation)))
	assert.Equal(t, []string{"red planet Mars"}, short(entities(k, KindPlanet)))
}

func TestPersonReference(t *testing.T) {
	onto := newOntology(t, ontology.Record{Term: "Pushkin", Kind: KindPerson})
	k := run(t, "The monument to Pushkin was restored.", onto)

	people := entities(k, KindPerson)
	require.Len(t, people, 1)
	mon := entities(k, KindMonument)
	require.Len(t, mon, 1)
	refs := mon[0].NestedValues(referent.SlotRef)
	require.Len(t, refs, 1)
	assert.Same(t, people[0], refs[0])
	assert.Equal(t, "monument [monument]; Pushkin", mon[0].String())
}

func TestIncompatibleReference(t *testing.T) {
	onto := newOntology(t, ontology.Record{Term: "Irkutsk", Kind: KindGeo})
	k := run(t, "The monument to Irkutsk stands.", onto)
	assert.Empty(t, entities(k, KindMonument))
}

func TestOntologyEntity(t *testing.T) {
	onto := newOntology(t, ontology.Record{
		Term:  "Crystal Lake",
		Kind:  KindLocation,
		Slots: []ontology.SlotOverride{{Name: "type", Value: "lake"}},
	})
	k := run(t, "We swam in Crystal Lake today.", onto)
	locs := entities(k, KindLocation)
	require.Len(t, locs, 1)
	assert.Equal(t, "lake Crystal Lake", locs[0].DisplayString(true, language.English))
}

func TestBracketOntologyFallback(t *testing.T) {
	onto := newOntology(t, ontology.Record{Term: "Crystal Lake", Kind: KindLocation})
	k := run(t, "the cold water (Crystal Lake) was clear", onto)
	locs := entities(k, KindLocation)
	require.Len(t, locs, 1)
	name, _ := locs[0].StringValue(referent.SlotName)
	assert.Equal(t, "Crystal Lake", name)
}
