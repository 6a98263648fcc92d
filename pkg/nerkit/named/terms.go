package named

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/termin"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

//go:embed terms.yaml
var defaultTerms []byte

// Entity kinds produced by the parser.
const (
	KindPlanet   = "planet"
	KindLocation = "location"
	KindMonument = "monument"
	KindBuilding = "building"
	KindArt      = "art"
	KindAward    = "award"
)

// Kinds that only appear as cross-references.
const (
	KindPerson = "person"
	KindGeo    = "geo"
)

var kinds = map[string]bool{
	KindPlanet: true, KindLocation: true, KindMonument: true,
	KindBuilding: true, KindArt: true, KindAward: true,
}

// refKinds lists the cross-reference kinds each entity kind accepts.
var refKinds = map[string][]string{
	KindMonument: {KindPerson},
	KindAward:    {KindPerson},
	KindArt:      {KindPerson},
	KindLocation: {KindGeo, KindLocation},
	KindBuilding: {KindGeo, KindLocation},
}

// compatible reports whether an entity of kind may reference one of refKind.
func compatible(kind, refKind string) bool {
	for _, k := range refKinds[kind] {
		if k == refKind {
			return true
		}
	}
	return false
}

// TypeGroup is a list of type words of one kind.
type TypeGroup struct {
	Kind  string   `yaml:"kind"`
	Words []string `yaml:"words"`
}

// KnownName is a well-known proper name.
type KnownName struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Acronym string   `yaml:"acronym"`
	Kind    string   `yaml:"kind"`
	Type    string   `yaml:"type"`
	Weak    bool     `yaml:"weak"`
}

type termsFile struct {
	Stopwords  []string     `yaml:"stopwords"`
	Connectors []string     `yaml:"connectors"`
	Types      []TypeGroup  `yaml:"types"`
	Names      []*KnownName `yaml:"names"`
}

// Terms is the immutable dictionary of type words and well-known names.
type Terms struct {
	types      *termin.Collection[string]
	names      *termin.Collection[*KnownName]
	stopwords  map[string]bool
	connectors map[string]bool
	nTypes     int
	nNames     int
}

// DefaultTerms parses the embedded dictionary.
func DefaultTerms() (*Terms, error) {
	return ParseTerms(defaultTerms)
}

// LoadTerms reads a dictionary file.
func LoadTerms(path string) (*Terms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read named terms: %w", err)
	}
	return ParseTerms(data)
}

// ParseTerms decodes and validates a dictionary.
func ParseTerms(data []byte) (*Terms, error) {
	var f termsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse named terms: %v", internalerr.ErrInvalidConfig, err)
	}
	if len(f.Types) == 0 && len(f.Names) == 0 {
		return nil, fmt.Errorf("%w: named terms are empty", internalerr.ErrInvalidConfig)
	}

	t := &Terms{
		types:      termin.New[string](false),
		names:      termin.New[*KnownName](false),
		stopwords:  make(map[string]bool, len(f.Stopwords)),
		connectors: make(map[string]bool, len(f.Connectors)),
	}
	for _, w := range f.Stopwords {
		t.stopwords[token.NormalizeTerm(w)] = true
	}
	for _, w := range f.Connectors {
		t.connectors[token.NormalizeTerm(w)] = true
	}
	for _, g := range f.Types {
		if !kinds[g.Kind] {
			return nil, fmt.Errorf("%w: type group has unknown kind %q", internalerr.ErrInvalidConfig, g.Kind)
		}
		for _, w := range g.Words {
			if strings.TrimSpace(w) == "" {
				return nil, fmt.Errorf("%w: empty type word in %q", internalerr.ErrInvalidConfig, g.Kind)
			}
			t.types.Add(&termin.Termin[string]{Canonical: strings.ToLower(w), Tag: g.Kind})
			t.nTypes++
		}
	}
	for _, n := range f.Names {
		if strings.TrimSpace(n.Name) == "" {
			return nil, fmt.Errorf("%w: well-known name is empty", internalerr.ErrInvalidConfig)
		}
		if !kinds[n.Kind] {
			return nil, fmt.Errorf("%w: name %q has unknown kind %q", internalerr.ErrInvalidConfig, n.Name, n.Kind)
		}
		n.Type = strings.ToLower(n.Type)
		t.names.Add(&termin.Termin[*KnownName]{Canonical: n.Name, Variants: n.Aliases, Acronym: n.Acronym, Tag: n})
		t.nNames++
	}
	return t, nil
}

// Len returns the number of type words and names.
func (t *Terms) Len() (types, names int) { return t.nTypes, t.nNames }

// IsKind reports whether kind is an extractable entity kind.
func IsKind(kind string) bool { return kinds[kind] }
