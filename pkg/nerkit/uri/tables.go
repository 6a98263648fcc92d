package uri

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/termin"
)

var (
	//go:embed domains.yaml
	defaultDomains []byte
	//go:embed schemes.yaml
	defaultSchemes []byte
)

// SchemeKind selects the grammar that follows a scheme word.
type SchemeKind string

const (
	KindWeb       SchemeKind = "web"
	KindWWW       SchemeKind = "www"
	KindGeneric   SchemeKind = "generic"
	KindCode      SchemeKind = "code"
	KindStandard  SchemeKind = "standard"
	KindHandle    SchemeKind = "handle"
	KindNumber    SchemeKind = "number"
	KindCadastral SchemeKind = "cadastral"
)

var schemeKinds = map[SchemeKind]bool{
	KindWeb: true, KindWWW: true, KindGeneric: true, KindCode: true,
	KindStandard: true, KindHandle: true, KindNumber: true, KindCadastral: true,
}

// Scheme is one entry of the scheme table.
type Scheme struct {
	Name     string     `yaml:"name"`
	Variants []string   `yaml:"variants"`
	Kind     SchemeKind `yaml:"kind"`
	Min      int        `yaml:"min"`
	Max      int        `yaml:"max"`
}

// DomainGroup is a regional group of top-level domain codes.
type DomainGroup struct {
	Name  string   `yaml:"name"`
	Codes []string `yaml:"codes"`
}

// Domains is the closed set of known top-level domains.
type Domains struct {
	groups []DomainGroup
	codes  map[string]string
}

// Has reports whether tld is a known top-level domain.
func (d *Domains) Has(tld string) bool {
	_, ok := d.codes[strings.ToLower(tld)]
	return ok
}

// Group returns the region group of tld.
func (d *Domains) Group(tld string) string { return d.codes[strings.ToLower(tld)] }

// Len returns the number of known codes.
func (d *Domains) Len() int { return len(d.codes) }

// DefaultDomains parses the embedded domain table.
func DefaultDomains() (*Domains, error) { return ParseDomains(defaultDomains) }

// LoadDomains reads a domain table file.
func LoadDomains(path string) (*Domains, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain table: %w", err)
	}
	return ParseDomains(data)
}

// ParseDomains decodes and validates a domain table.
func ParseDomains(data []byte) (*Domains, error) {
	var f struct {
		Groups []DomainGroup `yaml:"groups"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse domain table: %v", internalerr.ErrInvalidConfig, err)
	}
	d := &Domains{groups: f.Groups, codes: make(map[string]string)}
	for _, g := range f.Groups {
		for _, c := range g.Codes {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" || strings.ContainsAny(c, ". ") {
				return nil, fmt.Errorf("%w: bad domain code %q in group %q", internalerr.ErrInvalidConfig, c, g.Name)
			}
			d.codes[c] = g.Name
		}
	}
	if len(d.codes) == 0 {
		return nil, fmt.Errorf("%w: domain table is empty", internalerr.ErrInvalidConfig)
	}
	return d, nil
}

// Schemes is the scheme dictionary.
type Schemes struct {
	list []*Scheme
	dict *termin.Collection[*Scheme]
}

// Len returns the number of schemes.
func (s *Schemes) Len() int { return len(s.list) }

// DefaultSchemes parses the embedded scheme table.
func DefaultSchemes() (*Schemes, error) { return ParseSchemes(defaultSchemes) }

// LoadSchemes reads a scheme table file.
func LoadSchemes(path string) (*Schemes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scheme table: %w", err)
	}
	return ParseSchemes(data)
}

// ParseSchemes decodes and validates a scheme table.
func ParseSchemes(data []byte) (*Schemes, error) {
	var f struct {
		Schemes []*Scheme `yaml:"schemes"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse scheme table: %v", internalerr.ErrInvalidConfig, err)
	}
	if len(f.Schemes) == 0 {
		return nil, fmt.Errorf("%w: scheme table is empty", internalerr.ErrInvalidConfig)
	}
	s := &Schemes{list: f.Schemes, dict: termin.New[*Scheme](false)}
	for _, sc := range f.Schemes {
		if strings.TrimSpace(sc.Name) == "" {
			return nil, fmt.Errorf("%w: scheme without name", internalerr.ErrInvalidConfig)
		}
		if !schemeKinds[sc.Kind] {
			return nil, fmt.Errorf("%w: scheme %q has unknown kind %q", internalerr.ErrInvalidConfig, sc.Name, sc.Kind)
		}
		if sc.Kind == KindNumber && (sc.Min <= 0 || sc.Max < sc.Min) {
			return nil, fmt.Errorf("%w: scheme %q has bad digit bounds %d..%d", internalerr.ErrInvalidConfig, sc.Name, sc.Min, sc.Max)
		}
		s.dict.Add(&termin.Termin[*Scheme]{Canonical: sc.Name, Variants: sc.Variants, Tag: sc})
	}
	return s, nil
}
