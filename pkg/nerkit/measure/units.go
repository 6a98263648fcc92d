package measure

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/termin"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

//go:embed units.yaml
var defaultUnits []byte

// Unit is one entry of the unit table.
type Unit struct {
	Symbol   string   `yaml:"symbol"`
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Kind     string   `yaml:"kind"`
	Base     string   `yaml:"base"`
	Factor   float64  `yaml:"factor"`
	Doubtful bool     `yaml:"doubtful"`
	Prefix   bool     `yaml:"prefix"`

	base *Unit
}

// BaseUnit returns the resolved base entry or nil.
func (u *Unit) BaseUnit() *Unit { return u.base }

type tableFile struct {
	Kinds []string `yaml:"kinds"`
	Units []*Unit  `yaml:"units"`
}

// Table is the immutable built-in unit dictionary.
type Table struct {
	units    []*Unit
	kinds    map[string]bool
	bySymbol map[string]*Unit
	symbols  *termin.Collection[*Unit]
	names    *termin.Collection[*Unit]
}

// DefaultTable parses the embedded unit table.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultUnits)
}

// LoadTable reads a unit table file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit table: %w", err)
	}
	return ParseTable(data)
}

// ReadTable parses a unit table from r.
func ReadTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read unit table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a unit table. Unknown kinds, duplicate
// symbols and dangling base references are setup errors.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse unit table: %v", internalerr.ErrInvalidConfig, err)
	}
	if len(f.Units) == 0 {
		return nil, fmt.Errorf("%w: unit table is empty", internalerr.ErrInvalidConfig)
	}

	t := &Table{
		units:    f.Units,
		kinds:    make(map[string]bool, len(f.Kinds)),
		bySymbol: make(map[string]*Unit, len(f.Units)),
		symbols:  termin.New[*Unit](true),
		names:    termin.New[*Unit](false),
	}
	for _, k := range f.Kinds {
		t.kinds[k] = true
	}

	for _, u := range f.Units {
		if u.Symbol == "" {
			return nil, fmt.Errorf("%w: unit %q has no symbol", internalerr.ErrInvalidConfig, u.Name)
		}
		if !t.kinds[u.Kind] {
			return nil, fmt.Errorf("%w: unit %q has unknown kind %q", internalerr.ErrInvalidConfig, u.Symbol, u.Kind)
		}
		if _, dup := t.bySymbol[u.Symbol]; dup {
			return nil, fmt.Errorf("%w: duplicate unit symbol %q", internalerr.ErrInvalidConfig, u.Symbol)
		}
		t.bySymbol[u.Symbol] = u
	}
	for _, u := range f.Units {
		if u.Base != "" {
			base, ok := t.bySymbol[u.Base]
			if !ok {
				return nil, fmt.Errorf("%w: unit %q references unknown base %q", internalerr.ErrInvalidConfig, u.Symbol, u.Base)
			}
			if base == u {
				return nil, fmt.Errorf("%w: unit %q is its own base", internalerr.ErrInvalidConfig, u.Symbol)
			}
			u.base = base
		}
		t.symbols.Add(&termin.Termin[*Unit]{Canonical: u.Symbol, Tag: u})
		names := append([]string{}, u.Aliases...)
		if u.Name != "" {
			names = append([]string{u.Name}, names...)
		}
		if len(names) > 0 {
			t.names.Add(&termin.Termin[*Unit]{Canonical: names[0], Variants: names[1:], Tag: u})
		}
	}
	for _, u := range f.Units {
		steps := 0
		for b := u.base; b != nil; b = b.base {
			if steps++; steps > len(f.Units) {
				return nil, fmt.Errorf("%w: unit %q has a cyclic base chain", internalerr.ErrInvalidConfig, u.Symbol)
			}
		}
	}
	return t, nil
}

// Units returns the entries in table order.
func (t *Table) Units() []*Unit { return t.units }

// Find returns the entry for an exact symbol.
func (t *Table) Find(symbol string) *Unit { return t.bySymbol[symbol] }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.units) }

// UnitMatch is a unit found in the stream. Symbol is set when the match came
// from the exact symbol rather than a name or alias.
type UnitMatch struct {
	Unit   *Unit
	End    token.ID
	Symbol bool
}

// Doubtful reports whether the match is a bare symbol that is also a common
// word, such as "in" or "d". Full names and aliases are never doubtful.
func (m UnitMatch) Doubtful() bool { return m.Symbol && m.Unit.Doubtful }

// Match finds the unit starting at id: exact symbols first, then names and
// aliases case-insensitively. The longest match of the two wins.
func (t *Table) Match(s *token.Stream, id token.ID) (UnitMatch, bool) {
	sym, symOK := t.symbols.TryParse(s, id)
	name, nameOK := t.names.TryParse(s, id)
	switch {
	case symOK && nameOK:
		if s.Get(name.End).End > s.Get(sym.End).End {
			return UnitMatch{Unit: name.Termin.Tag, End: name.End}, true
		}
		return UnitMatch{Unit: sym.Termin.Tag, End: sym.End, Symbol: true}, true
	case symOK:
		return UnitMatch{Unit: sym.Termin.Tag, End: sym.End, Symbol: true}, true
	case nameOK:
		return UnitMatch{Unit: name.Termin.Tag, End: name.End}, true
	}
	return UnitMatch{}, false
}

// Referent builds the Unit referent for u raised to pow.
func (u *Unit) Referent(pow int) *referent.Referent {
	r := referent.New(referent.TypeUnit)
	r.AddSlot(referent.SlotName, referent.String(u.Symbol), false)
	if u.Name != "" {
		r.AddSlot(referent.SlotFullname, referent.String(u.Name), false)
	}
	if pow != 1 {
		r.AddSlot(referent.SlotPow, referent.String(strconv.Itoa(pow)), true)
	}
	r.AddSlot(referent.SlotKind, referent.String(u.Kind), true)
	if u.base != nil {
		r.AddSlot(referent.SlotBaseUnit, referent.Nested(u.base.Referent(1)), false)
		r.AddSlot(referent.SlotBaseFactor, referent.String(strconv.FormatFloat(u.Factor, 'f', -1, 64)), true)
	}
	return r
}
