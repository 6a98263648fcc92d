// Package ontology indexes externally supplied, previously known entities so
// sub-parsers can resolve ambiguous matches against them.
//
// An Ontology is immutable after New and safe for concurrent readers. Referents
// handed out by it must be cloned before they are modified or registered.
package ontology

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
	"github.com/cognicore/nerkit/pkg/nerkit/termin"
	"github.com/cognicore/nerkit/pkg/nerkit/token"
)

// Record kinds besides the named-entity kinds.
const (
	KindUnit = "unit"
	KindUri  = "uri"
)

// entityKinds are the named-entity kinds a record may carry. person and geo are
// only ever referenced, never extracted on their own.
var entityKinds = map[string]bool{
	"planet": true, "location": true, "monument": true, "building": true,
	"art": true, "award": true, "person": true, "geo": true,
}

// IsEntityKind reports whether kind is a named-entity kind.
func IsEntityKind(kind string) bool { return entityKinds[kind] }

// SlotOverride is one slot of a feed record.
type SlotOverride struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Record is one entry of an ontology feed.
type Record struct {
	Term  string         `yaml:"term" json:"term"`
	Kind  string         `yaml:"kind" json:"kind"`
	Slots []SlotOverride `yaml:"slots,omitempty" json:"slots,omitempty"`
}

// Validate checks that the record can be indexed.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Term) == "" {
		return fmt.Errorf("%w: ontology record has empty term", internalerr.ErrInvalidConfig)
	}
	if r.Kind != KindUnit && r.Kind != KindUri && !entityKinds[r.Kind] {
		return fmt.Errorf("%w: ontology record %q has unknown kind %q", internalerr.ErrInvalidConfig, r.Term, r.Kind)
	}
	for _, s := range r.Slots {
		if s.Name == "" {
			return fmt.Errorf("%w: ontology record %q has unnamed slot", internalerr.ErrInvalidConfig, r.Term)
		}
	}
	return nil
}

// Source supplies feed records.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// Entry associates a known referent with the term it was registered under.
type Entry struct {
	Referent *referent.Referent
	Term     string
	Kind     string
}

// Ontology is the read-only term index.
type Ontology struct {
	index    map[string][]Entry
	units    *termin.Collection[Entry]
	entities *termin.Collection[Entry]
	uris     *termin.Collection[Entry]
	all      []Entry
}

// New validates records and builds the index. Records keep their feed order.
func New(records []Record) (*Ontology, error) {
	o := &Ontology{
		index:    make(map[string][]Entry),
		units:    termin.New[Entry](false),
		entities: termin.New[Entry](false),
		uris:     termin.New[Entry](false),
	}
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		e := Entry{Referent: build(rec), Term: rec.Term, Kind: rec.Kind}
		key := token.PhraseKey(rec.Term)
		o.index[key] = append(o.index[key], e)
		o.all = append(o.all, e)

		t := &termin.Termin[Entry]{Canonical: rec.Term, Tag: e}
		switch {
		case rec.Kind == KindUnit:
			o.units.Add(t)
		case rec.Kind == KindUri:
			o.uris.Add(t)
		default:
			o.entities.Add(t)
		}
	}
	return o, nil
}

// Build collects records from every source and indexes them.
func Build(ctx context.Context, sources ...Source) (*Ontology, error) {
	var records []Record
	for _, src := range sources {
		recs, err := src.Records(ctx)
		if err != nil {
			return nil, fmt.Errorf("read ontology source: %w", err)
		}
		records = append(records, recs...)
	}
	return New(records)
}

func build(rec Record) *referent.Referent {
	var r *referent.Referent
	switch rec.Kind {
	case KindUnit:
		r = referent.New(referent.TypeUnit)
	case KindUri:
		r = referent.New(referent.TypeUri)
	default:
		r = referent.New(referent.TypeNamedEntity)
		r.AddSlot(referent.SlotKind, referent.String(rec.Kind), true)
	}

	hasName := false
	for _, s := range rec.Slots {
		name := strings.ToUpper(s.Name)
		if name == referent.SlotName || (rec.Kind == KindUri && name == referent.SlotValue) {
			hasName = true
		}
		r.AddSlot(name, referent.String(s.Value), referent.IsSingleton(name))
	}
	if !hasName {
		switch rec.Kind {
		case KindUri:
			r.AddSlot(referent.SlotValue, referent.String(strings.ToLower(rec.Term)), false)
		default:
			r.AddSlot(referent.SlotName, referent.String(rec.Term), false)
		}
	}
	return r
}

// Len returns the number of indexed records.
func (o *Ontology) Len() int {
	if o == nil {
		return 0
	}
	return len(o.all)
}

// Lookup returns the entries registered under term. The lookup normalizes case
// and whitespace.
func (o *Ontology) Lookup(term string) []Entry {
	if o == nil {
		return nil
	}
	return o.index[token.PhraseKey(term)]
}

// Match returns the first entry of the longest term starting at id.
func (o *Ontology) Match(s *token.Stream, id token.ID) (Entry, token.ID, bool) {
	if o == nil {
		return Entry{}, token.NoID, false
	}
	best, end, ok := Entry{}, token.NoID, false
	for _, c := range []*termin.Collection[Entry]{o.entities, o.units, o.uris} {
		m, found := c.TryParse(s, id)
		if !found {
			continue
		}
		if !ok || after(s, m.End, end) {
			best, end, ok = m.Termin.Tag, m.End, true
		}
	}
	return best, end, ok
}

// MatchUnit matches unit records only.
func (o *Ontology) MatchUnit(s *token.Stream, id token.ID) (Entry, token.ID, bool) {
	if o == nil {
		return Entry{}, token.NoID, false
	}
	return first(o.units.TryParse(s, id))
}

// MatchEntity matches named-entity records only.
func (o *Ontology) MatchEntity(s *token.Stream, id token.ID) (Entry, token.ID, bool) {
	if o == nil {
		return Entry{}, token.NoID, false
	}
	return first(o.entities.TryParse(s, id))
}

func first(m termin.Match[Entry], ok bool) (Entry, token.ID, bool) {
	if !ok {
		return Entry{}, token.NoID, false
	}
	return m.Termin.Tag, m.End, true
}

func after(s *token.Stream, a, b token.ID) bool {
	ta, tb := s.Get(a), s.Get(b)
	if ta == nil || tb == nil {
		return ta != nil
	}
	return ta.End > tb.End
}

// Units returns the unit entries in feed order.
func (o *Ontology) Units() []Entry { return o.filter(func(k string) bool { return k == KindUnit }) }

// Entities returns the named-entity entries in feed order.
func (o *Ontology) Entities() []Entry { return o.filter(IsEntityKind) }

// Records returns every entry in feed order.
func (o *Ontology) Records() []Entry {
	if o == nil {
		return nil
	}
	return o.all
}

func (o *Ontology) filter(keep func(string) bool) []Entry {
	if o == nil {
		return nil
	}
	var out []Entry
	for _, e := range o.all {
		if keep(e.Kind) {
			out = append(out, e)
		}
	}
	return out
}
