// Package analyzer holds the per-document state shared by the sub-parsers and
// the loop that drives a sub-parser over a token stream.
package analyzer

import (
	"github.com/cognicore/nerkit/pkg/nerkit/referent"
)

// Data is the per-document referent registry. Equal referents collapse into the
// first registered instance.
type Data struct {
	referents []*referent.Referent
}

// NewData creates an empty registry.
func NewData() *Data {
	return &Data{}
}

// Register returns the canonical instance for r. Nested referents are registered
// first so equality compares canonical children. When an equal referent already
// exists, r's slots are merged into it and the existing instance is returned.
func (d *Data) Register(r *referent.Referent) *referent.Referent {
	if r == nil {
		return nil
	}
	for _, s := range r.Slots() {
		child := s.Value.Referent()
		if child == nil {
			continue
		}
		if canon := d.Register(child); canon != child {
			r.ReplaceNested(child, canon)
		}
	}

	for _, existing := range d.referents {
		if existing == r {
			return existing
		}
		if existing.Type() == r.Type() && existing.CanBeEquals(r) {
			existing.Merge(r)
			return existing
		}
	}
	d.referents = append(d.referents, r)
	return r
}

// Referents returns every registered referent in registration order.
func (d *Data) Referents() []*referent.Referent {
	return d.referents
}

// OfType returns the registered referents of type t.
func (d *Data) OfType(t referent.Type) []*referent.Referent {
	var out []*referent.Referent
	for _, r := range d.referents {
		if r.Type() == t {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of registered referents.
func (d *Data) Len() int { return len(d.referents) }
