package referent

import "strings"

// CanBeEquals reports whether r and other denote the same real-world entity.
// Referents of different types never match.
func (r *Referent) CanBeEquals(other *Referent) bool {
	if r == nil || other == nil {
		return false
	}
	if r == other {
		return true
	}
	if r.typ != other.typ {
		return false
	}
	switch r.typ {
	case TypeMeasure:
		return measureEquals(r, other)
	case TypeUnit:
		return unitEquals(r, other)
	case TypeNamedEntity:
		return namedEquals(r, other)
	case TypeUri:
		return uriEquals(r, other)
	}
	return false
}

func sameString(a, b *Referent, name string) bool {
	va, _ := a.StringValue(name)
	vb, _ := b.StringValue(name)
	return va == vb
}

func measureEquals(a, b *Referent) bool {
	if !sameString(a, b, SlotTemplate) || !sameString(a, b, SlotKind) {
		return false
	}
	va, vb := a.Values(SlotValue), b.Values(SlotValue)
	if len(va) != len(vb) {
		return false
	}
	for i := range va {
		if !va[i].Equal(vb[i]) {
			return false
		}
	}
	return nestedListEquals(a.NestedValues(SlotUnit), b.NestedValues(SlotUnit))
}

// unitEquals matches on symbol, power and base unit.
func unitEquals(a, b *Referent) bool {
	if !sameString(a, b, SlotName) {
		return false
	}
	if a.Pow() != b.Pow() {
		return false
	}
	return nestedListEquals(a.NestedValues(SlotBaseUnit), b.NestedValues(SlotBaseUnit))
}

// namedEquals needs the same kind and a shared name or type. Names that are
// present on both sides must overlap, and so must types. References, when both
// sides have them, must overlap too.
func namedEquals(a, b *Referent) bool {
	if !sameString(a, b, SlotKind) {
		return false
	}
	namesA, namesB := a.StringValues(SlotName), b.StringValues(SlotName)
	typesA, typesB := a.StringValues(SlotType), b.StringValues(SlotType)

	nameHit := intersectFold(namesA, namesB)
	if len(namesA) > 0 && len(namesB) > 0 && !nameHit {
		return false
	}
	typeHit := intersectFold(typesA, typesB)
	if len(typesA) > 0 && len(typesB) > 0 && !typeHit {
		return false
	}
	if !nameHit && !typeHit {
		return false
	}

	refsA, refsB := a.NestedValues(SlotRef), b.NestedValues(SlotRef)
	if len(refsA) > 0 && len(refsB) > 0 && !intersectRefs(refsA, refsB) {
		return false
	}
	return true
}

// intersectRefs reports whether some reference of a can be equal to some
// reference of b.
func intersectRefs(a, b []*Referent) bool {
	for _, ra := range a {
		for _, rb := range b {
			if ra.CanBeEquals(rb) {
				return true
			}
		}
	}
	return false
}

func uriEquals(a, b *Referent) bool {
	va, okA := a.StringValue(SlotValue)
	vb, okB := b.StringValue(SlotValue)
	if !okA || !okB || va != vb {
		return false
	}
	return sameString(a, b, SlotScheme)
}

func nestedListEquals(a, b []*Referent) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].CanBeEquals(b[i]) {
			return false
		}
	}
	return true
}

func intersectFold(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}
