package referent

import (
	"encoding/json"
	"strconv"
)

// Type tags the closed set of referent variants.
type Type uint8

const (
	TypeUndefined Type = iota
	TypeMeasure
	TypeUnit
	TypeNamedEntity
	TypeUri
)

var typeNames = map[Type]string{
	TypeUndefined:   "UNDEFINED",
	TypeMeasure:     "MEASURE",
	TypeUnit:        "UNIT",
	TypeNamedEntity: "NAMEDENTITY",
	TypeUri:         "URI",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNDEFINED"
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Slot names shared by the sub-parsers.
const (
	SlotName       = "NAME"
	SlotFullname   = "FULLNAME"
	SlotType       = "TYPE"
	SlotKind       = "KIND"
	SlotRef        = "REF"
	SlotValue      = "VALUE"
	SlotTemplate   = "TEMPLATE"
	SlotUnit       = "UNIT"
	SlotPow        = "POW"
	SlotBaseUnit   = "BASEUNIT"
	SlotBaseFactor = "BASEFACTOR"
	SlotScheme     = "SCHEME"
	SlotDetail     = "DETAIL"
)

// singletonSlots keep a single value and survive merges unchanged.
var singletonSlots = map[string]bool{
	SlotKind:       true,
	SlotTemplate:   true,
	SlotScheme:     true,
	SlotPow:        true,
	SlotBaseFactor: true,
}

// IsSingleton reports whether the slot name holds at most one value.
func IsSingleton(name string) bool {
	return singletonSlots[name]
}

// ValueKind discriminates the Value union.
type ValueKind uint8

const (
	ValueString ValueKind = iota + 1
	ValueNumber
	ValueReferent
)

// Value is a slot value: a string, a number, or a nested referent.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	ref  *Referent
}

// String builds a string value.
func String(s string) Value { return Value{kind: ValueString, str: s} }

// Number builds a numeric value.
func Number(f float64) Value { return Value{kind: ValueNumber, num: f} }

// Nested builds a value pointing at another referent.
func Nested(r *Referent) Value { return Value{kind: ValueReferent, ref: r} }

// Kind returns the variant of v.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload.
func (v Value) Str() (string, bool) { return v.str, v.kind == ValueString }

// Num returns the numeric payload.
func (v Value) Num() (float64, bool) { return v.num, v.kind == ValueNumber }

// Referent returns the nested referent or nil.
func (v Value) Referent() *Referent {
	if v.kind != ValueReferent {
		return nil
	}
	return v.ref
}

// Equal compares payloads; nested referents compare by identity.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.str == o.str
	case ValueNumber:
		return v.num == o.num
	case ValueReferent:
		return v.ref == o.ref
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueReferent:
		if v.ref == nil {
			return ""
		}
		return v.ref.DisplayString(true, defaultLang)
	}
	return ""
}

// Slot is one named attribute.
type Slot struct {
	Name  string
	Value Value
}

// Occurrence is a byte range of the source text a referent was found at.
type Occurrence struct {
	Begin int
	End   int
}

// Referent is a typed, slot-based entity record.
type Referent struct {
	typ         Type
	slots       []Slot
	occurrences []Occurrence
}

// New creates an empty referent of type t
func New(t Type) *Referent {
	return &Referent{typ: t}
}

// Type returns the variant tag.
func (r *Referent) Type() Type { return r.typ }

// Slots returns the slots in insertion order. Callers must not modify the slice.
func (r *Referent) Slots() []Slot { return r.slots }

// Occurrences returns the source spans the referent was anchored to.
func (r *Referent) Occurrences() []Occurrence { return r.occurrences }

// AddOccurrence records a source span, ignoring repeats.
func (r *Referent) AddOccurrence(begin, end int) {
	for _, o := range r.occurrences {
		if o.Begin == begin && o.End == end {
			return
		}
	}
	r.occurrences = append(r.occurrences, Occurrence{Begin: begin, End: end})
}

// AddSlot adds a value under name. A singleton slot replaces the previous value in
// place; otherwise the value is appended unless the same name/value pair already exists.
func (r *Referent) AddSlot(name string, v Value, singleton bool) {
	if singleton {
		idx := -1
		kept := r.slots[:0]
		for _, s := range r.slots {
			if s.Name == name {
				if idx >= 0 {
					continue
				}
				idx = len(kept)
				s.Value = v
			}
			kept = append(kept, s)
		}
		r.slots = kept
		if idx < 0 {
			r.slots = append(r.slots, Slot{Name: name, Value: v})
		}
		return
	}
	if r.HasValue(name, v) {
		return
	}
	r.slots = append(r.slots, Slot{Name: name, Value: v})
}

// AppendSlot appends without the duplicate check; used for positional values.
func (r *Referent) AppendSlot(name string, v Value) {
	r.slots = append(r.slots, Slot{Name: name, Value: v})
}

// HasValue reports whether name already holds v.
func (r *Referent) HasValue(name string, v Value) bool {
	for _, s := range r.slots {
		if s.Name == name && s.Value.Equal(v) {
			return true
		}
	}
	return false
}

// StringValue returns the first value under name if it is a string.
func (r *Referent) StringValue(name string) (string, bool) {
	for _, s := range r.slots {
		if s.Name == name {
			return s.Value.Str()
		}
	}
	return "", false
}

// StringValues returns every string value under name.
func (r *Referent) StringValues(name string) []string {
	var out []string
	for _, s := range r.slots {
		if s.Name != name {
			continue
		}
		if str, ok := s.Value.Str(); ok {
			out = append(out, str)
		}
	}
	return out
}

// Values returns every value under name.
func (r *Referent) Values(name string) []Value {
	var out []Value
	for _, s := range r.slots {
		if s.Name == name {
			out = append(out, s.Value)
		}
	}
	return out
}

// NestedValues returns the referents stored under name.
func (r *Referent) NestedValues(name string) []*Referent {
	var out []*Referent
	for _, s := range r.slots {
		if s.Name != name {
			continue
		}
		if n := s.Value.Referent(); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// ReplaceNested swaps nested referent old for repl in every slot.
func (r *Referent) ReplaceNested(old, repl *Referent) {
	for i := range r.slots {
		if r.slots[i].Value.Referent() == old {
			r.slots[i].Value = Nested(repl)
		}
	}
}

// Clone copies the slot list. Nested referents are shared, occurrences are not copied.
func (r *Referent) Clone() *Referent {
	c := &Referent{typ: r.typ, slots: make([]Slot, len(r.slots))}
	copy(c.slots, r.slots)
	return c
}

// Merge folds other's slots into r, first-seen order preserved.
func (r *Referent) Merge(other *Referent) {
	if other == nil || other == r {
		return
	}
	for _, s := range other.slots {
		if IsSingleton(s.Name) {
			if _, exists := r.firstSlot(s.Name); exists {
				continue
			}
		}
		r.AddSlot(s.Name, s.Value, false)
	}
	for _, o := range other.occurrences {
		r.AddOccurrence(o.Begin, o.End)
	}
}

func (r *Referent) firstSlot(name string) (Slot, bool) {
	for _, s := range r.slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

// Pow returns the POW slot of a unit referent, 1 when absent.
func (r *Referent) Pow() int {
	s, ok := r.StringValue(SlotPow)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}

type jsonSlot struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

type jsonReferent struct {
	Type        Type         `json:"type"`
	Display     string       `json:"display"`
	Slots       []jsonSlot   `json:"slots"`
	Occurrences []Occurrence `json:"occurrences,omitempty"`
}

// MarshalJSON renders the referent with nested referents inlined.
func (r *Referent) MarshalJSON() ([]byte, error) {
	out := jsonReferent{
		Type:        r.typ,
		Display:     r.DisplayString(false, defaultLang),
		Slots:       make([]jsonSlot, 0, len(r.slots)),
		Occurrences: r.occurrences,
	}
	for _, s := range r.slots {
		js := jsonSlot{Name: s.Name}
		switch s.Value.kind {
		case ValueString:
			js.Value = s.Value.str
		case ValueNumber:
			js.Value = s.Value.num
		case ValueReferent:
			js.Value = s.Value.ref
		}
		out.Slots = append(out.Slots, js)
	}
	return json.Marshal(out)
}

// MarshalJSON implements json.Marshaler
func (o Occurrence) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{o.Begin, o.End})
}
