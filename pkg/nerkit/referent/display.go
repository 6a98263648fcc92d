package referent

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

var defaultLang = language.English

// commaDecimal lists base languages that write decimals with a comma.
var commaDecimal = map[string]bool{
	"ru": true, "uk": true, "de": true, "fr": true, "es": true,
	"it": true, "pt": true, "pl": true, "nl": true, "cs": true,
}

func localizeNumber(v string, lang language.Tag) string {
	if v == "NaN" {
		return "?"
	}
	base, _ := lang.Base()
	if commaDecimal[base.String()] {
		return strings.Replace(v, ".", ",", 1)
	}
	return v
}

// DisplayString renders a human-readable form. short drops the kind tag and
// cross-references.
func (r *Referent) DisplayString(short bool, lang language.Tag) string {
	switch r.typ {
	case TypeMeasure:
		return r.measureString(short, lang)
	case TypeUnit:
		return r.unitString(short)
	case TypeNamedEntity:
		return r.namedString(short, lang)
	case TypeUri:
		return r.uriString(short)
	}
	return ""
}

func (r *Referent) String() string {
	return r.DisplayString(false, defaultLang)
}

func (r *Referent) measureString(short bool, lang language.Tag) string {
	tmpl, ok := r.StringValue(SlotTemplate)
	if !ok || tmpl == "" {
		tmpl = "1"
	}
	values := r.Values(SlotValue)

	var sb strings.Builder
	for _, ch := range tmpl {
		if ch < '1' || ch > '9' {
			sb.WriteRune(ch)
			continue
		}
		idx := int(ch - '1')
		if idx >= len(values) {
			sb.WriteByte('?')
			continue
		}
		sb.WriteString(localizeNumber(values[idx].String(), lang))
	}
	sb.WriteString(UnitChain(r))

	if !short {
		if kind, ok := r.StringValue(SlotKind); ok && kind != "" {
			sb.WriteString(" [")
			sb.WriteString(kind)
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// UnitChain renders the unit list of a measure: m/s, kg*m<2>, m<2>.
func UnitChain(measure *Referent) string {
	units := measure.NestedValues(SlotUnit)
	if len(units) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, u := range units {
		sym, _ := u.StringValue(SlotName)
		pow := u.Pow()
		if i == 0 {
			sb.WriteString(sym)
			if pow != 1 {
				sb.WriteString("<" + strconv.Itoa(pow) + ">")
			}
			continue
		}
		if pow < 0 {
			sb.WriteString("/" + sym)
			if pow != -1 {
				sb.WriteString("<" + strconv.Itoa(-pow) + ">")
			}
		} else {
			sb.WriteString("*" + sym)
			if pow > 1 {
				sb.WriteString("<" + strconv.Itoa(pow) + ">")
			}
		}
	}
	return sb.String()
}

func (r *Referent) unitString(short bool) string {
	sym, _ := r.StringValue(SlotName)
	out := sym
	if pow := r.Pow(); pow != 1 {
		out += "<" + strconv.Itoa(pow) + ">"
	}
	if !short {
		if full, ok := r.StringValue(SlotFullname); ok && full != "" {
			out += " (" + full + ")"
		}
	}
	return out
}

func (r *Referent) namedString(short bool, lang language.Tag) string {
	name, _ := r.StringValue(SlotName)
	typ, _ := r.StringValue(SlotType)

	var sb strings.Builder
	switch {
	case typ != "" && name != "":
		sb.WriteString(typ + " " + name)
	case name != "":
		sb.WriteString(name)
	default:
		sb.WriteString(typ)
	}
	if short {
		return sb.String()
	}
	if kind, ok := r.StringValue(SlotKind); ok && kind != "" {
		sb.WriteString(" [" + kind + "]")
	}
	for _, ref := range r.NestedValues(SlotRef) {
		sb.WriteString("; " + ref.DisplayString(true, lang))
	}
	return sb.String()
}

func (r *Referent) uriString(short bool) string {
	value, _ := r.StringValue(SlotValue)
	scheme, _ := r.StringValue(SlotScheme)

	var out string
	switch scheme {
	case "http", "https", "shttp", "ftp":
		out = scheme + "://" + value
	case "", "mailto":
		out = value
	default:
		out = scheme + ":" + value
	}
	if !short {
		if detail, ok := r.StringValue(SlotDetail); ok && detail != "" {
			out += " (" + detail + ")"
		}
	}
	return out
}
