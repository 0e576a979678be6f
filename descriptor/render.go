package descriptor

import (
	"strconv"
	"strings"
)

// String renders d in the native descriptor notation, e.g.
// "Number?|gte:0", "[Number, String]", "{pos: Position, {}?}" or "{*: Number}".
func (d Descriptor) String() string {
	var b strings.Builder
	d.render(&b)
	return b.String()
}

func (d Descriptor) render(b *strings.Builder) {
	switch d.Kind {
	case KindPrimitive, KindAlias:
		b.WriteString(d.Name)
		writeSuffix(b, d.Annotations)
	case KindRegex:
		b.WriteByte('/')
		if d.Pattern != nil {
			b.WriteString(d.Pattern.String())
		}
		b.WriteByte('/')
		writeSuffix(b, d.Annotations)
	case KindArray:
		b.WriteByte('[')
		if d.Elem != nil {
			d.Elem.render(b)
		}
		writeSentinel(b, sequenceSentinel, d.Annotations)
		b.WriteByte(']')
	case KindTuple:
		b.WriteByte('[')
		for i, el := range d.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			el.render(b)
		}
		writeSentinel(b, sequenceSentinel, d.Annotations)
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		if d.Wildcard != nil {
			b.WriteString(WildcardKey + ": ")
			d.Wildcard.render(b)
		} else {
			for i, name := range d.FieldNames() {
				if i > 0 {
					b.WriteString(", ")
				}
				if isName(name) {
					b.WriteString(name)
				} else {
					b.WriteString(strconv.Quote(name))
				}
				b.WriteString(": ")
				f := d.Fields[name]
				f.render(b)
			}
		}
		if len(d.Annotations) > 0 && (d.Wildcard != nil || len(d.Fields) > 0) {
			b.WriteString(", ")
		}
		writeSuffixed(b, objectSentinel, d.Annotations)
		b.WriteByte('}')
	default:
		b.WriteString("<invalid>")
	}
}

func writeSentinel(b *strings.Builder, sentinel string, anns []Annotation) {
	if len(anns) == 0 {
		return
	}
	b.WriteString(", ")
	writeSuffixed(b, sentinel, anns)
}

func writeSuffixed(b *strings.Builder, sentinel string, anns []Annotation) {
	if len(anns) == 0 {
		return
	}
	b.WriteString(sentinel)
	writeSuffix(b, anns)
}

func writeSuffix(b *strings.Builder, anns []Annotation) {
	for _, a := range anns {
		switch a.Kind {
		case Nullable:
			b.WriteByte('?')
		case Optional:
			b.WriteByte('*')
		case Filter:
			b.WriteByte('|')
			b.WriteString(a.Filter.String())
		}
	}
}
