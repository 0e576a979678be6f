package descriptor

import "strings"

// AnnotationKind distinguishes the entries of an annotation list.
type AnnotationKind uint8

const (
	// Nullable accepts the null value unconditionally.
	Nullable AnnotationKind = iota + 1
	// Optional accepts the absent value unconditionally.
	Optional
	// Filter applies a named predicate on top of the base shape.
	Filter
)

func (k AnnotationKind) String() string {
	switch k {
	case Nullable:
		return "nullable"
	case Optional:
		return "optional"
	case Filter:
		return "filter"
	default:
		return "unknown"
	}
}

// FilterRef references a registered filter, optionally with an argument.
type FilterRef struct {
	Name   string
	Arg    string
	HasArg bool
}

// String renders the reference as "name" or "name:arg".
func (f FilterRef) String() string {
	if f.HasArg {
		return f.Name + ":" + f.Arg
	}
	return f.Name
}

// Annotation is one entry of a descriptor's annotation list. Filter is only
// meaningful when Kind is Filter.
type Annotation struct {
	Kind   AnnotationKind
	Filter FilterRef
}

// Strip separates d into its base shape and its annotation list. The base is
// a copy with no annotations; stripping it again yields the same base and an
// empty list.
func (d Descriptor) Strip() (Descriptor, []Annotation) {
	anns := d.Annotations
	d.Annotations = nil
	if len(anns) == 0 {
		return d, nil
	}
	return d, append([]Annotation(nil), anns...)
}

// Marker returns the leading Nullable or Optional annotation kind, or zero.
func (d Descriptor) Marker() AnnotationKind {
	if len(d.Annotations) > 0 && d.Annotations[0].Kind != Filter {
		return d.Annotations[0].Kind
	}
	return 0
}

// Filters returns the filter references of d in declaration order.
func (d Descriptor) Filters() []FilterRef {
	var refs []FilterRef
	for _, a := range d.Annotations {
		if a.Kind == Filter {
			refs = append(refs, a.Filter)
		}
	}
	return refs
}

// IsOptional reports whether d carries the Optional marker.
func (d Descriptor) IsOptional() bool {
	return d.Marker() == Optional
}

// Nullable returns a copy of d that also accepts null. An existing Optional
// marker is replaced.
func (d Descriptor) Nullable() Descriptor {
	return d.withMarker(Nullable)
}

// Optional returns a copy of d that also accepts the absent value. An
// existing Nullable marker is replaced.
func (d Descriptor) Optional() Descriptor {
	return d.withMarker(Optional)
}

// WithFilter returns a copy of d with a filter appended to its chain.
func (d Descriptor) WithFilter(name string, arg ...string) Descriptor {
	ref := FilterRef{Name: name}
	if len(arg) > 0 {
		ref.Arg = strings.Join(arg, ":")
		ref.HasArg = true
	}
	anns := make([]Annotation, 0, len(d.Annotations)+1)
	anns = append(anns, d.Annotations...)
	d.Annotations = append(anns, Annotation{Kind: Filter, Filter: ref})
	return d
}

func (d Descriptor) withMarker(kind AnnotationKind) Descriptor {
	anns := make([]Annotation, 0, len(d.Annotations)+1)
	anns = append(anns, Annotation{Kind: kind})
	for _, a := range d.Annotations {
		if a.Kind == Filter {
			anns = append(anns, a)
		}
	}
	d.Annotations = anns
	return d
}
