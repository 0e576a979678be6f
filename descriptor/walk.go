package descriptor

// Walk calls fn for d and, depth-first, for every descriptor nested inside
// it. Field descriptors are visited in sorted key order. Alias references are
// reported but not followed. Returning false from fn skips the children of
// the current descriptor.
func Walk(d Descriptor, fn func(Descriptor) bool) {
	if !fn(d) {
		return
	}
	switch d.Kind {
	case KindTuple:
		for _, el := range d.Elements {
			Walk(el, fn)
		}
	case KindArray:
		if d.Elem != nil {
			Walk(*d.Elem, fn)
		}
	case KindObject:
		if d.Wildcard != nil {
			Walk(*d.Wildcard, fn)
			return
		}
		for _, name := range d.FieldNames() {
			Walk(d.Fields[name], fn)
		}
	}
}
