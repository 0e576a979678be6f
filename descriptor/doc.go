// Package descriptor defines the type-descriptor grammar: the data shapes that
// describe an expected runtime value (primitives, tuples, arrays, keyed
// objects, regular expressions and named aliases) together with the
// annotations that may be layered on top of any of them (nullable, optional
// and filter chains).
//
// Descriptors are plain data. They can be built directly with the
// constructors in this package or parsed from the compact native form used in
// manifests and Go literals, e.g. "Number?|gte:0", []any{"Number", "String"}
// or map[string]any{"*": "Number"}. Matching lives in the match package.
package descriptor
