package config

// Model is the unified, format-agnostic representation of a set of
// manifests. Slices keep file order.
type Model struct {
	Aliases    []*AliasDefinition
	Signatures []*SignatureDefinition
	Checks     []*CheckDefinition
}

// AliasDefinition is the format-agnostic representation of an `alias` block.
type AliasDefinition struct {
	Name        string
	Type        any
	Description string
	Source      string
}

// SignatureDefinition is the format-agnostic representation of a
// `signature` block. Types lists the argument descriptors followed by the
// return descriptor.
type SignatureDefinition struct {
	Name        string
	Types       []any
	Description string
	Source      string
}

// CheckDefinition is an example value with the outcome it is expected to
// have. A check either matches Value against Type, or, when Signature is
// set, matches Values as the arguments and return value of that signature.
type CheckDefinition struct {
	Name      string
	Type      any
	Value     any
	Signature string
	Values    []any
	Expect    bool
	Source    string
}

// IsSignatureCheck reports whether the check targets a named signature.
func (c *CheckDefinition) IsSignatureCheck() bool {
	return c.Signature != ""
}

// Merge appends everything from other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Aliases = append(m.Aliases, other.Aliases...)
	m.Signatures = append(m.Signatures, other.Signatures...)
	m.Checks = append(m.Checks, other.Checks...)
}

// Signature returns the last definition registered under name.
func (m *Model) Signature(name string) (*SignatureDefinition, bool) {
	for i := len(m.Signatures) - 1; i >= 0; i-- {
		if m.Signatures[i].Name == name {
			return m.Signatures[i], true
		}
	}
	return nil, false
}
