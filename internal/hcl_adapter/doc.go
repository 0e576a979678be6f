// Package hcl_adapter loads `.hcl` manifests into the format-agnostic
// config.Model and parses descriptor text written as HCL expressions.
//
// A manifest file may contain any number of `alias`, `signature` and
// `check` blocks. Descriptor attributes are ordinary HCL expressions in
// which bare identifiers evaluate to their own names, so `Number` and
// "Number" are equivalent:
//
//	alias "Position" {
//	  type = [Number, Number]
//	}
//
// Annotated descriptors such as "Number?" or "Number|gte:0" must be quoted.
package hcl_adapter
