// Package config defines the format-agnostic manifest model: named aliases,
// named signatures and example checks, together with the Loader interface
// implemented by the HCL and YAML adapters.
//
// Descriptors in the model are kept in native form (strings, []any,
// map[string]any) and are parsed by the application after loading.
package config
