// Package registry holds the named pieces the matcher looks up at check
// time: type aliases and filter predicates.
//
// A Registry is populated during startup, either directly or by applying
// Modules, then validated so that every alias and filter referenced by a
// registered descriptor exists and no alias resolves to itself. Applications
// that load their aliases from manifests seal the registry afterwards, which
// turns every later registration into an error.
package registry
