package registry

import (
	"fmt"

	"github.com/specialistvlad/deodorant/descriptor"
)

// Validate checks that every alias and filter referenced by a registered
// alias exists and that no chain of aliases leads back to itself. All
// problems are reported together in a *ValidationError.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var problems []error
	for _, name := range sortedKeys(r.aliases) {
		problems = append(problems, r.checkReferences(name, r.aliases[name])...)
		if err := r.checkChain(name); err != nil {
			problems = append(problems, err)
		}
	}

	if len(problems) > 0 {
		r.logger.Debug("Registry validation failed.", "problems", len(problems))
		return &ValidationError{Problems: problems}
	}
	return nil
}

// CheckReferences reports the aliases and filters used by d that are not
// registered.
func (r *Registry) CheckReferences(d descriptor.Descriptor) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if problems := r.checkReferences("", d); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (r *Registry) checkReferences(owner string, d descriptor.Descriptor) []error {
	var problems []error
	prefix := ""
	if owner != "" {
		prefix = fmt.Sprintf("alias %q: ", owner)
	}
	descriptor.Walk(d, func(n descriptor.Descriptor) bool {
		if n.Kind == descriptor.KindAlias {
			if _, ok := r.aliases[n.Name]; !ok {
				problems = append(problems, fmt.Errorf("%s%w %q", prefix, ErrUnresolvedAlias, n.Name))
			}
		}
		for _, f := range n.Filters() {
			if _, ok := r.filters[f.Name]; !ok {
				problems = append(problems, fmt.Errorf("%s%w %q", prefix, ErrUnknownFilter, f.Name))
			}
		}
		return true
	})
	return problems
}

// checkChain follows direct alias-to-alias links starting at name. Callers
// hold the read lock.
func (r *Registry) checkChain(name string) error {
	seen := map[string]bool{name: true}
	d := r.aliases[name]
	for d.Kind == descriptor.KindAlias {
		if seen[d.Name] {
			return fmt.Errorf("alias %q: %w through %q", name, ErrAliasCycle, d.Name)
		}
		seen[d.Name] = true
		next, ok := r.aliases[d.Name]
		if !ok {
			return nil
		}
		d = next
	}
	return nil
}
