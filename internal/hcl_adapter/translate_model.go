// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/deodorant/internal/config"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/value"
)

// translateAlias converts the HCL-specific alias schema into the agnostic model.
func translateAlias(ctx context.Context, a *aliasBlock, file string) (*config.AliasDefinition, error) {
	ctxlog.FromContext(ctx).Debug("Translating HCL alias.", "alias", a.Name)

	desc, err := evalDescriptor(ctx, a.Type)
	if err != nil {
		return nil, fmt.Errorf("in alias '%s': %w", a.Name, err)
	}
	return &config.AliasDefinition{
		Name:        a.Name,
		Type:        desc,
		Description: a.Description,
		Source:      file,
	}, nil
}

// translateSignature converts the HCL-specific signature schema into the
// agnostic model. The return descriptor is appended to the arguments.
func translateSignature(ctx context.Context, s *signatureBlock, file string) (*config.SignatureDefinition, error) {
	ctxlog.FromContext(ctx).Debug("Translating HCL signature.", "signature", s.Name)

	var types []any
	if isExprDefined(ctx, s.Args, "args") {
		args, err := evalList(s.Args, func(expr hcl.Expression) (any, error) { return evalDescriptor(ctx, expr) })
		if err != nil {
			return nil, fmt.Errorf("in signature '%s', args: %w", s.Name, err)
		}
		types = append(types, args...)
	}

	ret, err := evalDescriptor(ctx, s.Returns)
	if err != nil {
		return nil, fmt.Errorf("in signature '%s', returns: %w", s.Name, err)
	}
	types = append(types, ret)

	return &config.SignatureDefinition{
		Name:        s.Name,
		Types:       types,
		Description: s.Description,
		Source:      file,
	}, nil
}

// translateCheck converts the HCL-specific check schema into the agnostic
// model. An omitted `value` is Undefined and an omitted `expect` is true.
func translateCheck(ctx context.Context, c *checkBlock, file string) (*config.CheckDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("check", c.Name)
	logger.Debug("Translating HCL check.")

	def := &config.CheckDefinition{
		Name:      c.Name,
		Value:     value.Undefined,
		Signature: c.Signature,
		Expect:    true,
		Source:    file,
	}
	if c.Expect != nil {
		def.Expect = *c.Expect
	}

	hasType := isExprDefined(ctx, c.Type, "type")
	if c.Signature != "" {
		if hasType || isExprDefined(ctx, c.Value, "value") {
			return nil, fmt.Errorf("in check '%s': 'signature' cannot be combined with 'type' or 'value'", c.Name)
		}
		if isExprDefined(ctx, c.Values, "values") {
			values, err := evalList(c.Values, evalValue)
			if err != nil {
				return nil, fmt.Errorf("in check '%s', values: %w", c.Name, err)
			}
			def.Values = values
		}
		return def, nil
	}

	if !hasType {
		return nil, fmt.Errorf("in check '%s': either 'type' or 'signature' is required", c.Name)
	}
	if isExprDefined(ctx, c.Values, "values") {
		return nil, fmt.Errorf("in check '%s': 'values' requires 'signature'", c.Name)
	}
	desc, err := evalDescriptor(ctx, c.Type)
	if err != nil {
		return nil, fmt.Errorf("in check '%s', type: %w", c.Name, err)
	}
	def.Type = desc

	if isExprDefined(ctx, c.Value, "value") {
		v, err := evalValue(c.Value)
		if err != nil {
			return nil, fmt.Errorf("in check '%s', value: %w", c.Name, err)
		}
		def.Value = v
	}
	return def, nil
}
