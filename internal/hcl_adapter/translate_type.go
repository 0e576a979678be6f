// This file contains the logic for evaluating HCL descriptor expressions
// (e.g., `Number`, `[Number, "String?"]`) into native descriptor form.

package hcl_adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/value"
	"github.com/zclconf/go-cty/cty"
)

// identityContext binds every root variable referenced by expr to a string
// holding its own name.
func identityContext(expr hcl.Expression) *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		vars[name] = cty.StringVal(name)
	}
	return &hcl.EvalContext{Variables: vars}
}

// evalDescriptor evaluates a descriptor expression into its native form:
// strings, []any and map[string]any.
func evalDescriptor(ctx context.Context, expr hcl.Expression) (any, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return nil, fmt.Errorf("missing descriptor expression")
	}
	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return nil, fmt.Errorf("%s: invalid descriptor: traversal path is not a single identifier", v.Range())
		}
		logger.Debug("Evaluating descriptor as a bare name.", "name", v.Traversal.RootName())
	case *hclsyntax.FunctionCallExpr:
		return nil, fmt.Errorf("%s: function calls are not allowed in descriptors, got %s()", v.Range(), v.Name)
	}

	val, diags := expr.Value(identityContext(expr))
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("%s: descriptor must be a constant expression", expr.Range())
	}
	return value.FromCty(val), nil
}

// ParseDescriptorText reads a descriptor typed on the command line or in
// the REPL. Text that parses as an HCL expression is evaluated the same way
// as a manifest `type` attribute; anything else, such as "Number?" or
// "/^a/", is returned as the trimmed string for descriptor.Parse.
func ParseDescriptorText(text string) (any, error) {
	text = strings.TrimSpace(text)
	expr, diags := hclsyntax.ParseExpression([]byte(text), "<descriptor>", hcl.InitialPos)
	if diags.HasErrors() {
		return text, nil
	}
	return evalDescriptor(context.Background(), expr)
}
