// Package adapter applies signature checks across aggregates: modules of
// named values, objects with methods, and constructors of such objects.
package adapter

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/signature"
	"golang.org/x/sync/errgroup"
)

// SignatureSuffix marks the module key holding the signature of the
// function stored under the key without it.
const SignatureSuffix = "_"

// Wrapper binds functions to signatures. *signature.Checker implements it.
type Wrapper interface {
	Wrap(sig signature.Signature, fn any, name string) (*signature.Func, error)
}

// CheckModule returns a copy of module in which every function with a
// companion signature is replaced by its checked version, as returned by
// Func.Interface. Signature keys are removed. Everything else is copied
// unchanged.
func CheckModule(ctx context.Context, w Wrapper, module map[string]any) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	out := make(map[string]any, len(module))
	sigs := make(map[string]any)
	for key, v := range module {
		if base, ok := strings.CutSuffix(key, SignatureSuffix); ok && base != "" {
			sigs[base] = v
			continue
		}
		out[key] = v
	}

	var mu sync.Mutex
	wrapped := make(map[string]any, len(sigs))
	g, _ := errgroup.WithContext(ctx)
	for _, name := range sortedKeys(sigs) {
		fn, ok := out[name]
		if !ok || !isFunc(fn) {
			logger.Warn("Signature has no matching function, ignoring it.", "name", name)
			continue
		}
		raw := sigs[name]
		g.Go(func() error {
			sig, err := ToSignature(raw)
			if err != nil {
				return fmt.Errorf("signature %q: %w", name+SignatureSuffix, err)
			}
			f, err := w.Wrap(sig, fn, name)
			if err != nil {
				return fmt.Errorf("function %q: %w", name, err)
			}
			mu.Lock()
			wrapped[name] = f.Interface()
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for name, fn := range wrapped {
		out[name] = fn
	}

	logger.Debug("Checked module.", "entries", len(out), "wrapped", len(wrapped))
	return out, nil
}

// ToSignature accepts a signature.Signature, a slice of descriptors, or a
// slice of descriptors in native form.
func ToSignature(v any) (signature.Signature, error) {
	switch x := v.(type) {
	case signature.Signature:
		return x, nil
	case *signature.Signature:
		if x != nil {
			return *x, nil
		}
	case []descriptor.Descriptor:
		return signature.New(x...)
	case []string:
		natives := make([]any, len(x))
		for i, s := range x {
			natives[i] = s
		}
		return signature.Parse(natives...)
	case []any:
		return signature.Parse(x...)
	}
	return signature.Signature{}, fmt.Errorf("%w: unsupported signature value %T", signature.ErrInvalidSignature, v)
}

func isFunc(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
