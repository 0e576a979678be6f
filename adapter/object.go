package adapter

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/signature"
)

// ErrUnknownMethod is returned when calling a method that has no signature.
var ErrUnknownMethod = errors.New("unknown method")

// Object is a value whose signed methods are checked on every call.
type Object struct {
	value   any
	methods map[string]*signature.Func
}

// CheckObject binds the methods of obj named in sigs to their signatures.
func CheckObject(ctx context.Context, w Wrapper, obj any, sigs map[string]signature.Signature) (*Object, error) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: cannot check methods of nil", signature.ErrInvalidSignature)
	}
	typeName := rv.Type().String()

	o := &Object{value: obj, methods: make(map[string]*signature.Func, len(sigs))}
	for name, sig := range sigs {
		m := rv.MethodByName(name)
		if !m.IsValid() {
			return nil, fmt.Errorf("%w: %s has no method %q", signature.ErrInvalidSignature, typeName, name)
		}
		f, err := w.Wrap(sig, m.Interface(), name)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", typeName, name, err)
		}
		o.methods[name] = f
	}
	ctxlog.FromContext(ctx).Debug("Checked object.", "type", typeName, "methods", len(o.methods))
	return o, nil
}

// Value returns the wrapped value. Its methods are not checked.
func (o *Object) Value() any { return o.value }

// Call invokes a signed method with checks.
func (o *Object) Call(method string, args ...any) (any, error) {
	f, ok := o.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, method)
	}
	return f.Call(args...)
}

// Method returns the checked version of a signed method.
func (o *Object) Method(name string) (*signature.Func, bool) {
	f, ok := o.methods[name]
	return f, ok
}

// Methods returns the names of the signed methods, sorted.
func (o *Object) Methods() []string {
	names := make([]string, 0, len(o.methods))
	for name := range o.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Class produces checked objects from a constructor function.
type Class struct {
	wrapper Wrapper
	ctor    *signature.Func
	methods map[string]signature.Signature
}

// CheckClass binds factory, a function returning an instance and
// optionally an error, to ctor. Without a constructor signature the
// arguments are only checked for being present and not NaN. Every instance
// produced by New has the methods named in methods checked.
func CheckClass(w Wrapper, factory any, ctor *signature.Signature, methods map[string]signature.Signature) (*Class, error) {
	ft := reflect.TypeOf(factory)
	if ft == nil || ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: constructor %T is not a function", signature.ErrInvalidSignature, factory)
	}

	var sig signature.Signature
	if ctor != nil {
		sig = *ctor
	} else {
		if ft.IsVariadic() {
			return nil, fmt.Errorf("%w: a variadic constructor needs a signature", signature.ErrInvalidSignature)
		}
		args := make([]descriptor.Descriptor, ft.NumIn())
		for i := range args {
			args[i] = descriptor.Prim(descriptor.Any)
		}
		sig = signature.Signature{Args: args, Return: descriptor.Prim(descriptor.Any)}
	}

	f, err := w.Wrap(sig, factory, "constructor")
	if err != nil {
		return nil, err
	}
	return &Class{wrapper: w, ctor: f, methods: methods}, nil
}

// New calls the constructor with checked arguments and wraps the instance.
func (c *Class) New(ctx context.Context, args ...any) (*Object, error) {
	inst, err := c.ctor.Call(args...)
	if err != nil {
		return nil, err
	}
	return CheckObject(ctx, c.wrapper, inst, c.methods)
}
