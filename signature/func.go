package signature

import (
	"fmt"
	"math"
	"reflect"

	"github.com/specialistvlad/deodorant/value"
)

// Func is a function bound to a Signature.
type Func struct {
	name    string
	sig     Signature
	fn      reflect.Value
	orig    any
	checker *Checker
}

func (f *Func) Name() string { return f.name }

func (f *Func) Signature() Signature { return f.sig }

// Call checks args, invokes the function and checks its result. Arguments
// are handed to the function unchanged apart from the numeric and string
// conversions needed to satisfy its parameter types; nil and
// value.Undefined become zero values. If the last result of the function
// is an error and it is non-nil, it is returned as is.
//
// The result is value.Undefined for functions without results, the single
// result, or a []any of all results.
func (f *Func) Call(args ...any) (any, error) {
	if !f.checker.enabled {
		return f.invoke(args)
	}
	if err := f.checkArgs(args); err != nil {
		return nil, err
	}
	result, err := f.invoke(args)
	if err != nil {
		return nil, err
	}
	if err := f.checkReturn(result, args); err != nil {
		return nil, err
	}
	return result, nil
}

// Interface returns a function with the same Go type as the wrapped one.
// It performs the same checks as Call and panics with a *Error when one
// fails. On a disabled Checker it returns the original function.
func (f *Func) Interface() any {
	if !f.checker.enabled {
		return f.orig
	}
	ft := f.fn.Type()
	return reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		args := flatten(ft, in)
		if err := f.checkArgs(args); err != nil {
			panic(err)
		}
		var out []reflect.Value
		if ft.IsVariadic() {
			out = f.fn.CallSlice(in)
		} else {
			out = f.fn.Call(in)
		}
		result, err := results(ft, out)
		if err != nil {
			return out
		}
		if err := f.checkReturn(result, args); err != nil {
			panic(err)
		}
		return out
	}).Interface()
}

func (f *Func) checkArgs(args []any) error {
	if n := len(args); n < f.sig.Required() || n > len(f.sig.Args) {
		err := &Error{
			Kind:     ErrArityMismatch,
			Function: f.name,
			Index:    -1,
			Args:     value.ReprList(args),
			Want:     len(f.sig.Args),
			Required: f.sig.Required(),
			Got:      n,
		}
		f.checker.logger.Debug("Signature check failed.", "function", f.name, "error", err)
		return err
	}
	for i, d := range f.sig.Args {
		var v any = value.Undefined
		if i < len(args) {
			v = args[i]
		}
		if cause := f.checker.matcher.Check(v, d); cause != nil {
			err := &Error{
				Kind:     ErrArgumentTypeMismatch,
				Function: f.name,
				Index:    i,
				Value:    value.Repr(v),
				Expected: d.String(),
				Args:     value.ReprList(args),
				Cause:    cause,
			}
			f.checker.logger.Debug("Signature check failed.", "function", f.name, "error", err)
			return err
		}
	}
	return nil
}

func (f *Func) checkReturn(result any, args []any) error {
	cause := f.checker.matcher.Check(result, f.sig.Return)
	if cause == nil {
		return nil
	}
	err := &Error{
		Kind:     ErrReturnTypeMismatch,
		Function: f.name,
		Index:    -1,
		Value:    value.Repr(result),
		Expected: f.sig.Return.String(),
		Args:     value.ReprList(args),
		Cause:    cause,
	}
	f.checker.logger.Debug("Signature check failed.", "function", f.name, "error", err)
	return err
}

func (f *Func) invoke(args []any) (any, error) {
	ft := f.fn.Type()
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
	}
	if !ft.IsVariadic() && len(args) > fixed {
		return nil, &Error{
			Kind:     ErrArityMismatch,
			Function: f.name,
			Index:    -1,
			Args:     value.ReprList(args),
			Want:     fixed,
			Required: fixed,
			Got:      len(args),
		}
	}

	in := make([]reflect.Value, 0, max(len(args), fixed))
	for i, a := range args {
		rv, err := convert(a, paramType(ft, i))
		if err != nil {
			return nil, fmt.Errorf("function %q argument %d: %w", f.name, i, err)
		}
		in = append(in, rv)
	}
	for i := len(args); i < fixed; i++ {
		in = append(in, reflect.Zero(ft.In(i)))
	}
	return results(ft, f.fn.Call(in))
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

// flatten expands the variadic slice of a MakeFunc call into individual
// arguments.
func flatten(ft reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))
	for i, v := range in {
		if ft.IsVariadic() && i == len(in)-1 {
			for j := 0; j < v.Len(); j++ {
				args = append(args, v.Index(j).Interface())
			}
			continue
		}
		args = append(args, v.Interface())
	}
	return args
}

// results folds the Go results of a call into a single value. A trailing
// non-nil error is returned as the error.
func results(ft reflect.Type, out []reflect.Value) (any, error) {
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return value.Undefined, nil
	case 1:
		return out[0].Interface(), nil
	}
	vals := make([]any, len(out))
	for i, o := range out {
		vals[i] = o.Interface()
	}
	return vals, nil
}

// convert turns a into a value assignable to t. Numbers convert between
// numeric types, strings between string types, and sequences and keyed
// objects element by element.
func convert(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil || value.IsUndefined(a) {
		return reflect.Zero(t), nil
	}
	if wrapped, ok := a.(*Func); ok && t.Kind() == reflect.Func {
		a = wrapped.Interface()
	}
	rv := reflect.ValueOf(a)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	switch {
	case isNumeric(rv.Kind()) && isNumeric(t.Kind()):
		if out, ok := convertNumber(rv, t); ok {
			return out, nil
		}

	case rv.Kind() == reflect.String && t.Kind() == reflect.String,
		rv.Kind() == reflect.Bool && t.Kind() == reflect.Bool:
		return rv.Convert(t), nil

	case (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && t.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			el, err := convert(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(el)
		}
		return out, nil

	case rv.Kind() == reflect.Map && t.Kind() == reflect.Map && t.Key().Kind() == reflect.String:
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := convert(iter.Key().Interface(), t.Key())
			if err != nil {
				return reflect.Value{}, err
			}
			el, err := convert(iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
			}
			out.SetMapIndex(k, el)
		}
		return out, nil

	case rv.Kind() == reflect.Pointer && !rv.IsNil():
		return convert(rv.Elem().Interface(), t)
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", rv.Type(), t)
}

// convertNumber converts rv to t only when the value survives the round
// trip, so 2.5 never becomes 2 and -1 never becomes 255. Between float
// kinds, rounding to the narrower precision is allowed but overflow is not.
func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, bool) {
	out := rv.Convert(t)
	if isFloat(rv.Kind()) && isFloat(t.Kind()) {
		if math.IsInf(out.Float(), 0) && !math.IsInf(rv.Float(), 0) {
			return reflect.Value{}, false
		}
		return out, true
	}
	if isFloat(rv.Kind()) && !isFloat(t.Kind()) {
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return reflect.Value{}, false
		}
	}
	if out.Convert(rv.Type()).Equal(rv) && sameSign(rv, out) {
		return out, true
	}
	return reflect.Value{}, false
}

func sameSign(a, b reflect.Value) bool {
	return negative(a) == negative(b)
}

func negative(v reflect.Value) bool {
	switch {
	case isFloat(v.Kind()):
		return v.Float() < 0
	case v.CanInt():
		return v.Int() < 0
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
