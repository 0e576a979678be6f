// Package deodorant checks runtime Go values against declarative type
// descriptors and wraps functions so that their arguments and results are
// checked on every call.
//
// An Engine owns the alias and filter registry and threads it through the
// matcher and the signature checker:
//
//	engine, err := deodorant.New(deodorant.ModeDebug, deodorant.WithModules(filters.Builtin))
//	if err != nil {
//		return err
//	}
//	_ = engine.AddAlias("Position", []any{"Number", "Number"})
//
//	err = engine.Check([]any{50, 50}, "Position") // nil
//	add, err := engine.CheckFunction([]any{"Number", "Number", "Number"},
//		func(x, y float64) float64 { return x + y }, "add")
//	add.(func(float64, float64) float64)(2, 3) // 5
//
// Descriptors are written either as structured values built with the
// descriptor package or in native form: strings such as "Number?" or
// "Number|gte:0", slices for tuples and arrays, and string-keyed maps for
// objects. In ModeProduction wrapping is a no-op and checked functions are
// returned untouched.
package deodorant
