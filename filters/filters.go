// Package filters ships the standard filter predicates. Register them with
// Registry.Use(filters.Builtin).
package filters

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/specialistvlad/deodorant/registry"
	"github.com/specialistvlad/deodorant/value"
)

// Builtin registers every filter in Funcs.
var Builtin registry.Module = builtin{}

type builtin struct{}

func (builtin) Register(r *registry.Registry) error {
	for _, name := range Names() {
		if err := r.RegisterFilter(name, Funcs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Funcs maps each builtin filter name to its predicate.
var Funcs = map[string]registry.FilterFunc{
	"gte":      compareNumber(func(v, arg float64) bool { return v >= arg }),
	"lte":      compareNumber(func(v, arg float64) bool { return v <= arg }),
	"gt":       compareNumber(func(v, arg float64) bool { return v > arg }),
	"lt":       compareNumber(func(v, arg float64) bool { return v < arg }),
	"eq":       equals,
	"ne":       func(v any, arg string) bool { return !equals(v, arg) },
	"int":      isInteger,
	"minlen":   compareLen(func(n, arg int) bool { return n >= arg }),
	"maxlen":   compareLen(func(n, arg int) bool { return n <= arg }),
	"len":      compareLen(func(n, arg int) bool { return n == arg }),
	"nonempty": nonEmpty,
	"match":    matchPattern,
	"oneof":    oneOf,
}

// Names returns the builtin filter names, sorted.
func Names() []string {
	names := make([]string, 0, len(Funcs))
	for name := range Funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func compareNumber(cmp func(v, arg float64) bool) registry.FilterFunc {
	return func(v any, arg string) bool {
		n, ok := value.Float(v)
		if !ok || math.IsNaN(n) {
			return false
		}
		bound, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return false
		}
		return cmp(n, bound)
	}
}

func compareLen(cmp func(n, arg int) bool) registry.FilterFunc {
	return func(v any, arg string) bool {
		n, ok := value.Len(v)
		if !ok {
			return false
		}
		bound, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return false
		}
		return cmp(n, bound)
	}
}

// equals compares numbers numerically and everything else by text.
func equals(v any, arg string) bool {
	if n, ok := value.Float(v); ok {
		want, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		return err == nil && n == want
	}
	s, ok := text(v)
	return ok && s == arg
}

func isInteger(v any, _ string) bool {
	n, ok := value.Float(v)
	return ok && !math.IsInf(n, 0) && n == math.Trunc(n)
}

func nonEmpty(v any, _ string) bool {
	n, ok := value.Len(v)
	return ok && n > 0
}

func oneOf(v any, arg string) bool {
	s, ok := text(v)
	if !ok {
		return false
	}
	for _, option := range strings.Split(arg, ",") {
		if strings.TrimSpace(option) == s {
			return true
		}
	}
	return false
}

var patterns sync.Map // source -> *regexp2.Regexp

func matchPattern(v any, arg string) bool {
	v = value.Normalize(v)
	if value.KindOf(v) != value.KindString {
		return false
	}
	s := reflect.ValueOf(v).String()
	re, err := compiled(arg)
	if err != nil {
		return false
	}
	matched, err := re.MatchString(s)
	return err == nil && matched
}

func compiled(source string) (*regexp2.Regexp, error) {
	if re, ok := patterns.Load(source); ok {
		return re.(*regexp2.Regexp), nil
	}
	re, err := regexp2.Compile(source, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = descriptor.MatchTimeout
	patterns.Store(source, re)
	return re, nil
}

// text renders strings, numbers and booleans the way they are written in a
// filter argument.
func text(v any) (string, bool) {
	v = value.Normalize(v)
	switch value.KindOf(v) {
	case value.KindString:
		return reflect.ValueOf(v).String(), true
	case value.KindNumber:
		n, _ := value.Float(v)
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case value.KindBoolean:
		return strconv.FormatBool(reflect.ValueOf(v).Bool()), true
	}
	return "", false
}
