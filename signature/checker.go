package signature

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"strings"

	"github.com/specialistvlad/deodorant/match"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Checker wraps functions with signature checks. A disabled Checker wraps
// functions without checking anything.
type Checker struct {
	matcher *match.Matcher
	enabled bool
	logger  *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithEnabled turns checking on or off. Checking is on by default.
func WithEnabled(enabled bool) Option {
	return func(c *Checker) { c.enabled = enabled }
}

// WithLogger sets the logger used for wrap and failure events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewChecker(m *match.Matcher, opts ...Option) *Checker {
	c := &Checker{matcher: m, enabled: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) Enabled() bool { return c.enabled }

// Matcher returns the matcher used for argument and return checks.
func (c *Checker) Matcher() *match.Matcher { return c.matcher }

// Wrap binds fn to sig. fn must be a Go func taking exactly len(sig.Args)
// parameters, or a variadic func whose fixed parameters fit inside
// sig.Args. An empty name is replaced by the Go name of fn, or
// "anonymous" for closures.
func (c *Checker) Wrap(sig Signature, fn any, name string) (*Func, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a function", ErrInvalidSignature, fn)
	}
	if sig.Return.IsZero() {
		return nil, fmt.Errorf("%w: missing return type", ErrInvalidSignature)
	}

	ft := rv.Type()
	switch {
	case ft.IsVariadic() && ft.NumIn()-1 > len(sig.Args):
		return nil, fmt.Errorf("%w: function has %d fixed parameters but the signature declares %d arguments",
			ErrInvalidSignature, ft.NumIn()-1, len(sig.Args))
	case !ft.IsVariadic() && ft.NumIn() != len(sig.Args):
		return nil, fmt.Errorf("%w: function has %d parameters but the signature declares %d arguments",
			ErrInvalidSignature, ft.NumIn(), len(sig.Args))
	}

	if name == "" {
		name = funcName(rv)
	}
	c.logger.Debug("Wrapping function.", "function", name, "signature", sig.String(), "checked", c.enabled)
	return &Func{name: name, sig: sig, fn: rv, orig: fn, checker: c}, nil
}

// CheckValues checks values against sig as if they were the arguments and
// the result of a call: the last value is the return value.
func CheckValues(c *Checker, sig Signature, values ...any) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no return value supplied", ErrInvalidSignature)
	}
	ret := values[len(values)-1]
	f, err := c.Wrap(sig, func(...any) any { return ret }, "values")
	if err != nil {
		return err
	}
	_, err = f.Call(values[:len(values)-1]...)
	return err
}

// funcName returns the unqualified Go name of fn, or "anonymous" for
// function literals.
func funcName(fn reflect.Value) string {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return "anonymous"
	}
	full := rf.Name()
	if i := strings.IndexByte(full, '['); i >= 0 {
		full = full[:i]
	}
	segments := strings.Split(full[strings.LastIndexByte(full, '/')+1:], ".")
	for _, seg := range segments[1:] {
		if isClosureName(seg) {
			return "anonymous"
		}
	}
	name := strings.TrimSuffix(segments[len(segments)-1], "-fm")
	if name == "" {
		return "anonymous"
	}
	return name
}

func isClosureName(seg string) bool {
	rest, ok := strings.CutPrefix(seg, "func")
	if !ok {
		rest = seg
	}
	if rest == "" {
		return ok
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
