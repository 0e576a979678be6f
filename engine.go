package deodorant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/deodorant/adapter"
	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/match"
	"github.com/specialistvlad/deodorant/registry"
	"github.com/specialistvlad/deodorant/signature"
)

// Mode selects whether wrapped functions are checked.
type Mode int

const (
	// ModeDebug checks every wrapped call.
	ModeDebug Mode = iota
	// ModeProduction returns wrapped functions unchanged.
	ModeProduction
)

func (m Mode) String() string {
	if m == ModeProduction {
		return "production"
	}
	return "debug"
}

// ParseMode accepts "debug" and "production".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "debug":
		return ModeDebug, nil
	case "production":
		return ModeProduction, nil
	}
	return ModeDebug, fmt.Errorf("invalid mode %q, expected debug or production", s)
}

type options struct {
	logger  *slog.Logger
	modules []registry.Module
}

// Option configures an Engine.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithModules registers alias and filter bundles when the engine is built.
func WithModules(modules ...registry.Module) Option {
	return func(o *options) { o.modules = append(o.modules, modules...) }
}

// Engine is an isolated checking context: one registry, one matcher and one
// signature checker.
type Engine struct {
	mode     Mode
	logger   *slog.Logger
	registry *registry.Registry
	matcher  *match.Matcher
	checker  *signature.Checker
}

// New creates an Engine in the given mode.
func New(mode Mode, opts ...Option) (*Engine, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	reg := registry.New(registry.WithLogger(o.logger))
	if err := reg.Use(o.modules...); err != nil {
		return nil, err
	}
	m := match.New(reg)
	e := &Engine{
		mode:     mode,
		logger:   o.logger,
		registry: reg,
		matcher:  m,
		checker: signature.NewChecker(m,
			signature.WithEnabled(mode == ModeDebug),
			signature.WithLogger(o.logger),
		),
	}
	o.logger.Debug("Engine created.", "mode", mode.String(), "modules", len(o.modules))
	return e, nil
}

func (e *Engine) Mode() Mode { return e.mode }

func (e *Engine) Registry() *registry.Registry { return e.registry }

func (e *Engine) Matcher() *match.Matcher { return e.matcher }

func (e *Engine) Checker() *signature.Checker { return e.checker }

// AddAlias registers desc, in any form accepted by descriptor.Parse, under
// name.
func (e *Engine) AddAlias(name string, desc any) error {
	d, err := descriptor.Parse(desc)
	if err != nil {
		return fmt.Errorf("alias %q: %w", name, err)
	}
	return e.registry.RegisterAlias(name, d)
}

func (e *Engine) AddFilter(name string, fn registry.FilterFunc) error {
	return e.registry.RegisterFilter(name, fn)
}

// Seal makes the registry read-only.
func (e *Engine) Seal() { e.registry.Seal() }

// Validate reports dangling alias and filter references and alias cycles.
func (e *Engine) Validate() error { return e.registry.Validate() }

// Check returns nil when v matches desc. It checks regardless of the mode.
func (e *Engine) Check(v any, desc any) error {
	d, err := descriptor.Parse(desc)
	if err != nil {
		return err
	}
	return e.matcher.Check(v, d)
}

// Matches reports whether Check returns nil.
func (e *Engine) Matches(v any, desc any) bool {
	return e.Check(v, desc) == nil
}

// Wrap binds fn to sig.
func (e *Engine) Wrap(sig signature.Signature, fn any, name string) (*signature.Func, error) {
	return e.checker.Wrap(sig, fn, name)
}

// CheckFunction wraps fn with the signature given in native form and
// returns a function of the same Go type. In ModeProduction fn itself is
// returned.
func (e *Engine) CheckFunction(sig []any, fn any, name string) (any, error) {
	s, err := signature.Parse(sig...)
	if err != nil {
		return nil, err
	}
	f, err := e.checker.Wrap(s, fn, name)
	if err != nil {
		return nil, err
	}
	return f.Interface(), nil
}

// CheckModule wraps every function of module that has a companion
// signature. See adapter.CheckModule.
func (e *Engine) CheckModule(ctx context.Context, module map[string]any) (map[string]any, error) {
	return adapter.CheckModule(e.context(ctx), e.checker, module)
}

// CheckObject checks the named methods of obj on every call.
func (e *Engine) CheckObject(ctx context.Context, obj any, methods map[string]signature.Signature) (*adapter.Object, error) {
	return adapter.CheckObject(e.context(ctx), e.checker, obj, methods)
}

// CheckClass wraps a constructor. See adapter.CheckClass.
func (e *Engine) CheckClass(factory any, ctor *signature.Signature, methods map[string]signature.Signature) (*adapter.Class, error) {
	return adapter.CheckClass(e.checker, factory, ctor, methods)
}

// CheckSignatureForValues checks values as the arguments and, last, the
// return value of a call to a function with signature sig. It checks
// regardless of the mode.
func (e *Engine) CheckSignatureForValues(sig []any, values ...any) error {
	s, err := signature.Parse(sig...)
	if err != nil {
		return err
	}
	return signature.CheckValues(signature.NewChecker(e.matcher, signature.WithLogger(e.logger)), s, values...)
}

// context attaches the engine logger unless ctx already carries one.
func (e *Engine) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctxlog.Has(ctx) {
		return ctx
	}
	return ctxlog.WithLogger(ctx, e.logger)
}
