package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/deodorant"
	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/specialistvlad/deodorant/filters"
	"github.com/specialistvlad/deodorant/internal/config"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/registry"
	"github.com/specialistvlad/deodorant/signature"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	engine *deodorant.Engine
	model  *config.Model
}

// NewApp is the constructor for the main application. It loads every
// manifest with the given loaders, registers the aliases on a fresh engine
// and validates the result. Loading and validation failures are fatal
// startup errors and panic.
func NewApp(outW io.Writer, appConfig *Config, loaders ...config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := &config.Model{}
	if len(appConfig.Paths) > 0 {
		for _, loader := range loaders {
			m, err := loader.Load(ctx, appConfig.Paths...)
			if err != nil {
				panic(fmt.Errorf("failed to load configuration: %w", err))
			}
			model.Merge(m)
		}
	}
	logger.Debug("Manifests loaded and translated into unified model.",
		"aliases", len(model.Aliases), "signatures", len(model.Signatures), "checks", len(model.Checks))

	mode, err := deodorant.ParseMode(appConfig.Mode)
	if err != nil {
		panic(err)
	}
	var modules []registry.Module
	if appConfig.BuiltinFilters {
		modules = append(modules, filters.Builtin)
	}
	engine, err := deodorant.New(mode, deodorant.WithLogger(logger), deodorant.WithModules(modules...))
	if err != nil {
		panic(fmt.Errorf("failed to create engine: %w", err))
	}

	a := &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		engine: engine,
		model:  model,
	}

	if err := a.populate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	if appConfig.Command != CommandRepl {
		engine.Seal()
	}
	return a
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *deodorant.Engine {
	return a.engine
}

// Model returns the loaded manifest model.
func (a *App) Model() *config.Model {
	return a.model
}

// populate registers every alias of the model, then validates the registry
// and every descriptor used by signatures and checks. All problems are
// returned together.
func (a *App) populate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var problems []error
	defined := make(map[string]string)
	for _, def := range a.model.Aliases {
		if prev, ok := defined[def.Name]; ok {
			logger.Warn("Alias redefined, the later definition wins.", "alias", def.Name, "source", def.Source, "previous_source", prev)
		}
		defined[def.Name] = def.Source
		if err := a.engine.AddAlias(def.Name, def.Type); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", def.Source, err))
		}
	}

	if err := a.engine.Validate(); err != nil {
		var verr *registry.ValidationError
		if errors.As(err, &verr) {
			problems = append(problems, verr.Problems...)
		} else {
			problems = append(problems, err)
		}
	}

	for _, def := range a.model.Signatures {
		sig, err := signature.Parse(def.Types...)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: signature %q: %w", def.Source, def.Name, err))
			continue
		}
		for _, d := range sig.Descriptors() {
			problems = append(problems, a.references(def.Source, "signature", def.Name, d)...)
		}
	}

	for _, def := range a.model.Checks {
		if def.IsSignatureCheck() {
			if _, ok := a.model.Signature(def.Signature); !ok {
				problems = append(problems, fmt.Errorf("%s: check %q: unknown signature %q", def.Source, def.Name, def.Signature))
			}
			continue
		}
		d, err := descriptor.Parse(def.Type)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: check %q: %w", def.Source, def.Name, err))
			continue
		}
		problems = append(problems, a.references(def.Source, "check", def.Name, d)...)
	}

	if len(problems) > 0 {
		return &registry.ValidationError{Problems: problems}
	}
	return nil
}

func (a *App) references(source, kind, name string, d descriptor.Descriptor) []error {
	err := a.engine.Registry().CheckReferences(d)
	if err == nil {
		return nil
	}
	var verr *registry.ValidationError
	if !errors.As(err, &verr) {
		return []error{err}
	}
	out := make([]error, len(verr.Problems))
	for i, p := range verr.Problems {
		out[i] = fmt.Errorf("%s: %s %q: %w", source, kind, name, p)
	}
	return out
}
