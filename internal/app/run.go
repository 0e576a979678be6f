package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/deodorant"
	"github.com/specialistvlad/deodorant/internal/config"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/internal/hcl_adapter"
	"github.com/specialistvlad/deodorant/internal/repl"
	"github.com/specialistvlad/deodorant/value"
)

var (
	// ErrChecksFailed is returned by verify when at least one check did not
	// have its expected outcome.
	ErrChecksFailed = errors.New("checks failed")
	// ErrMismatch is returned by check when the value does not match.
	ErrMismatch = errors.New("value does not match")
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	var err error
	switch a.config.Command {
	case CommandVerify:
		err = a.verify(ctx)
	case CommandCheck:
		err = a.checkValue(ctx)
	case CommandRepl:
		err = repl.New(a.engine, a.outW, hcl_adapter.ParseDescriptorText).Run(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

// verify runs every manifest check in order and prints one line per check
// followed by a summary.
func (a *App) verify(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	checks := a.model.Checks
	if len(checks) == 0 {
		logger.Warn("No checks found in manifests.")
	}

	failed := 0
	for _, c := range checks {
		if err := a.runCheck(c); err != nil {
			failed++
			fmt.Fprintf(a.outW, "FAIL %s: %v\n", c.Name, err)
			logger.Debug("Check failed.", "check", c.Name, "source", c.Source, "error", err)
			continue
		}
		fmt.Fprintf(a.outW, "PASS %s\n", c.Name)
	}
	fmt.Fprintf(a.outW, "%d checks, %d failed\n", len(checks), failed)

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrChecksFailed, failed, len(checks))
	}
	return nil
}

// runCheck returns nil when the check had its expected outcome. Registry
// failures fail the check whatever it expects.
func (a *App) runCheck(c *config.CheckDefinition) error {
	var err error
	if c.IsSignatureCheck() {
		sig, _ := a.model.Signature(c.Signature)
		err = a.engine.CheckSignatureForValues(sig.Types, c.Values...)
	} else {
		err = a.engine.Check(c.Value, c.Type)
	}

	switch {
	case isConfigError(err):
		return err
	case c.Expect && err != nil:
		return err
	case !c.Expect && err == nil:
		return errors.New("expected a mismatch, but the value matched")
	}
	return nil
}

// checkValue checks one JSON value against one descriptor.
func (a *App) checkValue(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	desc, err := hcl_adapter.ParseDescriptorText(a.config.TypeText)
	if err != nil {
		return fmt.Errorf("invalid -type: %w", err)
	}

	data := []byte(a.config.ValueText)
	if a.config.ValueFile != "" {
		data, err = os.ReadFile(a.config.ValueFile)
		if err != nil {
			return fmt.Errorf("failed to read value file: %w", err)
		}
	}
	v, err := value.ParseJSON(data)
	if err != nil {
		return err
	}
	logger.Debug("Checking value.", "type", a.config.TypeText, "value", value.Repr(v))

	if err := a.engine.Check(v, desc); err != nil {
		if errors.Is(err, deodorant.ErrInvalidDescriptor) {
			return fmt.Errorf("invalid -type: %w", err)
		}
		if isConfigError(err) {
			return err
		}
		fmt.Fprintf(a.outW, "MISMATCH %v\n", err)
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	fmt.Fprintln(a.outW, "OK")
	return nil
}

// isConfigError reports failures caused by the manifests or the descriptor
// rather than by the value under test.
func isConfigError(err error) bool {
	return errors.Is(err, deodorant.ErrUnresolvedAlias) ||
		errors.Is(err, deodorant.ErrUnknownFilter) ||
		errors.Is(err, deodorant.ErrInvalidSignature) ||
		errors.Is(err, deodorant.ErrInvalidDescriptor)
}
