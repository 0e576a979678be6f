package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/deodorant/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `
deodorant - runtime type descriptors and signature checking.

Usage:
  deodorant [options] COMMAND [command options] [PATH...]

Commands:
  verify PATH...   load manifests and run every check block
  check            check one JSON value against one descriptor
                   (-type DESC and -value JSON or -value-file FILE)
  repl [PATH...]   start an interactive shell

  PATH is a manifest file (.hcl, .yaml, .yml) or a directory of them.

Options:
`

// options holds the flags shared by every command.
type options struct {
	logFormat      string
	logLevel       string
	mode           string
	builtinFilters bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.logFormat, "log-format", o.logFormat, "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&o.logLevel, "log-level", o.logLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.StringVar(&o.mode, "mode", o.mode, "Checking mode. Options: 'debug' or 'production'.")
	fs.BoolVar(&o.builtinFilters, "builtin-filters", o.builtinFilters, "Register the builtin filters (gte, lte, match, ...).")
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	opts := &options{logFormat: "text", logLevel: "info", mode: "debug", builtinFilters: true}

	flagSet := flag.NewFlagSet("deodorant", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}
	opts.register(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	command := flagSet.Arg(0)
	slog.Debug("Command determined.", "command", command)

	cfg := app.Config{Command: command}
	cmdSet := flag.NewFlagSet("deodorant "+command, flag.ContinueOnError)
	cmdSet.SetOutput(output)
	opts.register(cmdSet)

	switch command {
	case app.CommandVerify, app.CommandRepl:
	case app.CommandCheck:
		cmdSet.StringVar(&cfg.TypeText, "type", "", "Descriptor to check against, e.g. 'Position' or '[Number, String]'.")
		cmdSet.StringVar(&cfg.ValueText, "value", "", "JSON value to check.")
		cmdSet.StringVar(&cfg.ValueFile, "value-file", "", "File holding the JSON value to check.")
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command)}
	}

	if err := cmdSet.Parse(flagSet.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	cfg.Paths = cmdSet.Args()
	slog.Debug("Arguments parsed successfully.", "paths", len(cfg.Paths))

	logFormat := strings.ToLower(opts.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(opts.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg.LogFormat = logFormat
	cfg.LogLevel = logLevel
	cfg.Mode = strings.ToLower(opts.mode)
	cfg.BuiltinFilters = opts.builtinFilters

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}
