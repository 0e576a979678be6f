package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/deodorant"
)

// Commands understood by App.Run.
const (
	CommandVerify = "verify"
	CommandCheck  = "check"
	CommandRepl   = "repl"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command string
	Paths   []string // manifest files or directories

	// Used by the check command.
	TypeText  string
	ValueText string
	ValueFile string

	Mode           string
	BuiltinFilters bool
	LogFormat      string
	LogLevel       string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandVerify:
		if len(cfg.Paths) == 0 {
			return nil, errors.New("verify requires at least one manifest path")
		}
	case CommandCheck:
		if cfg.TypeText == "" {
			return nil, errors.New("check requires -type")
		}
		if (cfg.ValueText == "") == (cfg.ValueFile == "") {
			return nil, errors.New("check requires exactly one of -value or -value-file")
		}
	case CommandRepl:
	case "":
		return nil, errors.New("a command is required")
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	if cfg.Mode == "" {
		cfg.Mode = deodorant.ModeDebug.String()
	}
	if _, err := deodorant.ParseMode(cfg.Mode); err != nil {
		return nil, err
	}

	return &cfg, nil
}
