// Package repl implements the interactive checking shell started by the
// `repl` command.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/specialistvlad/deodorant"
	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/value"
)

const (
	prompt      = "deodorant> "
	historyFile = ".deodorant_history"
)

const helpText = `Commands:
  check DESCRIPTOR JSON   check a JSON value against a descriptor
  alias NAME DESCRIPTOR   register an alias
  show NAME               print the descriptor of an alias
  aliases                 list registered aliases
  filters                 list registered filters
  help                    show this help
  quit                    leave the shell

Descriptors are written as in manifests: Number, [Number, String],
{x = Number}. Quote annotated ones: "Number?", "Number|gte:0".
`

// ParseFunc turns descriptor text into native descriptor form.
type ParseFunc func(text string) (any, error)

// Session evaluates shell commands against one engine.
type Session struct {
	engine *deodorant.Engine
	out    io.Writer
	parse  ParseFunc
}

// New creates a Session writing its results to out.
func New(engine *deodorant.Engine, out io.Writer, parse ParseFunc) *Session {
	return &Session{engine: engine, out: out, parse: parse}
}

// Run reads commands from the terminal until quit, Ctrl+C, Ctrl+D or the
// end of ctx.
func (s *Session) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(s.out, `deodorant shell. Type "help" for commands.`)
	logger.Debug("REPL started.", "history", histPath)

	for ctx.Err() == nil {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if s.Eval(line) {
			return nil
		}
	}
	return ctx.Err()
}

// Eval runs one command line and reports whether the session should end.
func (s *Session) Eval(line string) (quit bool) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(s.out, helpText)
	case "check":
		s.check(rest)
	case "alias":
		s.alias(rest)
	case "show":
		s.show(rest)
	case "aliases":
		for _, name := range s.engine.Registry().AliasNames() {
			d, _ := s.engine.Registry().Alias(name)
			fmt.Fprintf(s.out, "%s = %s\n", name, d)
		}
	case "filters":
		names := s.engine.Registry().FilterNames()
		if len(names) == 0 {
			fmt.Fprintln(s.out, "no filters registered")
			return false
		}
		fmt.Fprintln(s.out, strings.Join(names, ", "))
	default:
		fmt.Fprintf(s.out, "unknown command %q, type \"help\" for commands\n", cmd)
	}
	return false
}

func (s *Session) check(rest string) {
	desc, v, err := s.splitDescriptorValue(rest)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if err := s.engine.Check(v, desc); err != nil {
		fmt.Fprintf(s.out, "MISMATCH %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "OK")
}

func (s *Session) alias(rest string) {
	name, text, _ := strings.Cut(rest, " ")
	text = strings.TrimSpace(text)
	if name == "" || text == "" {
		fmt.Fprintln(s.out, "usage: alias NAME DESCRIPTOR")
		return
	}
	native, err := s.parse(text)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if err := s.engine.AddAlias(name, native); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	d, _ := s.engine.Registry().Alias(name)
	fmt.Fprintf(s.out, "%s = %s\n", name, d)
	if err := s.engine.Registry().CheckReferences(d); err != nil {
		fmt.Fprintf(s.out, "warning: %v\n", err)
	}
}

func (s *Session) show(name string) {
	d, ok := s.engine.Registry().Alias(name)
	if !ok {
		fmt.Fprintf(s.out, "error: unknown alias %q\n", name)
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, d)
}

// splitDescriptorValue finds the first whitespace position that splits
// rest into a valid descriptor followed by a valid JSON value.
func (s *Session) splitDescriptorValue(rest string) (any, any, error) {
	var lastErr error
	for i, r := range rest {
		if r != ' ' && r != '\t' {
			continue
		}
		descText, valueText := strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i:])
		if descText == "" || valueText == "" {
			continue
		}
		native, err := s.parse(descText)
		if err == nil {
			_, err = descriptor.Parse(native)
		}
		if err != nil {
			lastErr = err
			continue
		}
		v, err := value.ParseJSON([]byte(valueText))
		if err != nil {
			lastErr = err
			continue
		}
		return native, v, nil
	}
	if lastErr == nil {
		return nil, nil, errors.New("usage: check DESCRIPTOR JSON")
	}
	return nil, nil, fmt.Errorf("could not read a descriptor followed by a JSON value: %w", lastErr)
}
