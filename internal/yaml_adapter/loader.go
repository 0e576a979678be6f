package yaml_adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/deodorant/internal/config"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/internal/fsutil"
	"github.com/specialistvlad/deodorant/value"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions of YAML manifests.
var Extensions = []string{".yaml", ".yml"}

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the shape of one YAML document. Mappings are kept as nodes so
// that definitions come out in file order.
type fileRoot struct {
	Aliases    yaml.Node    `yaml:"aliases"`
	Signatures yaml.Node    `yaml:"signatures"`
	Checks     []checkEntry `yaml:"checks"`
}

type checkEntry struct {
	Name      string    `yaml:"name"`
	Type      any       `yaml:"type"`
	Value     yaml.Node `yaml:"value"`
	Signature string    `yaml:"signature"`
	Values    []any     `yaml:"values"`
	Expect    *bool     `yaml:"expect"`
}

// Load parses every YAML manifest under paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		if err := l.loadFile(ctx, file, model); err != nil {
			return nil, err
		}
	}

	logger.Debug("YAML loading complete.", "aliases", len(model.Aliases), "signatures", len(model.Signatures), "checks", len(model.Checks))
	return model, nil
}

func (l *Loader) loadFile(ctx context.Context, file string, model *config.Model) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open YAML file %s: %w", file, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	for {
		var root fileRoot
		err := dec.Decode(&root)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}
		if err := translate(ctx, &root, file, model); err != nil {
			return err
		}
	}
}

func translate(ctx context.Context, root *fileRoot, file string, model *config.Model) error {
	logger := ctxlog.FromContext(ctx).With("file", file)

	err := eachEntry(&root.Aliases, "aliases", file, func(name string, node *yaml.Node) error {
		var desc any
		if err := node.Decode(&desc); err != nil {
			return err
		}
		logger.Debug("Translating YAML alias.", "alias", name)
		model.Aliases = append(model.Aliases, &config.AliasDefinition{Name: name, Type: desc, Source: file})
		return nil
	})
	if err != nil {
		return err
	}

	err = eachEntry(&root.Signatures, "signatures", file, func(name string, node *yaml.Node) error {
		if node.Kind != yaml.SequenceNode || len(node.Content) == 0 {
			return errors.New("a signature must be a non-empty list ending with the return descriptor")
		}
		var types []any
		if err := node.Decode(&types); err != nil {
			return err
		}
		logger.Debug("Translating YAML signature.", "signature", name)
		model.Signatures = append(model.Signatures, &config.SignatureDefinition{Name: name, Types: types, Source: file})
		return nil
	})
	if err != nil {
		return err
	}

	for i, c := range root.Checks {
		def, err := translateCheck(&c)
		if err != nil {
			return fmt.Errorf("%s: checks[%d]: %w", file, i, err)
		}
		def.Source = file
		model.Checks = append(model.Checks, def)
	}
	return nil
}

// eachEntry calls fn for every key of a mapping node, in document order.
func eachEntry(node *yaml.Node, section, file string, fn func(name string, value *yaml.Node) error) error {
	switch node.Kind {
	case 0:
		return nil
	case yaml.MappingNode:
	default:
		if node.Tag == "!!null" {
			return nil
		}
		return fmt.Errorf("%s:%d: %s must be a mapping", file, node.Line, section)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if err := fn(key.Value, val); err != nil {
			return fmt.Errorf("%s:%d: %s.%s: %w", file, key.Line, section, key.Value, err)
		}
	}
	return nil
}

func translateCheck(c *checkEntry) (*config.CheckDefinition, error) {
	if c.Name == "" {
		return nil, errors.New("name is required")
	}
	def := &config.CheckDefinition{
		Name:      c.Name,
		Value:     value.Undefined,
		Signature: c.Signature,
		Values:    c.Values,
		Expect:    true,
	}
	if c.Expect != nil {
		def.Expect = *c.Expect
	}

	hasValue := c.Value.Kind != 0
	if c.Signature != "" {
		if c.Type != nil || hasValue {
			return nil, fmt.Errorf("check %q: 'signature' cannot be combined with 'type' or 'value'", c.Name)
		}
		return def, nil
	}
	if c.Type == nil {
		return nil, fmt.Errorf("check %q: either 'type' or 'signature' is required", c.Name)
	}
	if c.Values != nil {
		return nil, fmt.Errorf("check %q: 'values' requires 'signature'", c.Name)
	}
	def.Type = c.Type
	if hasValue {
		var v any
		if err := c.Value.Decode(&v); err != nil {
			return nil, fmt.Errorf("check %q: value: %w", c.Name, err)
		}
		def.Value = v
	}
	return def, nil
}
