package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/deodorant/internal/config"
	"github.com/specialistvlad/deodorant/internal/ctxlog"
	"github.com/specialistvlad/deodorant/internal/fsutil"
)

// Extension is the file extension of HCL manifests.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and translates its blocks into
// the format-agnostic model, in file order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		fileCtx := ctxlog.WithLogger(ctx, logger.With("file", file))
		for _, a := range root.Aliases {
			def, err := translateAlias(fileCtx, a, file)
			if err != nil {
				return nil, err
			}
			model.Aliases = append(model.Aliases, def)
		}
		for _, s := range root.Signatures {
			def, err := translateSignature(fileCtx, s, file)
			if err != nil {
				return nil, err
			}
			model.Signatures = append(model.Signatures, def)
		}
		for _, c := range root.Checks {
			def, err := translateCheck(fileCtx, c, file)
			if err != nil {
				return nil, err
			}
			model.Checks = append(model.Checks, def)
		}
	}

	logger.Debug("HCL loading complete.", "aliases", len(model.Aliases), "signatures", len(model.Signatures), "checks", len(model.Checks))
	return model, nil
}
