package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/kindgen/internal/ctxlog"
	"github.com/specialistvlad/kindgen/internal/fsutil"
	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/schema"
)

// Extension is the manifest file extension the loader discovers.
const Extension = ".hcl"

// Loader parses HCL manifests into the model.
type Loader struct{}

// NewLoader creates a new manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire manifest loading process. It is agnostic to
// the origin of the paths and accepts any mix of files and directories.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	m := model.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}

		var root schema.FileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		for _, contract := range root.Contracts {
			decl, err := translateContract(contract)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			if err := m.World.Add(decl); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}

		for _, fam := range root.Families {
			def, err := l.translateFamily(ctx, file, fam)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			if err := m.AddFamily(def); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Manifest loading complete.",
		"families", len(m.Families),
		"contracts", len(m.World.Names()),
	)
	return m, nil
}
