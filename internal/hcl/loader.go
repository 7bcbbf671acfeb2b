package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/block/internal/config"
	"github.com/vk/block/internal/ctxlog"
	"github.com/vk/block/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL diagram loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every diagram file found at paths and merges their blocks in
// file order. A path may be a file or a directory; directories contribute
// their .hcl files in lexical order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Diagram, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.ExpandPaths(paths, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find diagram files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "files", files)

	parser := hclparse.NewParser()
	diagram := &config.Diagram{}

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

		for _, b := range root.Blocks {
			block, err := translateBlock(b)
			if err != nil {
				return nil, err
			}
			diagram.Blocks = append(diagram.Blocks, block)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(files), "blocks", len(diagram.Blocks))
	return diagram, nil
}
