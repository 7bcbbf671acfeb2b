package builder

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/block/internal/config"
	"github.com/vk/block/internal/ctxlog"
	"github.com/vk/block/internal/graph"
	"github.com/vk/block/internal/registry"
)

// Build constructs a validated store from a diagram.
func Build(ctx context.Context, d *config.Diagram, r *registry.Registry) (*graph.Store, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "blocks", len(d.Blocks))
	store := graph.NewStore()

	// First pass: create all nodes.
	if err := createNodes(d, r, store); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", store.Len())

	// Second pass: bind literals and connections.
	if err := bindInputs(d, store); err != nil {
		return nil, err
	}
	logger.Debug("Build: Input binding complete.", "connections", len(store.Connections()))

	if err := store.Validate(); err != nil {
		return nil, fmt.Errorf("error validating diagram: %w", err)
	}

	logger.Info("Build: Graph construction successful.", "nodes", store.Len())
	return store, nil
}

func createNodes(d *config.Diagram, r *registry.Registry, store *graph.Store) error {
	var errs []error
	for _, b := range d.Blocks {
		t, err := r.Instantiate(b.Kind, b.Params)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: block '%s': %w", b.Location, b.Name, err))
			continue
		}
		if _, err := store.AddNode(b.Name, t); err != nil {
			errs = append(errs, fmt.Errorf("%s: block '%s': %w", b.Location, b.Name, err))
		}
	}
	return errors.Join(errs...)
}

func bindInputs(d *config.Diagram, store *graph.Store) error {
	var errs []error
	for _, b := range d.Blocks {
		n, err := store.NodeByName(b.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: block '%s': %w", b.Location, b.Name, err))
			continue
		}

		names := make([]string, 0, len(b.Inputs))
		for name := range b.Inputs {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if err := bind(store, n.ID, name, b.Inputs[name]); err != nil {
				errs = append(errs, fmt.Errorf("%s: %s.%s: %w", b.Location, b.Name, name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func bind(store *graph.Store, node graph.NodeID, name string, binding *config.Binding) error {
	in, err := store.Input(node, name)
	if err != nil {
		return err
	}
	if !binding.IsConnection() {
		return store.SetLiteral(in, *binding.Literal)
	}

	src, err := store.NodeByName(binding.Source.Node)
	if err != nil {
		return fmt.Errorf("source %s: %w", binding.Source, err)
	}
	out, err := store.Output(src.ID, binding.Source.Port)
	if err != nil {
		return fmt.Errorf("source %s: %w", binding.Source, err)
	}
	return store.Connect(out, in)
}
