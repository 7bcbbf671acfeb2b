package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/block/internal/builder"
	"github.com/vk/block/internal/ctxlog"
	"github.com/vk/block/internal/graph"
	"github.com/vk/block/internal/session"
)

// ErrNoDiagram is returned by commands that need a diagram when none is
// configured.
var ErrNoDiagram = errors.New("no diagram path configured")

// loadStore reads the configured diagram and builds its graph.
func (a *App) loadStore(ctx context.Context) (*graph.Store, error) {
	logger := ctxlog.FromContext(ctx)
	if a.config.DiagramPath == "" {
		return nil, ErrNoDiagram
	}

	logger.Debug("Loading diagram...", "path", a.config.DiagramPath)
	diagram, err := a.loader.Load(ctx, a.config.DiagramPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load diagram: %w", err)
	}

	store, err := builder.Build(ctx, diagram, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build diagram: %w", err)
	}
	return store, nil
}

// Load reads the configured diagram and opens a session over it.
func (a *App) Load(ctx context.Context) (*session.Session, error) {
	ctx = a.withLogger(ctx)
	store, err := a.loadStore(ctx)
	if err != nil {
		return nil, err
	}
	return session.New(store, a.evaluator), nil
}
