package app

import (
	"context"
	"fmt"

	"github.com/vk/block/internal/graph"
)

// Lint loads and builds the diagram without evaluating it, reporting what it
// contains. Build already rejects cycles, type mismatches and unknown ports.
func (a *App) Lint(ctx context.Context) error {
	ctx = a.withLogger(ctx)

	sess, err := a.Load(ctx)
	if err != nil {
		return err
	}

	var nodes, connections int
	if err := sess.View(func(r graph.Reader) error {
		store, ok := r.(*graph.Store)
		if !ok {
			return fmt.Errorf("unexpected graph reader %T", r)
		}
		nodes = store.Len()
		connections = len(store.Connections())
		return nil
	}); err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "OK: %d block(s), %d connection(s)\n", nodes, connections)
	return nil
}
