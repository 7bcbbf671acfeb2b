package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Validate re-checks every structural invariant of the store and runs a
// whole-graph cycle detection. Edits already enforce these rules one at a
// time; Validate exists for graphs assembled in bulk and for tests.
func (s *Store) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	s.inputs.each(func(h handle, p *InputPort) {
		if p.Source.IsZero() {
			return
		}
		r, ok := s.outputs.get(p.Source.h)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: source %s: %w", s.describeInput(p), p.Source, ErrNotFound))
			return
		}
		if _, ok := r.consumers[InputID{h}]; !ok {
			errs = append(errs, fmt.Errorf("%s: connection missing from %s consumers", s.describeInput(p), s.describeOutput(&r.port)))
		}
	})
	if err := s.detectCycles(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// detectCycles walks the dependency relation depth first using temporary
// and permanent marks.
func (s *Store) detectCycles() error {
	visiting := make(map[NodeID]bool)
	visited := make(map[NodeID]bool)
	var path []string

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		n, ok := s.nodes.get(id.h)
		if !ok {
			return nil
		}
		visiting[id] = true
		path = append(path, n.Label())

		for _, in := range n.Inputs {
			p, _ := s.inputs.get(in.h)
			if p.Source.IsZero() {
				continue
			}
			r, ok := s.outputs.get(p.Source.h)
			if !ok {
				continue
			}
			dep := r.port.Node
			if visiting[dep] {
				d, _ := s.nodes.get(dep.h)
				return fmt.Errorf("%s -> %s: %w", strings.Join(path, " -> "), d.Label(), ErrCycle)
			}
			if !visited[dep] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		visiting[id] = false
		visited[id] = true
		return nil
	}

	var err error
	s.nodes.each(func(h handle, _ *Node) {
		id := NodeID{h}
		if err == nil && !visited[id] {
			err = visit(id)
		}
	})
	return err
}
