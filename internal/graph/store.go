package graph

import (
	"fmt"
	"slices"
	"sync"
)

type outputRecord struct {
	port      OutputPort
	consumers map[InputID]struct{}
}

// Store owns the nodes, ports and connections of one diagram.
type Store struct {
	mu      sync.RWMutex
	nodes   arena[Node]
	inputs  arena[InputPort]
	outputs arena[outputRecord]
	names   map[string]NodeID
}

var _ Reader = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{names: make(map[string]NodeID)}
}

// Node returns a copy of the node with the given handle.
func (s *Store) Node(id NodeID) (Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes.get(id.h)
	if !ok {
		return Node{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return cloneNode(n), nil
}

// NodeByName returns the node registered under name.
func (s *Store) NodeByName(name string) (Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.names[name]
	if !ok {
		return Node{}, fmt.Errorf("node '%s': %w", name, ErrNotFound)
	}
	n, _ := s.nodes.get(id.h)
	return cloneNode(n), nil
}

// Nodes returns copies of all nodes in slot order.
func (s *Store) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Node, 0, s.nodes.len())
	s.nodes.each(func(_ handle, n *Node) {
		out = append(out, cloneNode(n))
	})
	return out
}

// Len returns the number of nodes in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes.len()
}

// Input looks up an input port of node by name.
func (s *Store) Input(node NodeID, name string) (InputID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes.get(node.h)
	if !ok {
		return InputID{}, fmt.Errorf("%s: %w", node, ErrNotFound)
	}
	for _, id := range n.Inputs {
		if p, _ := s.inputs.get(id.h); p.Name == name {
			return id, nil
		}
	}
	return InputID{}, fmt.Errorf("%s has no input '%s': %w", n.Label(), name, ErrUnknownPort)
}

// Output looks up an output port of node by name.
func (s *Store) Output(node NodeID, name string) (OutputID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes.get(node.h)
	if !ok {
		return OutputID{}, fmt.Errorf("%s: %w", node, ErrNotFound)
	}
	for _, id := range n.Outputs {
		if r, _ := s.outputs.get(id.h); r.port.Name == name {
			return id, nil
		}
	}
	return OutputID{}, fmt.Errorf("%s has no output '%s': %w", n.Label(), name, ErrUnknownPort)
}

// InputPort returns a copy of the input port.
func (s *Store) InputPort(id InputID) (InputPort, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.inputs.get(id.h)
	if !ok {
		return InputPort{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return *p, nil
}

// OutputPort returns a copy of the output port.
func (s *Store) OutputPort(id OutputID) (OutputPort, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.outputs.get(id.h)
	if !ok {
		return OutputPort{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return r.port, nil
}

// ConnectionOf returns the output feeding in. The second result is false when
// in is unconnected or unknown.
func (s *Store) ConnectionOf(in InputID) (OutputID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.inputs.get(in.h)
	if !ok || p.Source.IsZero() {
		return OutputID{}, false
	}
	return p.Source, true
}

// Consumers returns the inputs fed by out, in slot order.
func (s *Store) Consumers(out OutputID) ([]InputID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.outputs.get(out.h)
	if !ok {
		return nil, fmt.Errorf("%s: %w", out, ErrNotFound)
	}
	ids := make([]InputID, 0, len(r.consumers))
	for id := range r.consumers {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b InputID) int { return int(a.h.index) - int(b.h.index) })
	return ids, nil
}

// Connections returns every connection, ordered by the input's slot.
func (s *Store) Connections() []Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Connection
	s.inputs.each(func(h handle, p *InputPort) {
		if !p.Source.IsZero() {
			out = append(out, Connection{From: p.Source, To: InputID{h}})
		}
	})
	return out
}

func cloneNode(n *Node) Node {
	c := *n
	c.Inputs = slices.Clone(n.Inputs)
	c.Outputs = slices.Clone(n.Outputs)
	return c
}
