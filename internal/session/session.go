package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vk/block/internal/ctxlog"
	"github.com/vk/block/internal/eval"
	"github.com/vk/block/internal/graph"
	"github.com/vk/block/internal/portref"
	"github.com/zclconf/go-cty/cty"
)

// ErrNoActiveNode is returned by Inspect when no node is selected.
var ErrNoActiveNode = errors.New("no active node")

// Session serializes edits and evaluations of one graph.
type Session struct {
	mu        sync.RWMutex
	store     *graph.Store
	evaluator *eval.Evaluator
}

// New creates a session over store. A nil evaluator selects eval.New().
func New(store *graph.Store, evaluator *eval.Evaluator) *Session {
	if evaluator == nil {
		evaluator = eval.New()
	}
	return &Session{store: store, evaluator: evaluator}
}

// Edit runs fn with exclusive access to the store. No evaluation runs while
// fn is executing.
func (s *Session) Edit(ctx context.Context, fn func(*graph.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.store); err != nil {
		ctxlog.FromContext(ctx).Debug("Edit rejected.", "error", err)
		return err
	}
	return nil
}

// View runs fn with shared, read-only access to the store.
func (s *Session) View(fn func(graph.Reader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.store)
}

// Node returns the node registered under name.
func (s *Session) Node(name string) (graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.NodeByName(name)
}

// Output resolves a node.port reference to an output handle.
func (s *Session) Output(ref portref.Ref) (graph.OutputID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.store.NodeByName(ref.Node)
	if err != nil {
		return graph.OutputID{}, err
	}
	return s.store.Output(n.ID, ref.Port)
}

// Label renders an output handle as node.port.
func (s *Session) Label(out graph.OutputID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.describe(out)
}

// NodeLabel returns the display name of a node.
func (s *Session) NodeLabel(id graph.NodeID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.store.Node(id)
	if err != nil {
		return id.String()
	}
	return n.Label()
}

// Evaluate computes out in a fresh pass.
func (s *Session) Evaluate(ctx context.Context, out graph.OutputID) (*eval.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator.Run(ctx, s.store, out)
}

// EvaluateNode computes every output of node in a fresh pass.
func (s *Session) EvaluateNode(ctx context.Context, node graph.NodeID) (map[string]cty.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator.EvaluateNode(ctx, s.store, node)
}

// PortView is the displayed state of one port.
type PortView struct {
	Name string
	Type cty.Type
	// Value is the port's current value: the literal or upstream value of an
	// input, the computed value of an output.
	Value cty.Value
	// Source is the node.port feeding an input, empty when unconnected.
	Source string
	// Consumers lists the node.port inputs an output feeds.
	Consumers []string
}

// Inspection is what a display shows for the active node.
type Inspection struct {
	Node    graph.Node
	Kind    string
	Inputs  []PortView
	Outputs []PortView
	// Computed counts the nodes the inspection pass had to compute.
	Computed int
}

// Inspect evaluates the active node and reports its inputs and outputs.
func (s *Session) Inspect(ctx context.Context, active graph.NodeID) (*Inspection, error) {
	if active.IsZero() {
		return nil, ErrNoActiveNode
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.store.Node(active)
	if err != nil {
		return nil, err
	}
	insp := &Inspection{Node: n, Kind: n.Template.Kind().String()}

	values := map[graph.OutputID]cty.Value{}
	if len(n.Outputs) > 0 {
		res, err := s.evaluator.Run(ctx, s.store, n.Outputs[0])
		if err != nil {
			return nil, err
		}
		values = res.Outputs
		insp.Computed = len(res.Computed)
	}

	for _, id := range n.Inputs {
		p, err := s.store.InputPort(id)
		if err != nil {
			return nil, err
		}
		view := PortView{Name: p.Name, Type: p.Type, Value: p.Literal}
		if p.Connected() {
			view.Value = values[p.Source]
			if view.Source, err = s.describe(p.Source); err != nil {
				return nil, err
			}
		}
		insp.Inputs = append(insp.Inputs, view)
	}
	for _, id := range n.Outputs {
		p, err := s.store.OutputPort(id)
		if err != nil {
			return nil, err
		}
		view := PortView{Name: p.Name, Type: p.Type, Value: values[id]}
		consumers, err := s.store.Consumers(id)
		if err != nil {
			return nil, err
		}
		for _, in := range consumers {
			label, err := s.describeInput(in)
			if err != nil {
				return nil, err
			}
			view.Consumers = append(view.Consumers, label)
		}
		insp.Outputs = append(insp.Outputs, view)
	}
	return insp, nil
}

// describe is Label for callers already holding the lock.
func (s *Session) describe(out graph.OutputID) (string, error) {
	p, err := s.store.OutputPort(out)
	if err != nil {
		return "", err
	}
	n, err := s.store.Node(p.Node)
	if err != nil {
		return "", fmt.Errorf("owner of %s: %w", out, err)
	}
	return n.Label() + "." + p.Name, nil
}

func (s *Session) describeInput(in graph.InputID) (string, error) {
	p, err := s.store.InputPort(in)
	if err != nil {
		return "", err
	}
	n, err := s.store.Node(p.Node)
	if err != nil {
		return "", fmt.Errorf("owner of %s: %w", in, err)
	}
	return n.Label() + "." + p.Name, nil
}
