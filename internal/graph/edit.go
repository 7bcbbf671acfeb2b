package graph

import (
	"fmt"

	"github.com/vk/block/internal/portref"
	"github.com/vk/block/internal/template"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// AddNode instantiates t as a new node. Ports are created from the
// template's declarations and every input starts out unconnected, holding
// its declared default as literal. An empty name leaves the node anonymous.
func (s *Store) AddNode(name string, t template.Template) (NodeID, error) {
	if err := template.Validate(t); err != nil {
		return NodeID{}, err
	}
	if name != "" && !portref.ValidName(name) {
		return NodeID{}, fmt.Errorf("'%s': %w", name, ErrInvalidName)
	}
	ports := template.PortsOf(t)
	if err := uniquePorts("input", ports.Inputs); err != nil {
		return NodeID{}, err
	}
	if err := uniquePorts("output", ports.Outputs); err != nil {
		return NodeID{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if name != "" {
		if _, exists := s.names[name]; exists {
			return NodeID{}, fmt.Errorf("'%s': %w", name, ErrDuplicateName)
		}
	}

	id := NodeID{s.nodes.insert(func(h handle) Node {
		return Node{ID: NodeID{h}, Name: name, Template: t}
	})}
	n, _ := s.nodes.get(id.h)

	for _, spec := range ports.Inputs {
		literal := spec.Default
		if literal == cty.NilVal {
			literal = cty.NullVal(spec.Type)
		}
		in := InputID{s.inputs.insert(func(h handle) InputPort {
			return InputPort{ID: InputID{h}, Node: id, Name: spec.Name, Type: spec.Type, Literal: literal}
		})}
		n.Inputs = append(n.Inputs, in)
	}
	for _, spec := range ports.Outputs {
		out := OutputID{s.outputs.insert(func(h handle) outputRecord {
			return outputRecord{port: OutputPort{ID: OutputID{h}, Node: id, Name: spec.Name, Type: spec.Type}}
		})}
		n.Outputs = append(n.Outputs, out)
	}
	if name != "" {
		s.names[name] = id
	}
	return id, nil
}

func uniquePorts(direction string, specs []template.PortSpec) error {
	seen := make(map[string]struct{}, len(specs))
	for _, p := range specs {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%s '%s': %w", direction, p.Name, ErrDuplicatePort)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// RemoveNode deletes a node together with its ports. Its incoming
// connections disappear with its inputs; inputs of other nodes that it fed
// become unconnected, so their literals take effect again.
func (s *Store) RemoveNode(id NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes.get(id.h)
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	for _, in := range n.Inputs {
		s.detach(in)
		s.inputs.remove(in.h)
	}
	for _, out := range n.Outputs {
		r, _ := s.outputs.get(out.h)
		for consumer := range r.consumers {
			if p, ok := s.inputs.get(consumer.h); ok {
				p.Source = OutputID{}
			}
		}
		s.outputs.remove(out.h)
	}
	if n.Name != "" {
		delete(s.names, n.Name)
	}
	s.nodes.remove(id.h)
	return nil
}

// Connect feeds the value of output from into input to.
func (s *Store) Connect(from OutputID, to InputID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.outputs.get(from.h)
	if !ok {
		return fmt.Errorf("%s: %w", from, ErrNotFound)
	}
	dst, ok := s.inputs.get(to.h)
	if !ok {
		return fmt.Errorf("%s: %w", to, ErrNotFound)
	}
	if !dst.Source.IsZero() {
		return fmt.Errorf("%s: %w", s.describeInput(dst), ErrAlreadyConnected)
	}
	if !compatible(src.port.Type, dst.Type) {
		return fmt.Errorf("%s (%s) -> %s (%s): %w",
			s.describeOutput(&src.port), src.port.Type.FriendlyName(),
			s.describeInput(dst), dst.Type.FriendlyName(), ErrTypeMismatch)
	}
	if src.port.Node == dst.Node || s.dependsOn(src.port.Node, dst.Node) {
		return fmt.Errorf("%s -> %s: %w", s.describeOutput(&src.port), s.describeInput(dst), ErrCycle)
	}

	dst.Source = from
	if src.consumers == nil {
		src.consumers = make(map[InputID]struct{})
	}
	src.consumers[to] = struct{}{}
	return nil
}

// Disconnect removes the incoming connection of an input, if it has one.
func (s *Store) Disconnect(to InputID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inputs.get(to.h); !ok {
		return fmt.Errorf("%s: %w", to, ErrNotFound)
	}
	s.detach(to)
	return nil
}

// SetLiteral replaces an input's inline value. The value is converted to the
// port's type. Setting the literal of a connected input is allowed; it takes
// effect once the input is disconnected.
func (s *Store) SetLiteral(in InputID, v cty.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.inputs.get(in.h)
	if !ok {
		return fmt.Errorf("%s: %w", in, ErrNotFound)
	}
	if v == cty.NilVal {
		v = cty.NullVal(p.Type)
	}
	converted, err := convert.Convert(v, p.Type)
	if err != nil {
		return fmt.Errorf("%s: %w: %s", s.describeInput(p), ErrTypeMismatch, err)
	}
	p.Literal = converted
	return nil
}

// detach clears the connection of in. The caller holds the write lock.
func (s *Store) detach(in InputID) {
	p, ok := s.inputs.get(in.h)
	if !ok || p.Source.IsZero() {
		return
	}
	if r, ok := s.outputs.get(p.Source.h); ok {
		delete(r.consumers, in)
	}
	p.Source = OutputID{}
}

// dependsOn reports whether node from transitively reads from node target.
// The caller holds a lock.
func (s *Store) dependsOn(from, target NodeID) bool {
	visited := make(map[NodeID]bool)
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		n, ok := s.nodes.get(id.h)
		if !ok {
			continue
		}
		for _, in := range n.Inputs {
			p, _ := s.inputs.get(in.h)
			if p.Source.IsZero() {
				continue
			}
			if r, ok := s.outputs.get(p.Source.h); ok {
				stack = append(stack, r.port.Node)
			}
		}
	}
	return false
}

// compatible reports whether values of type from may flow into an input of
// type to. Unsafe conversions are accepted here and checked per value.
func compatible(from, to cty.Type) bool {
	if from.Equals(cty.DynamicPseudoType) || to.Equals(cty.DynamicPseudoType) || from.Equals(to) {
		return true
	}
	return convert.GetConversionUnsafe(from, to) != nil
}

func (s *Store) describeInput(p *InputPort) string {
	if n, ok := s.nodes.get(p.Node.h); ok {
		return n.Label() + "." + p.Name
	}
	return p.ID.String()
}

func (s *Store) describeOutput(p *OutputPort) string {
	if n, ok := s.nodes.get(p.Node.h); ok {
		return n.Label() + "." + p.Name
	}
	return p.ID.String()
}
