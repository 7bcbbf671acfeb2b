package graph

import (
	"github.com/vk/block/internal/template"
	"github.com/zclconf/go-cty/cty"
)

// NodeID identifies a node in a Store.
type NodeID struct{ h handle }

// IsZero reports whether id is the zero handle, which never names a node.
func (id NodeID) IsZero() bool { return id.h.gen == 0 }

func (id NodeID) String() string { return "node/" + id.h.String() }

// InputID identifies an input port in a Store.
type InputID struct{ h handle }

// IsZero reports whether id is the zero handle.
func (id InputID) IsZero() bool { return id.h.gen == 0 }

func (id InputID) String() string { return "input/" + id.h.String() }

// OutputID identifies an output port in a Store.
type OutputID struct{ h handle }

// IsZero reports whether id is the zero handle. An InputPort's Source is
// zero while the input is unconnected.
func (id OutputID) IsZero() bool { return id.h.gen == 0 }

func (id OutputID) String() string { return "output/" + id.h.String() }

// Node is a block instantiated from a template.
type Node struct {
	ID NodeID
	// Name is the optional, store-unique human-readable name used by
	// diagrams and the command line.
	Name string
	// Template is the node's kind together with its kind-specific data.
	Template template.Template
	Inputs   []InputID
	Outputs  []OutputID
}

// Label returns the node's name, or its handle when it has none.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.String()
}

// InputPort is a named value consumer on a node.
type InputPort struct {
	ID   InputID
	Node NodeID
	Name string
	Type cty.Type
	// Literal is the inline value used while the input is unconnected.
	Literal cty.Value
	// Source is the output feeding this input, or the zero OutputID.
	Source OutputID
}

// Connected reports whether the input has an incoming connection.
func (p InputPort) Connected() bool { return !p.Source.IsZero() }

// OutputPort is a named value producer on a node.
type OutputPort struct {
	ID   OutputID
	Node NodeID
	Name string
	Type cty.Type
}

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	From OutputID
	To   InputID
}

// Reader is the read-only view of a graph the evaluator works against.
type Reader interface {
	// Node returns a copy of the node, or ErrNotFound.
	Node(id NodeID) (Node, error)
	// Input looks up a node's input port by name. It fails with ErrNotFound
	// for an unknown node and ErrUnknownPort for an unknown name.
	Input(node NodeID, name string) (InputID, error)
	// Output looks up a node's output port by name, failing like Input.
	Output(node NodeID, name string) (OutputID, error)
	// InputPort returns a copy of the input port, or ErrNotFound.
	InputPort(id InputID) (InputPort, error)
	// OutputPort returns a copy of the output port, or ErrNotFound.
	OutputPort(id OutputID) (OutputPort, error)
	// ConnectionOf returns the output connected to in, if any.
	ConnectionOf(in InputID) (OutputID, bool)
}
