package config

import (
	"github.com/vk/block/internal/portref"
	"github.com/zclconf/go-cty/cty"
)

// Diagram is the format-agnostic representation of a diagram definition.
type Diagram struct {
	Blocks []*Block
}

// Block is one placed block: a kind instantiated under a unique name.
type Block struct {
	Kind string
	Name string
	// Params are the template parameters given for the block.
	Params map[string]cty.Value
	// Inputs binds input port names to a literal or an upstream output.
	Inputs map[string]*Binding
	// Location points at the definition, for messages.
	Location string
}

// Binding sets an input port either to a literal value or to a connection
// from another block's output. Exactly one field is set.
type Binding struct {
	Literal *cty.Value
	Source  *portref.Ref
}

// IsConnection reports whether the binding is a connection.
func (b *Binding) IsConnection() bool {
	return b.Source != nil
}
