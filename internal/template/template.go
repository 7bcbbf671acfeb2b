package template

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ErrInvalidInput is returned by Compute when an input value is missing, has
// the wrong type, or lies outside the domain of the block's formula.
var ErrInvalidInput = errors.New("invalid block input")

// ErrInvalidTemplate is returned by Validate for a variant whose parameters
// cannot describe a block.
var ErrInvalidTemplate = errors.New("invalid block template")

// Kind identifies a template variant.
type Kind int

const (
	// KindConstant is a source block emitting a fixed value.
	KindConstant Kind = iota + 1
	// KindIdentity passes its single input through unchanged.
	KindIdentity
	// KindWeibull is a component whose failures follow a Weibull distribution.
	KindWeibull
	// KindSeries works only if all of its inputs work.
	KindSeries
	// KindParallel works if any of its inputs works.
	KindParallel
	// KindKOutOfN works if at least K of its N inputs work.
	KindKOutOfN
)

var kindNames = map[Kind]string{
	KindConstant: "constant",
	KindIdentity: "identity",
	KindWeibull:  "weibull",
	KindSeries:   "series",
	KindParallel: "parallel",
	KindKOutOfN:  "k_out_of_n",
}

// String returns the name diagrams use for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindConstant, KindIdentity, KindWeibull, KindSeries, KindParallel, KindKOutOfN}
}

// Template is one of the block variants declared in this package.
type Template interface {
	// Kind reports which variant the template is.
	Kind() Kind
	isTemplate()
}

// Values maps port names to values.
type Values map[string]cty.Value

// PortSpec declares a single port.
type PortSpec struct {
	Name string
	Type cty.Type
	// Default is the literal an input starts with. It is a null value of
	// Type when the input has no default. Unused for outputs.
	Default cty.Value
}

// Ports lists a node's declared inputs and outputs in order.
type Ports struct {
	Inputs  []PortSpec
	Outputs []PortSpec
}

// InputNames returns the declared input names in order.
func (p Ports) InputNames() []string {
	names := make([]string, len(p.Inputs))
	for i, in := range p.Inputs {
		names[i] = in.Name
	}
	return names
}

// OutputNames returns the declared output names in order.
func (p Ports) OutputNames() []string {
	names := make([]string, len(p.Outputs))
	for i, out := range p.Outputs {
		names[i] = out.Name
	}
	return names
}

func input(name string, ty cty.Type, def cty.Value) PortSpec {
	return PortSpec{Name: name, Type: ty, Default: def}
}

func requiredInput(name string, ty cty.Type) PortSpec {
	return PortSpec{Name: name, Type: ty, Default: cty.NullVal(ty)}
}

func output(name string, ty cty.Type) PortSpec {
	return PortSpec{Name: name, Type: ty}
}
