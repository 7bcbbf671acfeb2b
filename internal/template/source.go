package template

import "github.com/zclconf/go-cty/cty"

// Constant is a source block with no inputs. Its "out" port always carries
// Value.
type Constant struct {
	Value cty.Value
}

func (Constant) Kind() Kind  { return KindConstant }
func (Constant) isTemplate() {}

func (c Constant) ports() Ports {
	ty := cty.DynamicPseudoType
	if c.Value != cty.NilVal && c.Value.IsKnown() && !c.Value.IsNull() {
		ty = c.Value.Type()
	}
	return Ports{Outputs: []PortSpec{output("out", ty)}}
}

func (c Constant) compute(Values) (Values, error) {
	return Values{"out": c.Value}, nil
}

// Identity forwards its "in" port to its "result" port. It is used to expose
// a value under a stable name, for example a diagram's top-level result.
type Identity struct{}

func (Identity) Kind() Kind  { return KindIdentity }
func (Identity) isTemplate() {}

func (Identity) ports() Ports {
	return Ports{
		Inputs:  []PortSpec{requiredInput("in", cty.DynamicPseudoType)},
		Outputs: []PortSpec{output("result", cty.DynamicPseudoType)},
	}
}

func (Identity) compute(in Values) (Values, error) {
	v, ok := in["in"]
	if !ok {
		return nil, missingInput("in")
	}
	return Values{"result": v}, nil
}
