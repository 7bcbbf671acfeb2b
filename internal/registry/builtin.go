package registry

import (
	"fmt"

	"github.com/vk/block/internal/template"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Default returns a registry holding every built-in kind.
func Default() *Registry {
	r := New()
	for _, k := range builtins() {
		r.Register(k)
	}
	return r
}

func ptr(v cty.Value) *cty.Value { return &v }

func intParam(params map[string]cty.Value, name string) (int, error) {
	var n int
	if err := gocty.FromCtyValue(params[name], &n); err != nil {
		return 0, fmt.Errorf("%w: parameter '%s': %s", ErrInvalidParams, name, err)
	}
	return n, nil
}

func arity(description string) ParamDefinition {
	return ParamDefinition{
		Name:        "n",
		Type:        cty.Number,
		Description: description,
		Default:     ptr(cty.NumberIntVal(2)),
	}
}

func builtins() []*Kind {
	return []*Kind{
		{
			Name:        template.KindConstant.String(),
			Description: "Source block emitting a fixed value on output 'out'.",
			Params: []ParamDefinition{
				{Name: "value", Type: cty.DynamicPseudoType, Description: "The value to emit."},
			},
			New: func(p map[string]cty.Value) (template.Template, error) {
				return template.Constant{Value: p["value"]}, nil
			},
			Sample: map[string]cty.Value{"value": cty.NumberIntVal(1)},
		},
		{
			Name:        template.KindIdentity.String(),
			Description: "Passes input 'in' through to output 'result'.",
			New: func(map[string]cty.Value) (template.Template, error) {
				return template.Identity{}, nil
			},
		},
		{
			Name:        template.KindWeibull.String(),
			Description: "Component with Weibull distributed time to failure. Inputs shape, scale and time; outputs reliability, unreliability and mttf.",
			New: func(map[string]cty.Value) (template.Template, error) {
				return template.Weibull{}, nil
			},
		},
		{
			Name:        template.KindSeries.String(),
			Description: "Works only if all of inputs in1..inN work.",
			Params:      []ParamDefinition{arity("Number of inputs.")},
			New: func(p map[string]cty.Value) (template.Template, error) {
				n, err := intParam(p, "n")
				if err != nil {
					return nil, err
				}
				return template.Series{N: n}, nil
			},
		},
		{
			Name:        template.KindParallel.String(),
			Description: "Works if any of inputs in1..inN works.",
			Params:      []ParamDefinition{arity("Number of inputs.")},
			New: func(p map[string]cty.Value) (template.Template, error) {
				n, err := intParam(p, "n")
				if err != nil {
					return nil, err
				}
				return template.Parallel{N: n}, nil
			},
		},
		{
			Name:        template.KindKOutOfN.String(),
			Description: "Works if at least k of inputs in1..inN work.",
			Params: []ParamDefinition{
				{Name: "k", Type: cty.Number, Description: "Number of inputs that must work."},
				{Name: "n", Type: cty.Number, Description: "Number of inputs."},
			},
			New: func(p map[string]cty.Value) (template.Template, error) {
				k, err := intParam(p, "k")
				if err != nil {
					return nil, err
				}
				n, err := intParam(p, "n")
				if err != nil {
					return nil, err
				}
				return template.KOutOfN{K: k, N: n}, nil
			},
			Sample: map[string]cty.Value{"k": cty.NumberIntVal(2), "n": cty.NumberIntVal(3)},
		},
	}
}
