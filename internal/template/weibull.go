package template

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

// Weibull is a component block whose time to failure follows a two-parameter
// Weibull distribution with shape β and scale η. Its inputs are the
// distribution parameters and the mission time t; its outputs are
//
//	reliability   R(t) = exp(-(t/η)^β)
//	unreliability F(t) = 1 - R(t)
//	mttf          η·Γ(1 + 1/β)
type Weibull struct{}

func (Weibull) Kind() Kind  { return KindWeibull }
func (Weibull) isTemplate() {}

func (Weibull) ports() Ports {
	return Ports{
		Inputs: []PortSpec{
			input("shape", cty.Number, cty.NumberIntVal(1)),
			input("scale", cty.Number, cty.NumberIntVal(1)),
			input("time", cty.Number, cty.NumberIntVal(0)),
		},
		Outputs: []PortSpec{
			output("reliability", cty.Number),
			output("unreliability", cty.Number),
			output("mttf", cty.Number),
		},
	}
}

func (Weibull) compute(in Values) (Values, error) {
	shape, err := number(in, "shape")
	if err != nil {
		return nil, err
	}
	scale, err := number(in, "scale")
	if err != nil {
		return nil, err
	}
	t, err := number(in, "time")
	if err != nil {
		return nil, err
	}
	if shape <= 0 {
		return nil, fmt.Errorf("%w: shape must be positive, got %g", ErrInvalidInput, shape)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidInput, scale)
	}
	if t < 0 {
		return nil, fmt.Errorf("%w: time must not be negative, got %g", ErrInvalidInput, t)
	}

	r := math.Exp(-math.Pow(t/scale, shape))
	out := Values{}
	for name, f := range map[string]float64{
		"reliability":   r,
		"unreliability": 1 - r,
		"mttf":          scale * math.Gamma(1+1/shape),
	} {
		v, err := numberVal(name, f)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
