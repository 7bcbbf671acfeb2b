package template

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

func missingInput(name string) error {
	return fmt.Errorf("%w: input %q has no value", ErrInvalidInput, name)
}

// number reads a finite float64 from the named input.
func number(in Values, name string) (float64, error) {
	v, ok := in[name]
	if !ok || v == cty.NilVal || v.IsNull() {
		return 0, missingInput(name)
	}
	if !v.IsWhollyKnown() {
		return 0, fmt.Errorf("%w: input %q is not known", ErrInvalidInput, name)
	}
	nv, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("%w: input %q: %v", ErrInvalidInput, name, err)
	}
	var f float64
	if err := gocty.FromCtyValue(nv, &f); err != nil {
		return 0, fmt.Errorf("%w: input %q: %v", ErrInvalidInput, name, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: input %q is not finite", ErrInvalidInput, name)
	}
	return f, nil
}

// probability reads a number in [0, 1] from the named input.
func probability(in Values, name string) (float64, error) {
	p, err := number(in, name)
	if err != nil {
		return 0, err
	}
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: input %q must be a probability in [0, 1], got %g", ErrInvalidInput, name, p)
	}
	return p, nil
}

// numberVal wraps a float result, rejecting values cty cannot represent.
func numberVal(name string, f float64) (cty.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return cty.NilVal, fmt.Errorf("%w: output %q is not finite", ErrInvalidInput, name)
	}
	return cty.NumberFloatVal(f), nil
}
