package template

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// PortsOf declares the ports of a node built from t.
func PortsOf(t Template) Ports {
	switch t := t.(type) {
	case Constant:
		return t.ports()
	case Identity:
		return t.ports()
	case Weibull:
		return t.ports()
	case Series:
		return t.ports()
	case Parallel:
		return t.ports()
	case KOutOfN:
		return t.ports()
	default:
		panic(fmt.Sprintf("template: unhandled variant %T", t))
	}
}

// Compute produces one value per declared output of t from the resolved
// input values.
func Compute(t Template, in Values) (Values, error) {
	switch t := t.(type) {
	case Constant:
		return t.compute(in)
	case Identity:
		return t.compute(in)
	case Weibull:
		return t.compute(in)
	case Series:
		return t.compute(in)
	case Parallel:
		return t.compute(in)
	case KOutOfN:
		return t.compute(in)
	default:
		panic(fmt.Sprintf("template: unhandled variant %T", t))
	}
}

// Validate checks that the variant's parameters describe a usable block.
func Validate(t Template) error {
	switch t := t.(type) {
	case nil:
		return fmt.Errorf("%w: template is nil", ErrInvalidTemplate)
	case Constant:
		if t.Value == cty.NilVal {
			return fmt.Errorf("%w: constant has no value", ErrInvalidTemplate)
		}
	case Series:
		return validateArity(t.Kind(), t.N)
	case Parallel:
		return validateArity(t.Kind(), t.N)
	case KOutOfN:
		if err := validateArity(t.Kind(), t.N); err != nil {
			return err
		}
		if t.K < 1 || t.K > t.N {
			return fmt.Errorf("%w: %s needs 1 <= k <= n, got k=%d n=%d", ErrInvalidTemplate, t.Kind(), t.K, t.N)
		}
	}
	return nil
}

// MaxInputs caps the number of inputs a gate may declare.
const MaxInputs = 1024

func validateArity(k Kind, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %s needs at least one input, got %d", ErrInvalidTemplate, k, n)
	}
	if n > MaxInputs {
		return fmt.Errorf("%w: %s supports at most %d inputs, got %d", ErrInvalidTemplate, k, MaxInputs, n)
	}
	return nil
}
