package template

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// gateInputs declares in1..inN, each a probability defaulting to 1 so an
// unconnected input behaves like a block that never fails.
func gateInputs(n int) []PortSpec {
	specs := make([]PortSpec, 0, n)
	for i := 1; i <= n; i++ {
		specs = append(specs, input(gateInputName(i), cty.Number, cty.NumberIntVal(1)))
	}
	return specs
}

func gateInputName(i int) string {
	return fmt.Sprintf("in%d", i)
}

func gateProbabilities(in Values, n int) ([]float64, error) {
	ps := make([]float64, n)
	for i := range ps {
		p, err := probability(in, gateInputName(i+1))
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

func gatePorts(n int) Ports {
	return Ports{
		Inputs:  gateInputs(n),
		Outputs: []PortSpec{output("reliability", cty.Number)},
	}
}

// Series works only while every one of its N inputs works.
type Series struct {
	N int
}

func (Series) Kind() Kind  { return KindSeries }
func (Series) isTemplate() {}

func (s Series) ports() Ports { return gatePorts(s.N) }

func (s Series) compute(in Values) (Values, error) {
	ps, err := gateProbabilities(in, s.N)
	if err != nil {
		return nil, err
	}
	r := 1.0
	for _, p := range ps {
		r *= p
	}
	return reliability(r)
}

// Parallel works while at least one of its N inputs works.
type Parallel struct {
	N int
}

func (Parallel) Kind() Kind  { return KindParallel }
func (Parallel) isTemplate() {}

func (p Parallel) ports() Ports { return gatePorts(p.N) }

func (p Parallel) compute(in Values) (Values, error) {
	ps, err := gateProbabilities(in, p.N)
	if err != nil {
		return nil, err
	}
	q := 1.0
	for _, r := range ps {
		q *= 1 - r
	}
	return reliability(1 - q)
}

// KOutOfN works while at least K of its N independent inputs work. Inputs may
// have different reliabilities.
type KOutOfN struct {
	K int
	N int
}

func (KOutOfN) Kind() Kind  { return KindKOutOfN }
func (KOutOfN) isTemplate() {}

func (k KOutOfN) ports() Ports { return gatePorts(k.N) }

func (k KOutOfN) compute(in Values) (Values, error) {
	ps, err := gateProbabilities(in, k.N)
	if err != nil {
		return nil, err
	}
	// exact[j] is the probability that exactly j of the inputs seen so far work.
	exact := make([]float64, k.N+1)
	exact[0] = 1
	for i, p := range ps {
		for j := i + 1; j > 0; j-- {
			exact[j] = exact[j]*(1-p) + exact[j-1]*p
		}
		exact[0] *= 1 - p
	}
	r := 0.0
	for j := k.K; j <= k.N; j++ {
		r += exact[j]
	}
	return reliability(r)
}

func reliability(r float64) (Values, error) {
	// Rounding in the products can leave r a hair outside [0, 1].
	r = min(max(r, 0), 1)
	v, err := numberVal("reliability", r)
	if err != nil {
		return nil, err
	}
	return Values{"reliability": v}, nil
}
